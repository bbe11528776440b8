package models

import (
	"time"
)

// User 用户模型
type User struct {
	ID         string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	TelegramID int64      `gorm:"uniqueIndex" json:"telegramId"`
	Username   string     `gorm:"type:varchar(100)" json:"username"`
	FirstName  string     `gorm:"type:varchar(100)" json:"firstName"`
	Language   string     `gorm:"type:varchar(10)" json:"language"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
}

func (u *User) GetDisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}
