package models

import (
	"time"
)

// Review 每日复盘记录
type Review struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index:idx_review_user_date,unique" json:"user_id"`
	Date      string    `gorm:"type:varchar(10);index:idx_review_user_date,unique" json:"date"` // YYYY-MM-DD
	Rating    int       `json:"rating"` // 1-5
	Text      string    `gorm:"type:text" json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Review) TableName() string {
	return "reviews"
}
