package models

import "time"

// MoodLog 心情记录模型，创建后不可修改，只追加
type MoodLog struct {
	ID         string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(50);index" json:"user_id"`
	Mood       int       `json:"mood"`   // 1-10
	Energy     int       `json:"energy"` // 1-10
	Focus      int       `json:"focus"`  // 1-10
	Note       string    `gorm:"type:text" json:"note,omitempty"`
	Source     string    `gorm:"type:varchar(50)" json:"source,omitempty"` // 记录来源页面
	RecordDate time.Time `json:"recordDate"`
}
