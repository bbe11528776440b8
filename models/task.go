package models

import (
	"time"
)

// 任务优先级
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// 任务状态
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Task 任务模型
type Task struct {
	ID           string     `gorm:"type:varchar(50);primary_key" json:"id"`
	UserID       string     `gorm:"type:varchar(50);index" json:"user_id"`
	Title        string     `gorm:"type:varchar(100)" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Priority     string     `gorm:"type:varchar(20);default:medium" json:"priority"`
	Status       string     `gorm:"type:varchar(20);default:pending" json:"status"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	AIMetadata   string     `gorm:"type:text" json:"aiMetadata,omitempty"` // AI附加的自由格式元数据
	CreatedAt    time.Time  `json:"createdAt"`
	LastModified time.Time  `json:"lastModified"`
}

// IsValidPriority 校验任务优先级
func IsValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// IsValidStatus 校验任务状态
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
