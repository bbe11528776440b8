package models

import (
	"fmt"
	"time"
)

// ChatMessage 带角色标记的对话消息
type ChatMessage struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// TelegramAuthRequest Telegram小程序登录请求
type TelegramAuthRequest struct {
	InitData string `json:"initData" binding:"required"`
}

// CreateTaskRequest 创建任务请求结构体
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

func (r *CreateTaskRequest) Validate() error {
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if !IsValidPriority(r.Priority) {
		return fmt.Errorf("invalid priority, must be one of: low, medium, high, urgent")
	}
	if r.DueDate != nil {
		utcTime := r.DueDate.UTC()
		r.DueDate = &utcTime
	}
	return nil
}

// UpdateTaskRequest 更新任务请求结构体，空字段不修改
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
}

func (r *UpdateTaskRequest) Validate() error {
	if r.Priority != nil && !IsValidPriority(*r.Priority) {
		return fmt.Errorf("invalid priority, must be one of: low, medium, high, urgent")
	}
	if r.Status != nil && !IsValidStatus(*r.Status) {
		return fmt.Errorf("invalid status, must be one of: pending, in_progress, completed, cancelled")
	}
	if r.DueDate != nil {
		utcTime := r.DueDate.UTC()
		r.DueDate = &utcTime
	}
	return nil
}

// LogMoodRequest 心情打卡请求结构体
type LogMoodRequest struct {
	Mood   int    `json:"mood" binding:"required"`
	Energy int    `json:"energy" binding:"required"`
	Focus  int    `json:"focus" binding:"required"`
	Scale  int    `json:"scale"` // 5 或 10，默认10
	Note   string `json:"note"`
	Source string `json:"source"`
}

// Validate 校验并把五分制输入换算到统一的1-10刻度
func (r *LogMoodRequest) Validate() error {
	if r.Scale == 0 {
		r.Scale = 10
	}
	switch r.Scale {
	case 5:
		r.Mood *= 2
		r.Energy *= 2
		r.Focus *= 2
		r.Scale = 10
	case 10:
	default:
		return fmt.Errorf("invalid scale, must be 5 or 10")
	}
	for _, v := range []int{r.Mood, r.Energy, r.Focus} {
		if v < 1 || v > 10 {
			return fmt.Errorf("mood, energy and focus must be in range 1-10")
		}
	}
	return nil
}

// LogEnergyRequest 能量打卡请求结构体
type LogEnergyRequest struct {
	Level  int    `json:"level" binding:"required"`
	Note   string `json:"note"`
	Source string `json:"source"`
}

func (r *LogEnergyRequest) Validate() error {
	if !IsValidEnergyLevel(r.Level) {
		return fmt.Errorf("invalid energy level, must be one of: 20, 40, 60, 80, 100")
	}
	return nil
}

// CreateHabitRequest 创建习惯请求结构体
type CreateHabitRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	TargetDays  int        `json:"targetDays"`
	StartDate   *time.Time `json:"startDate"`
}

func (r *CreateHabitRequest) Validate() error {
	if r.TargetDays == 0 {
		r.TargetDays = 40
	}
	if r.TargetDays < 1 {
		return fmt.Errorf("targetDays must be positive")
	}
	if r.StartDate != nil {
		utcTime := r.StartDate.UTC()
		r.StartDate = &utcTime
	}
	return nil
}

// MarkHabitDoneRequest 习惯打卡请求结构体，日期为空时取当天
type MarkHabitDoneRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

func (r *MarkHabitDoneRequest) Validate() error {
	if r.Date == "" {
		r.Date = time.Now().UTC().Format("2006-01-02")
		return nil
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("invalid date, must be YYYY-MM-DD")
	}
	return nil
}

// CreateReviewRequest 每日复盘请求结构体
type CreateReviewRequest struct {
	Date   string `json:"date"`
	Rating int    `json:"rating" binding:"required"`
	Text   string `json:"text"`
}

func (r *CreateReviewRequest) Validate() error {
	if r.Date == "" {
		r.Date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("invalid date, must be YYYY-MM-DD")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating must be in range 1-5")
	}
	return nil
}

// ChatRequest 聊天请求结构体
type ChatRequest struct {
	Message string        `json:"message" binding:"required"`
	History []ChatMessage `json:"history"`
}

// SchedulePreferences 排期偏好
type SchedulePreferences struct {
	WorkStart     string  `json:"workStart"` // HH:MM
	WorkEnd       string  `json:"workEnd"`
	BreakMinutes  int     `json:"breakMinutes"`
	UrgencyWeight float64 `json:"urgencyWeight"`
}

// OptimizeScheduleRequest 排期优化请求结构体
type OptimizeScheduleRequest struct {
	TaskIDs     []string             `json:"taskIds"`
	EnergyLevel int                  `json:"energyLevel"`
	FocusLevel  int                  `json:"focusLevel"`
	Date        string               `json:"date"` // YYYY-MM-DD，为空时取当天
	Preferences *SchedulePreferences `json:"preferences"`
}
