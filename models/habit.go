package models

import (
	"sort"
	"time"
)

// 习惯状态
const (
	HabitActive    = "active"
	HabitCompleted = "completed"
	HabitAbandoned = "abandoned"
)

// Habit 习惯模型
type Habit struct {
	ID            string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID        string    `gorm:"type:varchar(50);index" json:"user_id"`
	Title         string    `gorm:"type:varchar(100)" json:"title"`
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	StartDate     time.Time `json:"startDate"`
	TargetDays    int       `gorm:"default:40" json:"targetDays"`
	Status        string    `gorm:"type:varchar(20);default:active" json:"status"`
	DoneDays      int       `gorm:"-" json:"doneDays"`      // 由HabitLog推导
	LongestStreak int       `gorm:"-" json:"longestStreak"` // 由HabitLog推导
	CreatedAt     time.Time `json:"createdAt"`
}

// HabitLog 习惯打卡记录，每个(习惯,日期)至多一条
type HabitLog struct {
	ID      string `gorm:"type:varchar(50);primaryKey" json:"id"`
	HabitID string `gorm:"type:varchar(50);uniqueIndex:idx_habit_log_date" json:"habit_id"`
	UserID  string `gorm:"type:varchar(50);index" json:"user_id"`
	LogDate string `gorm:"type:varchar(10);uniqueIndex:idx_habit_log_date" json:"logDate"` // YYYY-MM-DD
	Done    bool   `gorm:"default:true" json:"done"`
}

// ComputeHabitCounters 根据打卡记录推导完成天数和最长连续天数
func ComputeHabitCounters(logs []HabitLog) (doneDays, longestStreak int) {
	var dates []string
	seen := make(map[string]bool)
	for _, log := range logs {
		if !log.Done || seen[log.LogDate] {
			continue
		}
		seen[log.LogDate] = true
		dates = append(dates, log.LogDate)
	}
	doneDays = len(dates)
	if doneDays == 0 {
		return 0, 0
	}

	sort.Strings(dates)

	streak := 1
	longestStreak = 1
	for i := 1; i < len(dates); i++ {
		prev, err1 := time.Parse("2006-01-02", dates[i-1])
		curr, err2 := time.Parse("2006-01-02", dates[i])
		if err1 != nil || err2 != nil {
			continue
		}
		if curr.Sub(prev) == 24*time.Hour {
			streak++
		} else {
			streak = 1
		}
		if streak > longestStreak {
			longestStreak = streak
		}
	}
	return doneDays, longestStreak
}
