package models

// 心情走势标签
const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// TaskStats 任务统计
type TaskStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	CompletionRate float64 `json:"completionRate"` // 0-100
}

// MoodStats 心情统计，均值按1-10刻度
type MoodStats struct {
	AvgMood   float64 `json:"avgMood"`
	AvgEnergy float64 `json:"avgEnergy"`
	AvgFocus  float64 `json:"avgFocus"`
	Trend     string  `json:"trend"`
	Count     int     `json:"count"`
}
