package models

import "time"

// AI洞察类别
const (
	CategoryProductivity = "productivity"
	CategoryWellness     = "wellness"
	CategoryScheduling   = "scheduling"
	CategoryMotivation   = "motivation"
)

// AIInsight AI洞察，按请求生成，不落库
type AIInsight struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	Actionable  bool      `json:"actionable"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ScheduleSuggestion 单个任务的排期建议，仅随请求返回
type ScheduleSuggestion struct {
	TaskID        string `json:"taskId"`
	SuggestedTime string `json:"suggestedTime"`
	Duration      int    `json:"duration"` // 分钟
	Reasoning     string `json:"reasoning"`
	EnergyMatch   int    `json:"energyMatch"` // 1-5
}

// TaskSuggestion AI推荐的新任务
type TaskSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Reasoning   string `json:"reasoning"`
	Category    string `json:"category"`
}
