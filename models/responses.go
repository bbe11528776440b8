package models

import "encoding/json"

// Envelope 统一响应包装结构体
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// ErrorResponse 错误响应结构体
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// ChatResponse 聊天响应结构体
type ChatResponse struct {
	Success    bool   `json:"success"`
	Response   string `json:"response"`
	TokensUsed int    `json:"tokensUsed"`
}

// OptimizeScheduleResponse 排期优化响应结构体
type OptimizeScheduleResponse struct {
	Success     bool                 `json:"success"`
	Suggestions []ScheduleSuggestion `json:"suggestions"`
	Reasoning   string               `json:"reasoning"`
}

// SuggestionsResponse 任务推荐响应结构体
type SuggestionsResponse struct {
	Success     bool             `json:"success"`
	Suggestions []TaskSuggestion `json:"suggestions"`
}

// InsightsResponse AI洞察响应结构体
type InsightsResponse struct {
	Success  bool        `json:"success"`
	Insights []AIInsight `json:"insights"`
}

// AuthResponse 登录响应结构体
type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}
