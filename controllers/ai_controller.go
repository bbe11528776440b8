package controllers

import (
	"net/http"
	"strings"
	"time"

	"SaturwayGo/config"
	"SaturwayGo/models"
	"SaturwayGo/services"
	"github.com/gin-gonic/gin"
)

type AIController struct {
	aiService *services.AIService
}

func NewAIController(aiService *services.AIService) *AIController {
	return &AIController{
		aiService: aiService,
	}
}

// Chat 处理聊天请求，响应可能来自缓存
func (ac *AIController) Chat(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		config.Logger.Errorw("未获取到用户ID")
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var request models.ChatRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	messages := append(request.History, models.ChatMessage{
		Role:    "user",
		Content: request.Message,
	})

	response, err := ac.aiService.Chat(ctx, uid.(string), messages, "")
	if err != nil {
		config.Logger.Errorw("聊天请求失败", "error", err, "uid", uid)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "聊天请求失败"})
		return
	}

	ctx.JSON(http.StatusOK, models.ChatResponse{
		Success:    true,
		Response:   response,
		TokensUsed: estimateTokens(messages, response),
	})
}

// OptimizeSchedule 处理排期优化请求，解析失败时返回兜底排期，不报错
func (ac *AIController) OptimizeSchedule(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		config.Logger.Errorw("未获取到用户ID")
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	// 请求体可以为空，全部字段可选
	var request models.OptimizeScheduleRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&request); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: " + err.Error(),
			})
			return
		}
	}

	date := request.Date
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	// 查询待排期的任务
	query := config.DB.Where("user_id = ? AND status IN ?",
		uid, []string{models.StatusPending, models.StatusInProgress})
	if len(request.TaskIDs) > 0 {
		query = query.Where("id IN ?", request.TaskIDs)
	}
	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		config.Logger.Errorw("获取任务失败", "error", err, "uid", uid)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "获取任务失败"})
		return
	}

	stats, err := services.MoodStatsFor(uid.(string), 7)
	if err != nil {
		config.Logger.Errorw("获取心情统计失败", "error", err, "uid", uid)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "获取心情统计失败"})
		return
	}

	// 请求里显式给出的当前状态优先于历史统计
	if request.EnergyLevel > 0 {
		stats.AvgEnergy = float64(request.EnergyLevel)
	}
	if request.FocusLevel > 0 {
		stats.AvgFocus = float64(request.FocusLevel)
	}

	result := ac.aiService.OptimizeSchedule(ctx, uid.(string), date, tasks, stats, request.Preferences)

	ctx.JSON(http.StatusOK, models.OptimizeScheduleResponse{
		Success:     true,
		Suggestions: result.Schedule,
		Reasoning:   strings.Join(result.Insights, "\n"),
	})
}

// Suggestions 处理任务推荐请求，无需请求体
func (ac *AIController) Suggestions(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		config.Logger.Errorw("未获取到用户ID")
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var tasks []models.Task
	if err := config.DB.Where("user_id = ?", uid).Find(&tasks).Error; err != nil {
		config.Logger.Errorw("获取任务失败", "error", err, "uid", uid)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "获取任务失败"})
		return
	}

	var completed, pending []string
	for _, task := range tasks {
		switch task.Status {
		case models.StatusCompleted:
			completed = append(completed, task.Title)
		case models.StatusPending, models.StatusInProgress:
			pending = append(pending, task.Title)
		}
	}

	stats, err := services.MoodStatsFor(uid.(string), 7)
	if err != nil {
		config.Logger.Errorw("获取心情统计失败", "error", err, "uid", uid)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "获取心情统计失败"})
		return
	}

	titles := ac.aiService.GenerateTaskSuggestions(ctx, uid.(string), completed, pending, stats)

	suggestions := make([]models.TaskSuggestion, len(titles))
	for i, title := range titles {
		suggestions[i] = models.TaskSuggestion{
			Title:    title,
			Priority: models.PriorityMedium,
			Category: "general",
		}
	}

	ctx.JSON(http.StatusOK, models.SuggestionsResponse{
		Success:     true,
		Suggestions: suggestions,
	})
}

// GetInsights 规则引擎生成洞察，不调用LLM，提供商不可用时也能工作
func (ac *AIController) GetInsights(ctx *gin.Context) {
	uid, exists := ctx.Get("uid")
	if !exists {
		config.Logger.Errorw("未获取到用户ID")
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	taskStats, err := services.TaskStatsFor(uid.(string))
	if err != nil {
		config.Logger.Errorw("获取任务统计失败", "error", err, "uid", uid)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "获取任务统计失败"})
		return
	}

	moodStats, err := services.MoodStatsFor(uid.(string), 7)
	if err != nil {
		config.Logger.Errorw("获取心情统计失败", "error", err, "uid", uid)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "获取心情统计失败"})
		return
	}

	insights := services.BuildInsights(taskStats, moodStats)
	if insights == nil {
		insights = []models.AIInsight{}
	}

	ctx.JSON(http.StatusOK, models.InsightsResponse{
		Success:  true,
		Insights: insights,
	})
}

// 辅助函数：粗略估算token用量，中英文混排按4字符一个token
func estimateTokens(messages []models.ChatMessage, response string) int {
	total := len(response)
	for _, m := range messages {
		total += len(m.Content)
	}
	return total / 4
}
