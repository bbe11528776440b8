package controllers

import (
	"net/http"
	"strconv"
	"time"

	"SaturwayGo/config"
	"SaturwayGo/models"
	"SaturwayGo/services"
	"SaturwayGo/utils"
	"github.com/gin-gonic/gin"
)

type MoodController struct{}

// LogMood 记录心情打卡，记录只追加不修改
func (mc *MoodController) LogMood(c *gin.Context) {
	uid := c.GetString("uid")

	var request models.LogMoodRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := request.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	log := models.MoodLog{
		ID:         utils.GenerateID(),
		UserID:     uid,
		Mood:       request.Mood,
		Energy:     request.Energy,
		Focus:      request.Focus,
		Note:       request.Note,
		Source:     request.Source,
		RecordDate: time.Now().UTC(),
	}

	if err := config.DB.Create(&log).Error; err != nil {
		config.Logger.Errorw("记录心情失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "记录心情失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": log})
}

// GetMoodLogs 获取近N天的心情记录，默认7天
func (mc *MoodController) GetMoodLogs(c *gin.Context) {
	uid := c.GetString("uid")

	days := 7
	if daysStr := c.Query("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的days参数"})
			return
		}
		days = parsed
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	var logs []models.MoodLog
	if err := config.DB.Where("user_id = ? AND record_date >= ?", uid, since).
		Order("record_date desc").Find(&logs).Error; err != nil {
		config.Logger.Errorw("获取心情记录失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取心情记录失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": logs})
}

// GetMoodStats 获取近7天心情统计
func (mc *MoodController) GetMoodStats(c *gin.Context) {
	uid := c.GetString("uid")

	stats, err := services.MoodStatsFor(uid, 7)
	if err != nil {
		config.Logger.Errorw("获取心情统计失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取心情统计失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
