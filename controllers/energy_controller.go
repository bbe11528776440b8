package controllers

import (
	"net/http"
	"time"

	"SaturwayGo/config"
	"SaturwayGo/models"
	"SaturwayGo/utils"
	"github.com/gin-gonic/gin"
)

type EnergyController struct{}

// LogEnergy 记录能量打卡，五档刻度，只追加不修改
func (ec *EnergyController) LogEnergy(c *gin.Context) {
	uid := c.GetString("uid")

	var request models.LogEnergyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := request.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	log := models.EnergyLog{
		ID:         utils.GenerateID(),
		UserID:     uid,
		Level:      request.Level,
		Note:       request.Note,
		Source:     request.Source,
		RecordDate: time.Now().UTC(),
	}

	if err := config.DB.Create(&log).Error; err != nil {
		config.Logger.Errorw("记录能量失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "记录能量失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": log})
}

// GetTodayEnergy 获取当天的能量记录
func (ec *EnergyController) GetTodayEnergy(c *gin.Context) {
	uid := c.GetString("uid")

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var logs []models.EnergyLog
	if err := config.DB.Where("user_id = ? AND record_date >= ?", uid, dayStart).
		Order("record_date desc").Find(&logs).Error; err != nil {
		config.Logger.Errorw("获取能量记录失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取能量记录失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": logs})
}
