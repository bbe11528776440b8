package controllers

import (
	"net/http"
	"time"

	"SaturwayGo/config"
	"SaturwayGo/models"
	"SaturwayGo/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReviewController struct{}

// CreateReview 提交每日复盘，同一天重复提交时覆盖旧内容
func (rc *ReviewController) CreateReview(c *gin.Context) {
	uid := c.GetString("uid")

	var request models.CreateReviewRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := request.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// 检查是否已存在同日复盘
	var existing models.Review
	err := config.DB.Where("user_id = ? AND date = ?", uid, request.Date).First(&existing).Error
	if err == nil {
		existing.Rating = request.Rating
		existing.Text = request.Text
		if err := config.DB.Save(&existing).Error; err != nil {
			config.Logger.Errorw("更新复盘失败", "error", err, "uid", uid)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "保存复盘失败"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": existing})
		return
	}
	if err != gorm.ErrRecordNotFound {
		config.Logger.Errorw("查询复盘失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存复盘失败"})
		return
	}

	review := models.Review{
		ID:        utils.GenerateID(),
		UserID:    uid,
		Date:      request.Date,
		Rating:    request.Rating,
		Text:      request.Text,
		CreatedAt: time.Now(),
	}
	if err := config.DB.Create(&review).Error; err != nil {
		config.Logger.Errorw("保存复盘失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存复盘失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": review})
}

// GetReviews 获取复盘记录，支持按日期过滤
func (rc *ReviewController) GetReviews(c *gin.Context) {
	uid := c.GetString("uid")

	query := config.DB.Where("user_id = ?", uid)
	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}

	var reviews []models.Review
	if err := query.Order("date desc").Find(&reviews).Error; err != nil {
		config.Logger.Errorw("获取复盘记录失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取复盘记录失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": reviews})
}
