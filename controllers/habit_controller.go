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

type HabitController struct{}

// CreateHabit 创建习惯。界面上同时只展示一个活跃习惯，
// 这里不做数据层强制，但会把旧的活跃习惯标记为放弃
func (hc *HabitController) CreateHabit(c *gin.Context) {
	uid := c.GetString("uid")

	var request models.CreateHabitRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := request.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := config.DB.Model(&models.Habit{}).
		Where("user_id = ? AND status = ?", uid, models.HabitActive).
		Update("status", models.HabitAbandoned).Error; err != nil {
		config.Logger.Errorw("归档旧习惯失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建习惯失败"})
		return
	}

	now := time.Now()
	startDate := now.UTC()
	if request.StartDate != nil {
		startDate = *request.StartDate
	}

	habit := models.Habit{
		ID:          utils.GenerateID(),
		UserID:      uid,
		Title:       request.Title,
		Description: request.Description,
		StartDate:   startDate,
		TargetDays:  request.TargetDays,
		Status:      models.HabitActive,
		CreatedAt:   now,
	}

	if err := config.DB.Create(&habit).Error; err != nil {
		config.Logger.Errorw("创建习惯失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建习惯失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": habit})
}

// GetHabit 获取当前活跃习惯及打卡统计
func (hc *HabitController) GetHabit(c *gin.Context) {
	uid := c.GetString("uid")

	habit, err := activeHabitWithCounters(uid)
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "暂无活跃习惯"})
		return
	}
	if err != nil {
		config.Logger.Errorw("获取习惯失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取习惯失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": habit})
}

// MarkDone 习惯打卡。同一(习惯,日期)至多一条记录，重复打卡是幂等操作
func (hc *HabitController) MarkDone(c *gin.Context) {
	uid := c.GetString("uid")

	var request models.MarkHabitDoneRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
	}
	if err := request.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	var habit models.Habit
	if err := config.DB.Where("user_id = ? AND status = ?", uid, models.HabitActive).
		Order("created_at desc").First(&habit).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "暂无活跃习惯"})
		} else {
			config.Logger.Errorw("获取习惯失败", "error", err, "uid", uid)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "获取习惯失败"})
		}
		return
	}

	// 当天已打卡时直接返回现状
	var existing models.HabitLog
	err := config.DB.Where("habit_id = ? AND log_date = ?", habit.ID, request.Date).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		log := models.HabitLog{
			ID:      utils.GenerateID(),
			HabitID: habit.ID,
			UserID:  uid,
			LogDate: request.Date,
			Done:    true,
		}
		if err := config.DB.Create(&log).Error; err != nil {
			config.Logger.Errorw("习惯打卡失败", "error", err, "uid", uid, "habitID", habit.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "习惯打卡失败"})
			return
		}
	} else if err != nil {
		config.Logger.Errorw("查询打卡记录失败", "error", err, "uid", uid, "habitID", habit.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "习惯打卡失败"})
		return
	}

	result, err := habitWithCounters(habit)
	if err != nil {
		config.Logger.Errorw("统计打卡记录失败", "error", err, "uid", uid, "habitID", habit.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "习惯打卡失败"})
		return
	}

	// 达到目标天数后标记完成
	if result.DoneDays >= result.TargetDays && result.Status == models.HabitActive {
		if err := config.DB.Model(&models.Habit{}).Where("id = ?", result.ID).
			Update("status", models.HabitCompleted).Error; err != nil {
			config.Logger.Errorw("更新习惯状态失败", "error", err, "habitID", result.ID)
		} else {
			result.Status = models.HabitCompleted
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// activeHabitWithCounters 查询最近的活跃习惯并补上推导计数
func activeHabitWithCounters(uid string) (models.Habit, error) {
	var habit models.Habit
	if err := config.DB.Where("user_id = ? AND status = ?", uid, models.HabitActive).
		Order("created_at desc").First(&habit).Error; err != nil {
		return habit, err
	}
	return habitWithCounters(habit)
}

func habitWithCounters(habit models.Habit) (models.Habit, error) {
	var logs []models.HabitLog
	if err := config.DB.Where("habit_id = ?", habit.ID).Find(&logs).Error; err != nil {
		return habit, err
	}
	habit.DoneDays, habit.LongestStreak = models.ComputeHabitCounters(logs)
	return habit, nil
}
