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

type TaskController struct{}

// ListTasks 获取用户的全部任务
func (tc *TaskController) ListTasks(c *gin.Context) {
	uid := c.GetString("uid")

	var tasks []models.Task
	if err := config.DB.Where("user_id = ?", uid).Order("created_at desc").Find(&tasks).Error; err != nil {
		config.Logger.Errorw("获取任务列表失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取任务列表失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": tasks})
}

// CreateTask 创建任务
func (tc *TaskController) CreateTask(c *gin.Context) {
	uid := c.GetString("uid")

	var request models.CreateTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := request.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	now := time.Now()
	task := models.Task{
		ID:           utils.GenerateID(),
		UserID:       uid,
		Title:        request.Title,
		Description:  request.Description,
		Priority:     request.Priority,
		Status:       models.StatusPending,
		DueDate:      request.DueDate,
		CreatedAt:    now,
		LastModified: now,
	}

	if err := config.DB.Create(&task).Error; err != nil {
		config.Logger.Errorw("创建任务失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建任务失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

// UpdateTask 更新任务，空字段不修改
func (tc *TaskController) UpdateTask(c *gin.Context) {
	uid := c.GetString("uid")
	taskID := c.Param("id")

	var request models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := request.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	var task models.Task
	if err := config.DB.Where("id = ? AND user_id = ?", taskID, uid).First(&task).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "任务不存在"})
		} else {
			config.Logger.Errorw("查询任务失败", "error", err, "uid", uid, "taskID", taskID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "查询任务失败"})
		}
		return
	}

	if request.Title != nil {
		task.Title = *request.Title
	}
	if request.Description != nil {
		task.Description = *request.Description
	}
	if request.Priority != nil {
		task.Priority = *request.Priority
	}
	if request.Status != nil {
		task.Status = *request.Status
		if task.Status == models.StatusCompleted && task.CompletedAt == nil {
			now := time.Now()
			task.CompletedAt = &now
		}
	}
	if request.DueDate != nil {
		task.DueDate = request.DueDate
	}
	task.LastModified = time.Now()

	if err := config.DB.Save(&task).Error; err != nil {
		config.Logger.Errorw("更新任务失败", "error", err, "uid", uid, "taskID", taskID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新任务失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

// CompleteTask 完成任务，完成时间由服务端写入
func (tc *TaskController) CompleteTask(c *gin.Context) {
	uid := c.GetString("uid")
	taskID := c.Param("id")

	var task models.Task
	if err := config.DB.Where("id = ? AND user_id = ?", taskID, uid).First(&task).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "任务不存在"})
		} else {
			config.Logger.Errorw("查询任务失败", "error", err, "uid", uid, "taskID", taskID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "查询任务失败"})
		}
		return
	}

	now := time.Now()
	task.Status = models.StatusCompleted
	task.CompletedAt = &now
	task.LastModified = now

	if err := config.DB.Save(&task).Error; err != nil {
		config.Logger.Errorw("完成任务失败", "error", err, "uid", uid, "taskID", taskID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "完成任务失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

// DeleteTask 删除任务
func (tc *TaskController) DeleteTask(c *gin.Context) {
	uid := c.GetString("uid")
	taskID := c.Param("id")

	result := config.DB.Where("id = ? AND user_id = ?", taskID, uid).Delete(&models.Task{})
	if result.Error != nil {
		config.Logger.Errorw("删除任务失败", "error", result.Error, "uid", uid, "taskID", taskID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除任务失败"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "任务不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
