package controllers

import (
	"net/http"

	"SaturwayGo/config"
	"SaturwayGo/models"
	"github.com/gin-gonic/gin"
)

type UserController struct{}

// GetMe 获取当前用户信息
func (uc *UserController) GetMe(c *gin.Context) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "用户未认证"})
		return
	}

	var user models.User
	if err := config.DB.Where("id = ?", uid).First(&user).Error; err != nil {
		config.Logger.Errorw("数据库查询失败", "error", err, "userID", uid)
		c.JSON(http.StatusNotFound, gin.H{"error": "用户未找到"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"firstName": user.FirstName,
			"language":  user.Language,
		},
	})
}
