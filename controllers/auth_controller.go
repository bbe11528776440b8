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

type AuthController struct {
	BotToken string
}

// TelegramLogin 校验小程序initData并换发JWT令牌
func (ac *AuthController) TelegramLogin(c *gin.Context) {
	var request models.TelegramAuthRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	tgUser, err := utils.VerifyInitData(request.InitData, ac.BotToken)
	if err != nil {
		config.Logger.Errorw("initData校验失败", "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的登录凭证"})
		return
	}

	// 按Telegram ID查找用户，不存在时创建
	var user models.User
	err = config.DB.Where("telegram_id = ?", tgUser.ID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		user = models.User{
			ID:         utils.GenerateID(),
			TelegramID: tgUser.ID,
			Username:   tgUser.Username,
			FirstName:  tgUser.FirstName,
			Language:   tgUser.LanguageCode,
			CreatedAt:  time.Now(),
		}
		if err := config.DB.Create(&user).Error; err != nil {
			config.Logger.Errorw("创建用户失败", "error", err, "telegramID", tgUser.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "创建用户失败"})
			return
		}
	} else if err != nil {
		config.Logger.Errorw("查询用户失败", "error", err, "telegramID", tgUser.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取用户信息失败"})
		return
	}

	// 更新最近登录时间
	now := time.Now()
	if err := config.DB.Model(&user).Update("last_login", now).Error; err != nil {
		config.Logger.Errorw("更新登录时间失败", "error", err, "uid", user.ID)
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		config.Logger.Errorw("生成令牌失败", "error", err, "uid", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成令牌失败"})
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Success: true,
		Token:   token,
		User:    user,
	})
}
