package routes

import (
	"SaturwayGo/config"
	"SaturwayGo/controllers"
	"SaturwayGo/middleware"
	"SaturwayGo/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, aiService *services.AIService, conf config.Config) {
	authController := controllers.AuthController{BotToken: conf.TelegramBotToken}
	aiController := controllers.NewAIController(aiService)
	taskController := controllers.TaskController{}
	moodController := controllers.MoodController{}
	energyController := controllers.EnergyController{}
	habitController := controllers.HabitController{}
	reviewController := controllers.ReviewController{}
	userController := controllers.UserController{}

	// 公开路由（无需认证）
	public := r.Group("/api/v1")
	{
		public.POST("/auth/telegram", authController.TelegramLogin)
	}

	// 需要认证的路由
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware()) // 应用认证中间件
	{
		// AI 相关接口
		private.POST("/ai/chat", aiController.Chat)
		private.POST("/ai/optimize-schedule", aiController.OptimizeSchedule)
		private.POST("/ai/suggestions", aiController.Suggestions)
		private.GET("/ai/insights", aiController.GetInsights)

		// 任务接口
		private.GET("/tasks", taskController.ListTasks)
		private.POST("/tasks", taskController.CreateTask)
		private.PUT("/tasks/:id", taskController.UpdateTask)
		private.POST("/tasks/:id/complete", taskController.CompleteTask)
		private.DELETE("/tasks/:id", taskController.DeleteTask)

		// 心情与能量接口
		private.POST("/mood", moodController.LogMood)
		private.GET("/mood/logs", moodController.GetMoodLogs)
		private.GET("/mood/stats", moodController.GetMoodStats)
		private.POST("/energy", energyController.LogEnergy)
		private.GET("/energy/today", energyController.GetTodayEnergy)

		// 习惯接口
		private.POST("/habit", habitController.CreateHabit)
		private.GET("/habit", habitController.GetHabit)
		private.POST("/habit/done", habitController.MarkDone)

		// 复盘接口
		private.POST("/review", reviewController.CreateReview)
		private.GET("/review", reviewController.GetReviews)

		// 用户接口
		private.GET("/user/me", userController.GetMe)
	}

	// 测试路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
