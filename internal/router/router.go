package router

import (
	"github.com/blues/launchpad/internal/event"
	"github.com/blues/launchpad/internal/handler"
	"github.com/blues/launchpad/internal/logic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HeaderRequestID 请求 ID 响应头
const HeaderRequestID = "X-Request-ID"

// Deps 路由依赖
type Deps struct {
	Launch       *logic.LaunchLogic
	Projects     *logic.ProjectLogic
	Achievements *logic.AchievementLogic
	Recorder     event.Recorder
}

func Setup(deps Deps) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "launchpad-service",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API版本组
	v1 := r.Group("/api/v1")
	v1.Use(handler.ProofMiddleware())
	{
		projectHandler := handler.NewProjectHandler(deps.Launch, deps.Projects)
		projects := v1.Group("/projects")
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.GetProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id/status", projectHandler.UpdateStatus)
			projects.POST("/:id/funding", projectHandler.UpdateFunding)
		}
		v1.GET("/stats", projectHandler.GetStats)

		poolHandler := handler.NewPoolHandler(deps.Launch)
		pools := v1.Group("/pools/:address")
		{
			pools.GET("", poolHandler.GetPool)
			pools.POST("/invest", poolHandler.Invest)
			pools.GET("/returns/:investor", poolHandler.GetReturns)
			pools.POST("/withdraw", poolHandler.Withdraw)
			pools.GET("/investments/:investor", poolHandler.GetInvestment)
		}

		achievementHandler := handler.NewAchievementHandler(deps.Launch, deps.Achievements)
		achievements := v1.Group("/achievements")
		{
			achievements.POST("", achievementHandler.Mint)
			achievements.GET("/supply", achievementHandler.GetTotalSupply)
			achievements.GET("/:id", achievementHandler.GetNFT)
			achievements.POST("/:id/transfer", achievementHandler.Transfer)
		}
		users := v1.Group("/users/:address")
		{
			users.GET("/achievements", achievementHandler.GetUserNFTs)
			users.GET("/achievements/:type", achievementHandler.HasAchievement)
		}

		eventHandler := handler.NewEventHandler(deps.Recorder)
		v1.GET("/events", eventHandler.GetEvents)
	}

	return r
}

// 请求ID中间件
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Auth-Address, X-Auth-Message, X-Auth-Signature")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
