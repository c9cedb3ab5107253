package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github-dashboard-api/internal/dashboard"
	"github-dashboard-api/internal/handlers"
	"github-dashboard-api/internal/metrics"
	"github-dashboard-api/internal/middleware"
	"github-dashboard-api/internal/realtime"
)

// Deps are the collaborators the routes are served from.
type Deps struct {
	Service *dashboard.Service
	Hub     *realtime.Hub
	Logger  *slog.Logger
}

func SetupRoutes(deps Deps) *gin.Engine {
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(deps.Logger))

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":          "ok",
			"message":         "GitHub Dashboard API is running",
			"cache_available": deps.Service.CacheAvailable(),
		})
	})
	ginRouter.GET("/metrics", gin.WrapH(metrics.Handler()))

	users := handlers.NewUserHandler(deps.Service, deps.Logger)
	summaries := handlers.NewSummaryHandler(deps.Service)

	api := ginRouter.Group("/api")
	{
		api.GET("/user/:username", users.GetUser)
		api.GET("/user/:username/activity", users.GetActivity)
		api.GET("/user/:username/persona", users.GetPersona)
		api.GET("/repos/:owner/:repo/summary", summaries.GetRepoSummary)
		api.POST("/summarize", summaries.Summarize)
	}

	ginRouter.GET("/ws/users/:username", handlers.WebSocketHandler(deps.Hub, deps.Logger))

	return ginRouter
}
