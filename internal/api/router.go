package api

import (
	"github.com/gin-gonic/gin"

	"github.com/botstudio/botstudio/internal/api/admin"
	"github.com/botstudio/botstudio/internal/api/chat"
	"github.com/botstudio/botstudio/internal/api/middleware"
	"github.com/botstudio/botstudio/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	JWTSecret    string
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(
	adminService *service.AdminService,
	chatService *service.ChatService,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Prometheus instrumentation
	m := newMetrics()
	r.Use(m.instrument())
	r.GET("/metrics", gin.WrapH(m.handler()))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Chat API (public, consumed by the guest widget)
	chatHandler := chat.NewHandler(chatService)
	chatGroup := r.Group("/api")
	chatHandler.RegisterRoutes(chatGroup)

	// Admin API (requires a token from the auth provider)
	adminHandler := admin.NewHandler(adminService, chatService)
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.Auth(cfg.JWTSecret))
	adminHandler.RegisterRoutes(adminGroup)

	return r
}
