package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/botstudio/botstudio/internal/api"
	"github.com/botstudio/botstudio/internal/config"
	"github.com/botstudio/botstudio/internal/llm"
	"github.com/botstudio/botstudio/internal/repository"
	"github.com/botstudio/botstudio/internal/service"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	chatbotRepo := repository.NewChatbotRepository(db)
	guestRepo := repository.NewGuestRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// Initialize completion client
	completer := llm.NewClient(cfg.LLM)
	if cfg.LLM.APIKey == "" {
		logger.Warn("No LLM API key configured, completions will fail and fall back to the apology reply")
	}

	// Initialize services
	adminService := service.NewAdminService(chatbotRepo, guestRepo, sessionRepo)
	chatService := service.NewChatService(chatbotRepo, guestRepo, sessionRepo, completer, logger)

	// Setup router
	router := api.SetupRouter(adminService, chatService, api.RouterConfig{
		JWTSecret:    cfg.Auth.JWTSecret,
		AllowOrigins: cfg.CORS.AllowOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting BotStudio server",
			zap.String("address", cfg.Address()),
			zap.String("base_url", cfg.Server.BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
