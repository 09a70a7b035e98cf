package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tonquiz/miniapp/internal/config"
	"github.com/tonquiz/miniapp/internal/database"
	"github.com/tonquiz/miniapp/internal/quiz"
	"github.com/tonquiz/miniapp/internal/repositories"
	"github.com/tonquiz/miniapp/internal/server"
	"github.com/tonquiz/miniapp/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting TON Quiz API server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		logger.Fatal("Server config validation failed", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	// Run GORM auto-migration
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// The bank size bounds the correct answer count a session may report
	bankSize := len(quiz.DefaultBank())
	if cfg.QuestionsFile != "" {
		bank, err := quiz.LoadBankFromFile(cfg.QuestionsFile)
		if err != nil {
			logger.Fatal("Failed to load question bank", err)
		}
		bankSize = len(bank)
	}

	handler := server.NewHandler(db, cfg, bankSize)

	// Close abandoned rooms in the background
	janitor := server.NewJanitor(repositories.NewRoomRepository(db), cfg.RoomMaxAge())
	if err := janitor.Start(); err != nil {
		logger.Fatal("Failed to start room janitor", err)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      server.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Listening", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")
	janitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
