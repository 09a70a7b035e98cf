package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tonquiz/miniapp/internal/config"
	"github.com/tonquiz/miniapp/internal/quiz"
	"github.com/tonquiz/miniapp/pkg/logger"
	"github.com/tonquiz/miniapp/telegram"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting TON Quiz bot...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	// Question bank: the built-in set, or an Excel workbook if configured
	bank := quiz.DefaultBank()
	if cfg.QuestionsFile != "" {
		bank, err = quiz.LoadBankFromFile(cfg.QuestionsFile)
		if err != nil {
			logger.Fatal("Failed to load question bank", err)
		}
	}
	logger.Info("Question bank loaded", "questions", len(bank))

	// Initialize and start Telegram bot
	bot, err := telegram.InitBot(cfg, bank)
	if err != nil {
		logger.Fatal("Failed to initialize bot", err)
	}

	logger.Info("Bot started successfully", "env", cfg.AppEnv)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")
	bot.Stop()
	logger.Info("Bot stopped")
}
