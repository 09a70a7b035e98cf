package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Telegram
	BotToken string

	// Database (server only)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Security
	JWTSecret string

	// Application
	AppEnv   string
	AppPort  string
	LogLevel string

	// API endpoints consumed by the client side
	AuthURL  string
	RoomsURL string
	ChatURL  string
	GameURL  string

	// Rate limiting
	RateLimitPerUser int
	RateLimitPerIP   int

	// Polling intervals (seconds)
	RoomPollSeconds int
	ChatPollSeconds int

	// Quiz timing (seconds)
	QuestionSeconds int
	RevealSeconds   int

	// Game economy
	PointsPerCorrect int
	ReferralBonus    int64

	// Rooms
	DefaultMaxPlayers int
	RoomMaxAgeHours   int

	// Optional Excel question bank for the bot
	QuestionsFile string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		BotToken:   getEnv("BOT_TOKEN", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "tonquiz"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "tonquiz_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET_KEY", ""),

		AppEnv:   getEnv("APP_ENV", "development"),
		AppPort:  getEnv("APP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AuthURL:  getEnv("API_AUTH_URL", "http://localhost:8080/auth"),
		RoomsURL: getEnv("API_ROOMS_URL", "http://localhost:8080/rooms"),
		ChatURL:  getEnv("API_CHAT_URL", "http://localhost:8080/chat"),
		GameURL:  getEnv("API_GAME_URL", "http://localhost:8080/game"),

		RateLimitPerUser: getEnvInt("RATE_LIMIT_PER_USER", 30),
		RateLimitPerIP:   getEnvInt("RATE_LIMIT_PER_IP", 120),

		RoomPollSeconds: getEnvInt("ROOM_POLL_SECONDS", 2),
		ChatPollSeconds: getEnvInt("CHAT_POLL_SECONDS", 1),

		QuestionSeconds: getEnvInt("QUESTION_SECONDS", 15),
		RevealSeconds:   getEnvInt("REVEAL_SECONDS", 2),

		PointsPerCorrect: getEnvInt("POINTS_PER_CORRECT", 10),
		ReferralBonus:    getEnvInt64("REFERRAL_BONUS", 50),

		DefaultMaxPlayers: getEnvInt("DEFAULT_MAX_PLAYERS", 10),
		RoomMaxAgeHours:   getEnvInt("ROOM_MAX_AGE_HOURS", 24),

		QuestionsFile: getEnv("QUESTIONS_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters")
	}
	if c.RoomPollSeconds <= 0 || c.ChatPollSeconds <= 0 {
		return fmt.Errorf("polling intervals must be positive")
	}
	if c.QuestionSeconds <= 0 || c.RevealSeconds <= 0 {
		return fmt.Errorf("quiz timings must be positive")
	}
	return nil
}

// ValidateServer checks settings that only the API server needs.
func (c *Config) ValidateServer() error {
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.AppEnv == "production" && c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) RoomPollInterval() time.Duration {
	return time.Duration(c.RoomPollSeconds) * time.Second
}

func (c *Config) ChatPollInterval() time.Duration {
	return time.Duration(c.ChatPollSeconds) * time.Second
}

func (c *Config) QuestionTime() time.Duration {
	return time.Duration(c.QuestionSeconds) * time.Second
}

func (c *Config) RevealDelay() time.Duration {
	return time.Duration(c.RevealSeconds) * time.Second
}

func (c *Config) RoomMaxAge() time.Duration {
	return time.Duration(c.RoomMaxAgeHours) * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}
