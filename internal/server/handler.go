package server

import (
	"time"

	"github.com/tonquiz/miniapp/internal/config"
	"github.com/tonquiz/miniapp/internal/repositories"
	"gorm.io/gorm"
)

// Handler holds the dependencies shared by all endpoint handlers.
type Handler struct {
	cfg       *config.Config
	userRepo  *repositories.UserRepository
	roomRepo  *repositories.RoomRepository
	chatRepo  *repositories.ChatRepository
	gameRepo  *repositories.GameRepository
	limiter   *RateLimiter
	bankSize  int
}

// NewHandler wires the handlers to the database. bankSize is the number
// of questions a single session can contain; score reports claiming more
// correct answers are rejected.
func NewHandler(db *gorm.DB, cfg *config.Config, bankSize int) *Handler {
	return &Handler{
		cfg:      cfg,
		userRepo: repositories.NewUserRepository(db),
		roomRepo: repositories.NewRoomRepository(db),
		chatRepo: repositories.NewChatRepository(db),
		gameRepo: repositories.NewGameRepository(db),
		limiter:  NewRateLimiter(cfg.RateLimitPerUser, cfg.RateLimitPerIP, time.Minute),
		bankSize: bankSize,
	}
}
