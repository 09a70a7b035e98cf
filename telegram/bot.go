package telegram

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/tonquiz/miniapp/internal/apiclient"
	"github.com/tonquiz/miniapp/internal/config"
	"github.com/tonquiz/miniapp/internal/quiz"
	"github.com/tonquiz/miniapp/pkg/logger"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	config    *config.Config
	endpoints apiclient.Endpoints
	bank      []quiz.Question

	sessions map[int64]*session
	mu       sync.RWMutex

	// Worker pool for parallel processing
	workerChans []chan tgbotapi.Update
}

// Session states
const (
	StateNone     = ""
	StateRoomName = "room_name"
)

func InitBot(cfg *config.Config, bank []quiz.Question) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.AppEnv == "development" {
		api.Debug = true
	}

	logger.Info("Authorized on account", "username", api.Self.UserName)

	bot := &Bot{
		api:    api,
		config: cfg,
		endpoints: apiclient.Endpoints{
			Auth:  cfg.AuthURL,
			Rooms: cfg.RoomsURL,
			Chat:  cfg.ChatURL,
			Game:  cfg.GameURL,
		},
		bank:        bank,
		sessions:    make(map[int64]*session),
		workerChans: make([]chan tgbotapi.Update, 10),
	}

	// Hashed dispatch keeps per-user processing ordered
	for i := range bot.workerChans {
		bot.workerChans[i] = make(chan tgbotapi.Update, 100)
		go bot.startWorker(bot.workerChans[i])
	}

	go bot.startUpdateListener()

	return bot, nil
}

// Stop halts update processing and tears down every live session with
// its pollers and quiz timers.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()

	b.mu.Lock()
	sessions := make([]*session, 0, len(b.sessions))
	for _, s := range b.sessions {
		sessions = append(sessions, s)
	}
	b.sessions = make(map[int64]*session)
	b.mu.Unlock()

	for _, s := range sessions {
		s.teardown()
	}
}

func (b *Bot) startUpdateListener() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		var userID int64
		if update.Message != nil {
			userID = update.Message.From.ID
		} else if update.CallbackQuery != nil {
			userID = update.CallbackQuery.From.ID
		}

		if userID != 0 {
			workerIdx := userID % int64(len(b.workerChans))
			if workerIdx < 0 {
				workerIdx = -workerIdx
			}
			b.workerChans[workerIdx] <- update
		} else {
			go b.handleUpdate(update)
		}
	}
}

func (b *Bot) startWorker(updates chan tgbotapi.Update) {
	for update := range updates {
		b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in handleUpdate", "error", r)
		}
	}()

	if update.Message != nil {
		b.handleMessage(update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	userID := message.From.ID

	logger.Debug("Received message", "user_id", userID, "text", message.Text)

	if message.IsCommand() {
		b.handleCommand(message)
		return
	}

	s := b.getSession(userID)
	if s.profileOrNil() == nil {
		if err := b.login(s, message.From, ""); err != nil {
			logger.Error("Login failed", "user_id", userID, "error", err)
			b.sendMessage(userID, MsgNotRegistered, nil)
			return
		}
	}

	switch message.Text {
	case BtnPlay:
		b.startSoloGame(s)
		return
	case BtnRooms:
		b.showRoomList(s)
		return
	case BtnProfile:
		b.showProfile(s)
		return
	case BtnLeaderboard:
		b.showLeaderboard(s)
		return
	case BtnReferral:
		b.showReferral(s)
		return
	}

	if s.getState() == StateRoomName {
		b.createRoom(s, message.Text)
		return
	}

	// Plain text inside a room goes to the room chat
	if s.currentRoomID() != "" {
		b.sendChatMessage(s, message.Text)
		return
	}

	b.sendMessage(userID, MsgWelcome, MainMenuKeyboard())
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	userID := message.From.ID
	s := b.getSession(userID)

	switch message.Command() {
	case "start":
		// The deep link payload carries a referral code
		if err := b.login(s, message.From, strings.TrimSpace(message.CommandArguments())); err != nil {
			logger.Error("Login failed", "user_id", userID, "error", err)
			b.sendMessage(userID, MsgNotRegistered, nil)
			return
		}
		b.leaveRoom(s)
		b.sendMessage(userID, MsgWelcome, MainMenuKeyboard())
	case "help":
		b.sendMessage(userID, MsgWelcome, MainMenuKeyboard())
	default:
		b.sendMessage(userID, MsgWelcome, MainMenuKeyboard())
	}
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	userID := query.From.ID
	data := query.Data

	// Acknowledge first so the client stops the spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.Debug("Failed to answer callback", "error", err)
	}

	s := b.getSession(userID)
	if s.profileOrNil() == nil {
		if err := b.login(s, query.From, ""); err != nil {
			logger.Error("Login failed", "user_id", userID, "error", err)
			return
		}
	}

	switch {
	case strings.HasPrefix(data, "ans_"):
		var index, choice int
		if _, err := fmt.Sscanf(data, "ans_%d_%d", &index, &choice); err == nil {
			b.handleQuizAnswer(s, index, choice)
		}
	case data == "again":
		b.restartGame(s)
	case data == "menu":
		b.leaveRoom(s)
		b.sendMessage(userID, MsgWelcome, MainMenuKeyboard())
	case data == "room_new":
		s.setState(StateRoomName)
		b.sendMessage(userID, MsgRoomNamePrompt, nil)
	case strings.HasPrefix(data, "room_join_"):
		b.joinRoom(s, strings.TrimPrefix(data, "room_join_"))
	case data == "room_play":
		b.startRoomGame(s)
	case data == "room_leave":
		b.leaveRoom(s)
		b.sendMessage(userID, MsgWelcome, MainMenuKeyboard())
	}
}

func (b *Bot) sendMessage(chatID int64, text string, keyboard interface{}) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}

	sent, err := b.api.Send(msg)
	if err != nil {
		logger.Error("Failed to send message", "chat_id", chatID, "error", err)
		return 0
	}
	return sent.MessageID
}

func (b *Bot) editMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = keyboard

	if _, err := b.api.Send(edit); err != nil {
		logger.Debug("Failed to edit message", "chat_id", chatID, "error", err)
	}
}

func apiTimeout() time.Duration { return 10 * time.Second }
