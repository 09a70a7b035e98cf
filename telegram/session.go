package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/tonquiz/miniapp/internal/apiclient"
	"github.com/tonquiz/miniapp/internal/poller"
	"github.com/tonquiz/miniapp/internal/quiz"
)

// session is one user's conversation state. Each session owns its own
// API client because the session token is per-user.
type session struct {
	userID int64
	client *apiclient.Client

	mu      sync.Mutex
	profile *apiclient.LoginResult
	state   string

	engine    *quiz.Engine
	quizMsgID int

	roomID    string
	roomMsgID int
	roomSync  *poller.RoomSync
	chatSync  *poller.ChatSync
}

func (b *Bot) getSession(userID int64) *session {
	b.mu.RLock()
	s, ok := b.sessions[userID]
	b.mu.RUnlock()
	if ok {
		return s
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok = b.sessions[userID]; ok {
		return s
	}
	s = &session{
		userID: userID,
		client: apiclient.New(b.endpoints, apiTimeout()),
	}
	b.sessions[userID] = s
	return s
}

// login authenticates the session against the auth endpoint and caches
// the profile. The referral code, when present, comes from a /start
// deep link payload.
func (b *Bot) login(s *session, from *tgbotapi.User, referralCode string) error {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout())
	defer cancel()

	profile, err := s.client.Login(ctx, from.ID, from.UserName, from.FirstName, from.LastName, referralCode)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()
	return nil
}

func (s *session) profileOrNil() *apiclient.LoginResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

func (s *session) getState() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *session) setState(state string) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *session) currentRoomID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID
}

// teardown stops the quiz engine and both pollers. Safe to call twice.
func (s *session) teardown() {
	s.mu.Lock()
	engine := s.engine
	roomSync := s.roomSync
	chatSync := s.chatSync
	s.engine = nil
	s.roomSync = nil
	s.chatSync = nil
	s.roomID = ""
	s.roomMsgID = 0
	s.quizMsgID = 0
	s.state = StateNone
	s.mu.Unlock()

	if engine != nil {
		engine.Stop()
	}
	if roomSync != nil {
		roomSync.Stop()
	}
	if chatSync != nil {
		chatSync.Stop()
	}
}
