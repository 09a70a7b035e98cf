// Package poller keeps a room view fresh over plain HTTP polling: one
// loop replaces the room snapshot wholesale, another appends new chat
// messages past a high-water mark. Each loop is owned by the view that
// started it and dies with Stop; callbacks never run after Stop returns
// a torn-down loop.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/tonquiz/miniapp/internal/apiclient"
)

// RoomSync polls the full room snapshot on a fixed interval. Errors are
// reported and the loop keeps its cadence; there is no backoff.
type RoomSync struct {
	client   *apiclient.Client
	roomID   string
	interval time.Duration

	// OnRoom receives each fetched snapshot; the previous one is
	// discarded wholesale, never merged.
	OnRoom  func(room *apiclient.Room)
	OnError func(err error)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRoomSync(client *apiclient.Client, roomID string, interval time.Duration) *RoomSync {
	return &RoomSync{
		client:   client,
		roomID:   roomID,
		interval: interval,
	}
}

// Start launches the loop with an immediate first fetch. Starting a
// running loop is a no-op.
func (s *RoomSync) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx)
}

// Stop cancels the loop and any in-flight request, then waits for the
// loop goroutine to exit.
func (s *RoomSync) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *RoomSync) run(ctx context.Context) {
	defer close(s.done)

	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *RoomSync) refresh(ctx context.Context) {
	room, err := s.client.GetRoom(ctx, s.roomID)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		if s.OnError != nil {
			s.OnError(err)
		}
		return
	}
	if s.OnRoom != nil {
		s.OnRoom(room)
	}
}

// ChatSync polls for chat messages newer than the last-seen id. The
// last-seen id only ever grows; it is the exclusive lower bound of the
// next fetch.
type ChatSync struct {
	client     *apiclient.Client
	roomID     string
	interval   time.Duration
	nudgeDelay time.Duration

	// OnMessages receives each non-empty batch, in increasing id order.
	OnMessages func(messages []apiclient.ChatMessage)
	OnError    func(err error)

	mu       sync.Mutex
	lastSeen uint
	cancel   context.CancelFunc
	done     chan struct{}
	kick     chan struct{}
}

func NewChatSync(client *apiclient.Client, roomID string, interval time.Duration) *ChatSync {
	return &ChatSync{
		client:     client,
		roomID:     roomID,
		interval:   interval,
		nudgeDelay: 100 * time.Millisecond,
		kick:       make(chan struct{}, 1),
	}
}

// LastSeen returns the current high-water mark.
func (s *ChatSync) LastSeen() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Start launches the loop with an immediate first fetch.
func (s *ChatSync) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx)
}

// Stop cancels the loop and waits for it to exit.
func (s *ChatSync) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Nudge schedules one extra refresh shortly after a send, so the
// sender's own message shows up before the next regular tick. Latency
// compensation only; the regular interval would pick it up anyway.
func (s *ChatSync) Nudge() {
	time.AfterFunc(s.nudgeDelay, func() {
		select {
		case s.kick <- struct{}{}:
		default:
		}
	})
}

func (s *ChatSync) run(ctx context.Context) {
	defer close(s.done)

	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		case <-s.kick:
			s.refresh(ctx)
		}
	}
}

func (s *ChatSync) refresh(ctx context.Context) {
	messages, err := s.client.GetMessages(ctx, s.roomID, s.LastSeen())
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		if s.OnError != nil {
			s.OnError(err)
		}
		return
	}
	if len(messages) == 0 {
		return
	}

	s.mu.Lock()
	for _, m := range messages {
		if m.ID > s.lastSeen {
			s.lastSeen = m.ID
		}
	}
	s.mu.Unlock()

	if s.OnMessages != nil {
		s.OnMessages(messages)
	}
}
