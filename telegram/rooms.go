package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/tonquiz/miniapp/internal/apiclient"
	"github.com/tonquiz/miniapp/internal/poller"
	"github.com/tonquiz/miniapp/pkg/errors"
	"github.com/tonquiz/miniapp/pkg/logger"
)

func (b *Bot) showRoomList(s *session) {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout())
	defer cancel()

	rooms, err := s.client.ListPublicRooms(ctx)
	if err != nil {
		logger.Error("Failed to list rooms", "user_id", s.userID, "error", err)
		b.sendMessage(s.userID, MsgError, nil)
		return
	}

	if len(rooms) == 0 {
		b.sendMessage(s.userID, MsgNoRooms, RoomListKeyboard(nil))
		return
	}
	b.sendMessage(s.userID, "🚪 <b>Открытые комнаты:</b>", RoomListKeyboard(rooms))
}

func (b *Bot) createRoom(s *session, name string) {
	s.setState(StateNone)

	name = strings.TrimSpace(name)
	if name == "" {
		b.sendMessage(s.userID, MsgRoomNamePrompt, nil)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout())
	defer cancel()

	room, err := s.client.CreateRoom(ctx, s.userID, name, "ad", false)
	if err != nil {
		logger.Error("Failed to create room", "user_id", s.userID, "error", err)
		b.sendMessage(s.userID, MsgError, nil)
		return
	}

	b.openRoom(s, room.RoomID)
}

func (b *Bot) joinRoom(s *session, roomID string) {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout())
	defer cancel()

	if _, err := s.client.JoinRoom(ctx, s.userID, roomID); err != nil {
		switch errors.CodeOf(err) {
		case errors.ErrCodeRoomFull:
			b.sendMessage(s.userID, MsgRoomFull, nil)
		case errors.ErrCodeNotFound:
			b.sendMessage(s.userID, MsgRoomNotFound, nil)
		default:
			logger.Error("Failed to join room", "user_id", s.userID, "room_id", roomID, "error", err)
			b.sendMessage(s.userID, MsgError, nil)
		}
		return
	}

	b.openRoom(s, roomID)
}

// openRoom shows the live room card and starts both pollers: the room
// one replaces the card wholesale, the chat one relays new messages.
func (b *Bot) openRoom(s *session, roomID string) {
	s.teardown()

	msgID := b.sendMessage(s.userID, "🚪 Загружаю комнату...", RoomKeyboard())

	roomSync := poller.NewRoomSync(s.client, roomID, b.config.RoomPollInterval())
	roomSync.OnRoom = func(room *apiclient.Room) {
		b.renderRoomCard(s, room)
	}
	roomSync.OnError = func(err error) {
		logger.Debug("Room poll failed", "room_id", roomID, "error", err)
	}

	chatSync := poller.NewChatSync(s.client, roomID, b.config.ChatPollInterval())
	chatSync.OnMessages = func(messages []apiclient.ChatMessage) {
		b.relayChat(s, messages)
	}
	chatSync.OnError = func(err error) {
		logger.Debug("Chat poll failed", "room_id", roomID, "error", err)
	}

	s.mu.Lock()
	s.roomID = roomID
	s.roomMsgID = msgID
	s.roomSync = roomSync
	s.chatSync = chatSync
	s.mu.Unlock()

	roomSync.Start()
	chatSync.Start()
}

// leaveRoom tears down the session's room view, pollers and quiz timers
// included.
func (b *Bot) leaveRoom(s *session) {
	s.teardown()
}

func (b *Bot) renderRoomCard(s *session, room *apiclient.Room) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🚪 <b>%s</b>\n", room.RoomName)
	fmt.Fprintf(&sb, "Статус: %s\n", roomStatusLabel(room.Status))
	fmt.Fprintf(&sb, "Игроки (%d/%d):\n", room.CurrentPlayers, room.MaxPlayers)
	for _, p := range room.Players {
		fmt.Fprintf(&sb, "%s %s — %d\n", p.AvatarEmoji, playerName(p), p.Score)
	}
	sb.WriteString("\nНапиши сообщение, чтобы отправить его в чат комнаты.")

	s.mu.Lock()
	msgID := s.roomMsgID
	s.mu.Unlock()
	if msgID == 0 {
		return
	}

	keyboard := RoomKeyboard()
	b.editMessage(s.userID, msgID, sb.String(), &keyboard)
}

func (b *Bot) relayChat(s *session, messages []apiclient.ChatMessage) {
	var sb strings.Builder
	for _, m := range messages {
		fmt.Fprintf(&sb, "%s <b>%s</b>: %s\n", m.AvatarEmoji, m.FirstName, m.Message)
	}
	b.sendMessage(s.userID, sb.String(), nil)
}

func (b *Bot) sendChatMessage(s *session, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout())
	defer cancel()

	roomID := s.currentRoomID()
	if _, err := s.client.SendMessage(ctx, roomID, s.userID, text); err != nil {
		logger.Error("Failed to send chat message", "user_id", s.userID, "room_id", roomID, "error", err)
		b.sendMessage(s.userID, MsgChatSendFailed, nil)
		return
	}

	// Pull the stored message back promptly instead of waiting a tick
	s.mu.Lock()
	chatSync := s.chatSync
	s.mu.Unlock()
	if chatSync != nil {
		chatSync.Nudge()
	}
}

func roomStatusLabel(status string) string {
	switch status {
	case "waiting":
		return "⏳ Ожидание игроков"
	case "playing":
		return "🎮 Игра идёт"
	case "finished":
		return "🏁 Завершена"
	default:
		return status
	}
}

func playerName(p apiclient.RoomPlayer) string {
	if p.FirstName != "" {
		return p.FirstName
	}
	if p.Username != "" {
		return "@" + p.Username
	}
	return "Игрок"
}
