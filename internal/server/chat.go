package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/tonquiz/miniapp/internal/apiclient"
	"github.com/tonquiz/miniapp/internal/security"
	"github.com/tonquiz/miniapp/pkg/errors"
)

type chatRequest struct {
	RoomID     string `json:"room_id"`
	TelegramID int64  `json:"telegram_id"`
	Message    string `json:"message"`
}

// PostChat appends a sanitized message to a room's chat and returns the
// stored row, id included, so the sender can advance its high-water mark.
func (h *Handler) PostChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.ErrCodeValidation, "invalid request body"))
		return
	}
	if req.RoomID == "" || req.TelegramID <= 0 {
		writeError(w, errors.New(errors.ErrCodeValidation, "room_id and telegram_id are required"))
		return
	}
	if !h.limiter.AllowUser(req.TelegramID) {
		writeError(w, errors.New(errors.ErrCodeRateLimitExceeded, "too many requests"))
		return
	}

	text := security.SanitizeMessage(req.Message)
	if text == "" {
		writeError(w, errors.New(errors.ErrCodeValidation, "message is empty"))
		return
	}

	user, err := h.userRepo.GetByTelegramID(req.TelegramID)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.roomRepo.GetRoom(req.RoomID); err != nil {
		writeError(w, err)
		return
	}

	msg, err := h.chatRepo.Append(req.RoomID, req.TelegramID, text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiclient.ChatMessage{
		ID:          msg.ID,
		TelegramID:  msg.TelegramID,
		FirstName:   user.FirstName,
		Username:    user.Username,
		AvatarEmoji: user.AvatarEmoji,
		Message:     msg.Text,
		CreatedAt:   msg.CreatedAt,
	})
}

// GetChat returns messages newer than ?since_id= for ?room_id=.
func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room_id")
	if roomID == "" {
		writeError(w, errors.New(errors.ErrCodeValidation, "room_id is required"))
		return
	}

	sinceID, _ := strconv.ParseUint(r.URL.Query().Get("since_id"), 10, 64)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	messages, err := h.chatRepo.ListSince(roomID, uint(sinceID), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	payload := make([]apiclient.ChatMessage, 0, len(messages))
	for _, m := range messages {
		payload = append(payload, apiclient.ChatMessage{
			ID:          m.ID,
			TelegramID:  m.TelegramID,
			FirstName:   m.FirstName,
			Username:    m.Username,
			AvatarEmoji: m.AvatarEmoji,
			Message:     m.Text,
			CreatedAt:   m.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": payload})
}
