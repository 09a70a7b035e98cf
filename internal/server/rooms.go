package server

import (
	"encoding/json"
	"net/http"

	"github.com/tonquiz/miniapp/internal/apiclient"
	"github.com/tonquiz/miniapp/internal/models"
	"github.com/tonquiz/miniapp/internal/security"
	"github.com/tonquiz/miniapp/pkg/errors"
)

type roomRequest struct {
	Action      string `json:"action"`
	TelegramID  int64  `json:"telegram_id"`
	RoomID      string `json:"room_id"`
	RoomName    string `json:"room_name"`
	PaymentType string `json:"payment_type"`
	IsPrivate   bool   `json:"is_private"`
}

// PostRooms dispatches the room mutations by the action field.
func (h *Handler) PostRooms(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.ErrCodeValidation, "invalid request body"))
		return
	}
	if req.TelegramID <= 0 {
		writeError(w, errors.New(errors.ErrCodeValidation, "telegram_id is required"))
		return
	}
	if !h.limiter.AllowUser(req.TelegramID) {
		writeError(w, errors.New(errors.ErrCodeRateLimitExceeded, "too many requests"))
		return
	}

	switch req.Action {
	case "create":
		h.createRoom(w, req)
	case "join":
		h.joinRoom(w, req)
	default:
		writeError(w, errors.New(errors.ErrCodeValidation, "unknown action"))
	}
}

func (h *Handler) createRoom(w http.ResponseWriter, req roomRequest) {
	exists, err := h.userRepo.Exists(req.TelegramID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !exists {
		writeError(w, errors.New(errors.ErrCodeNotFound, "user not found"))
		return
	}

	name := security.SanitizeMessage(req.RoomName)
	if name == "" {
		writeError(w, errors.New(errors.ErrCodeValidation, "room_name is required"))
		return
	}
	paymentType := req.PaymentType
	if paymentType != models.PaymentTypeTon {
		paymentType = models.PaymentTypeAd
	}

	room, err := h.roomRepo.CreateRoom(req.TelegramID, name, paymentType, req.IsPrivate, h.cfg.DefaultMaxPlayers)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiclient.Room{
		RoomID:            room.RoomID,
		CreatorTelegramID: room.CreatorID,
		RoomName:          room.RoomName,
		IsPrivate:         room.IsPrivate,
		MaxPlayers:        room.MaxPlayers,
		CurrentPlayers:    room.CurrentPlayers,
		Status:            room.Status,
		PaymentType:       room.PaymentType,
	})
}

func (h *Handler) joinRoom(w http.ResponseWriter, req roomRequest) {
	if req.RoomID == "" {
		writeError(w, errors.New(errors.ErrCodeValidation, "room_id is required"))
		return
	}

	exists, err := h.userRepo.Exists(req.TelegramID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !exists {
		writeError(w, errors.New(errors.ErrCodeNotFound, "user not found"))
		return
	}

	if err := h.roomRepo.JoinRoom(req.RoomID, req.TelegramID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiclient.JoinResult{Success: true, RoomID: req.RoomID})
}

// GetRooms returns one room with its players for ?room_id=, or the list
// of open public rooms without it.
func (h *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room_id")
	if roomID == "" {
		h.listRooms(w)
		return
	}

	room, err := h.roomRepo.GetRoom(roomID)
	if err != nil {
		writeError(w, err)
		return
	}

	players, err := h.roomRepo.GetPlayers(roomID)
	if err != nil {
		writeError(w, err)
		return
	}

	payload := apiclient.Room{
		RoomID:            room.RoomID,
		CreatorTelegramID: room.CreatorID,
		RoomName:          room.RoomName,
		IsPrivate:         room.IsPrivate,
		MaxPlayers:        room.MaxPlayers,
		CurrentPlayers:    room.CurrentPlayers,
		Status:            room.Status,
		PaymentType:       room.PaymentType,
		Players:           make([]apiclient.RoomPlayer, 0, len(players)),
	}
	for _, p := range players {
		payload.Players = append(payload.Players, apiclient.RoomPlayer{
			TelegramID:  p.TelegramID,
			Username:    p.Username,
			FirstName:   p.FirstName,
			AvatarEmoji: p.AvatarEmoji,
			Score:       p.Score,
		})
	}

	// The creator's profile rides along so clients can label the room.
	if creator, err := h.userRepo.GetByTelegramID(room.CreatorID); err == nil {
		payload.CreatorUsername = creator.Username
		payload.CreatorName = creator.FirstName
	}

	writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) listRooms(w http.ResponseWriter) {
	listings, err := h.roomRepo.ListPublicRooms(20)
	if err != nil {
		writeError(w, err)
		return
	}

	rooms := make([]apiclient.Room, 0, len(listings))
	for _, l := range listings {
		rooms = append(rooms, apiclient.Room{
			RoomID:            l.RoomID,
			CreatorTelegramID: l.CreatorTelegramID,
			RoomName:          l.RoomName,
			IsPrivate:         l.IsPrivate,
			MaxPlayers:        l.MaxPlayers,
			CurrentPlayers:    l.CurrentPlayers,
			Status:            l.Status,
			CreatorUsername:   l.CreatorUsername,
			CreatorName:       l.CreatorName,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"rooms": rooms})
}
