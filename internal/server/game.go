package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/tonquiz/miniapp/internal/apiclient"
	"github.com/tonquiz/miniapp/internal/security"
	"github.com/tonquiz/miniapp/pkg/errors"
)

type gameRequest struct {
	Action         string `json:"action"`
	TelegramID     int64  `json:"telegram_id"`
	RoomID         string `json:"room_id"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correct_answers"`
}

// PostGame records a finished session. The bearer token must belong to
// the reporting player, and the reported score must be exactly the
// per-answer points times the number of correct answers; anything else
// is rejected rather than stored.
func (h *Handler) PostGame(w http.ResponseWriter, r *http.Request) {
	claims, err := h.bearerClaims(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req gameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.ErrCodeValidation, "invalid request body"))
		return
	}
	if req.Action != "complete" {
		writeError(w, errors.New(errors.ErrCodeValidation, "unknown action"))
		return
	}
	if req.TelegramID != claims.TelegramID {
		writeError(w, errors.New(errors.ErrCodeUnauthorized, "token does not match player"))
		return
	}
	if !h.limiter.AllowUser(req.TelegramID) {
		writeError(w, errors.New(errors.ErrCodeRateLimitExceeded, "too many requests"))
		return
	}
	if req.RoomID == "" {
		writeError(w, errors.New(errors.ErrCodeValidation, "room_id is required"))
		return
	}
	if req.CorrectAnswers < 0 || req.CorrectAnswers > h.bankSize {
		writeError(w, errors.New(errors.ErrCodeValidation, "correct_answers out of range"))
		return
	}
	if req.Score != req.CorrectAnswers*h.cfg.PointsPerCorrect {
		writeError(w, errors.New(errors.ErrCodeValidation, "score does not match correct answers"))
		return
	}

	if _, err := h.roomRepo.GetRoom(req.RoomID); err != nil {
		writeError(w, err)
		return
	}

	sessionID, err := h.gameRepo.RecordCompletion(req.RoomID, req.TelegramID, req.Score, req.CorrectAnswers)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiclient.CompleteResult{
		Success:        true,
		SessionID:      sessionID,
		Score:          req.Score,
		CorrectAnswers: req.CorrectAnswers,
	})
}

// GetGame serves ?action=leaderboard&limit=.
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("action") != "leaderboard" {
		writeError(w, errors.New(errors.ErrCodeValidation, "unknown action"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	users, err := h.userRepo.GetLeaderboard(limit)
	if err != nil {
		writeError(w, err)
		return
	}

	entries := make([]apiclient.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, apiclient.LeaderboardEntry{
			Rank:           i + 1,
			TelegramID:     u.TelegramID,
			Username:       u.Username,
			FirstName:      u.FirstName,
			AvatarEmoji:    u.AvatarEmoji,
			TotalScore:     u.TotalScore,
			GamesPlayed:    u.GamesPlayed,
			CorrectAnswers: u.CorrectAnswers,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}

func (h *Handler) bearerClaims(r *http.Request) (*security.Claims, error) {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || token == "" {
		return nil, errors.New(errors.ErrCodeUnauthorized, "missing bearer token")
	}

	claims, err := security.ValidateJWT(token, h.cfg.JWTSecret)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUnauthorized, "invalid token")
	}
	return claims, nil
}
