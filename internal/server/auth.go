package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/tonquiz/miniapp/internal/apiclient"
	"github.com/tonquiz/miniapp/internal/models"
	"github.com/tonquiz/miniapp/internal/security"
	"github.com/tonquiz/miniapp/pkg/errors"
	"github.com/tonquiz/miniapp/pkg/logger"
)

type loginRequest struct {
	TelegramID   int64  `json:"telegram_id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	ReferralCode string `json:"referral_code"`
	InitData     string `json:"init_data"`
}

// Login upserts the user and returns the profile with a session token.
// When the request carries Telegram init data, the identity comes from
// the validated payload, not the request body.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.ErrCodeValidation, "invalid request body"))
		return
	}

	if req.InitData != "" {
		data, err := security.ValidateInitData(req.InitData, h.cfg.BotToken, 24*time.Hour)
		if err != nil {
			writeError(w, errors.Wrap(err, errors.ErrCodeUnauthorized, "init data rejected"))
			return
		}
		if data.User == nil {
			writeError(w, errors.New(errors.ErrCodeUnauthorized, "init data has no user"))
			return
		}
		req.TelegramID = data.User.ID
		req.Username = data.User.Username
		req.FirstName = data.User.FirstName
		req.LastName = data.User.LastName
		if req.ReferralCode == "" {
			req.ReferralCode = data.StartParam
		}
	}

	if req.TelegramID <= 0 {
		writeError(w, errors.New(errors.ErrCodeValidation, "telegram_id is required"))
		return
	}
	if !h.limiter.AllowUser(req.TelegramID) {
		writeError(w, errors.New(errors.ErrCodeRateLimitExceeded, "too many requests"))
		return
	}

	user, err := h.userRepo.UpsertUser(req.TelegramID, req.Username, req.FirstName, req.LastName)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.ReferralCode != "" {
		if err := h.userRepo.ApplyReferral(req.TelegramID, req.ReferralCode, h.cfg.ReferralBonus); err != nil {
			logger.Warn("referral not applied", "telegram_id", req.TelegramID, "error", err)
		} else if user, err = h.userRepo.GetByTelegramID(req.TelegramID); err != nil {
			writeError(w, err)
			return
		}
	}

	token, err := security.GenerateJWT(user.TelegramID, h.cfg.JWTSecret)
	if err != nil {
		writeError(w, errors.Wrap(err, errors.ErrCodeInternalError, "failed to issue token"))
		return
	}

	writeJSON(w, http.StatusOK, apiclient.LoginResult{
		User:  toUserPayload(user),
		Token: token,
	})
}

// GetUser returns the stored profile for ?telegram_id=.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	telegramID, err := strconv.ParseInt(r.URL.Query().Get("telegram_id"), 10, 64)
	if err != nil || telegramID <= 0 {
		writeError(w, errors.New(errors.ErrCodeValidation, "telegram_id is required"))
		return
	}

	user, err := h.userRepo.GetByTelegramID(telegramID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserPayload(user))
}

func toUserPayload(user *models.User) apiclient.User {
	return apiclient.User{
		TelegramID:     user.TelegramID,
		Username:       user.Username,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		AvatarEmoji:    user.AvatarEmoji,
		TotalScore:     user.TotalScore,
		GamesPlayed:    user.GamesPlayed,
		CorrectAnswers: user.CorrectAnswers,
		ReferralCode:   user.ReferralCode,
		ReferralBonus:  user.ReferralBonus,
	}
}
