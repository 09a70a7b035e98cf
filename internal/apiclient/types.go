package apiclient

import "time"

// Wire shapes of the quiz API. Field names match the JSON the endpoints
// produce and consume.

type User struct {
	TelegramID     int64  `json:"telegram_id"`
	Username       string `json:"username,omitempty"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name,omitempty"`
	AvatarEmoji    string `json:"avatar_emoji"`
	TotalScore     int64  `json:"total_score"`
	GamesPlayed    int    `json:"games_played"`
	CorrectAnswers int    `json:"correct_answers"`
	ReferralCode   string `json:"referral_code"`
	ReferralBonus  int64  `json:"referral_bonus"`
}

// LoginResult is the login response: the user plus a session token the
// game endpoints require.
type LoginResult struct {
	User
	Token string `json:"token,omitempty"`
}

type RoomPlayer struct {
	TelegramID  int64  `json:"telegram_id"`
	Username    string `json:"username,omitempty"`
	FirstName   string `json:"first_name"`
	AvatarEmoji string `json:"avatar_emoji"`
	Score       int    `json:"score"`
}

type Room struct {
	RoomID            string       `json:"room_id"`
	CreatorTelegramID int64        `json:"creator_telegram_id"`
	RoomName          string       `json:"room_name"`
	IsPrivate         bool         `json:"is_private"`
	MaxPlayers        int          `json:"max_players"`
	CurrentPlayers    int          `json:"current_players"`
	Status            string       `json:"status"`
	PaymentType       string       `json:"payment_type,omitempty"`
	CreatorUsername   string       `json:"creator_username,omitempty"`
	CreatorName       string       `json:"creator_name,omitempty"`
	Players           []RoomPlayer `json:"players,omitempty"`
}

type JoinResult struct {
	Success bool   `json:"success"`
	RoomID  string `json:"room_id"`
}

type ChatMessage struct {
	ID          uint      `json:"id"`
	TelegramID  int64     `json:"telegram_id"`
	FirstName   string    `json:"first_name"`
	Username    string    `json:"username,omitempty"`
	AvatarEmoji string    `json:"avatar_emoji"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

type CompleteResult struct {
	Success        bool `json:"success"`
	SessionID      uint `json:"session_id"`
	Score          int  `json:"score"`
	CorrectAnswers int  `json:"correct_answers"`
}

type LeaderboardEntry struct {
	Rank           int    `json:"rank"`
	TelegramID     int64  `json:"telegram_id"`
	Username       string `json:"username,omitempty"`
	FirstName      string `json:"first_name"`
	AvatarEmoji    string `json:"avatar_emoji"`
	TotalScore     int64  `json:"total_score"`
	GamesPlayed    int    `json:"games_played"`
	CorrectAnswers int    `json:"correct_answers"`
}
