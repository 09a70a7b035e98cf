package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/tonquiz/miniapp/pkg/errors"
)

// Endpoints are the base URLs of the four endpoint groups.
type Endpoints struct {
	Auth  string
	Rooms string
	Chat  string
	Game  string
}

// Client is a stateless request/response mapping over the quiz API.
// It does no retrying and no caching; callers handle failures at the
// boundary.
type Client struct {
	http      *http.Client
	endpoints Endpoints

	mu    sync.RWMutex
	token string
}

func New(endpoints Endpoints, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		endpoints: endpoints,
	}
}

// Endpoints returns the base URLs the client was built with.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// Token returns the session token from the last successful login.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login upserts the user by telegram id and keeps the returned session
// token for authenticated calls.
func (c *Client) Login(ctx context.Context, telegramID int64, username, firstName, lastName, referralCode string) (*LoginResult, error) {
	body := map[string]interface{}{
		"telegram_id": telegramID,
		"username":    username,
		"first_name":  firstName,
		"last_name":   lastName,
	}
	if referralCode != "" {
		body["referral_code"] = referralCode
	}

	var result LoginResult
	if err := c.post(ctx, c.endpoints.Auth, body, &result); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.token = result.Token
	c.mu.Unlock()

	return &result, nil
}

// GetUser fetches the server-side profile for a telegram id.
func (c *Client) GetUser(ctx context.Context, telegramID int64) (*User, error) {
	query := url.Values{"telegram_id": {strconv.FormatInt(telegramID, 10)}}

	var user User
	if err := c.get(ctx, c.endpoints.Auth, query, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateRoom creates a room; the creator is seated automatically.
func (c *Client) CreateRoom(ctx context.Context, telegramID int64, roomName, paymentType string, isPrivate bool) (*Room, error) {
	body := map[string]interface{}{
		"action":       "create",
		"telegram_id":  telegramID,
		"room_name":    roomName,
		"payment_type": paymentType,
		"is_private":   isPrivate,
	}

	var room Room
	if err := c.post(ctx, c.endpoints.Rooms, body, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// JoinRoom seats the player in a room.
func (c *Client) JoinRoom(ctx context.Context, telegramID int64, roomID string) (*JoinResult, error) {
	body := map[string]interface{}{
		"action":      "join",
		"telegram_id": telegramID,
		"room_id":     roomID,
	}

	var result JoinResult
	if err := c.post(ctx, c.endpoints.Rooms, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetRoom fetches a full room snapshot including players.
func (c *Client) GetRoom(ctx context.Context, roomID string) (*Room, error) {
	query := url.Values{"room_id": {roomID}}

	var room Room
	if err := c.get(ctx, c.endpoints.Rooms, query, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// ListPublicRooms fetches joinable public rooms, newest first.
func (c *Client) ListPublicRooms(ctx context.Context) ([]Room, error) {
	var resp struct {
		Rooms []Room `json:"rooms"`
	}
	if err := c.get(ctx, c.endpoints.Rooms, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Rooms, nil
}

// SendMessage posts a chat message to a room.
func (c *Client) SendMessage(ctx context.Context, roomID string, telegramID int64, text string) (*ChatMessage, error) {
	body := map[string]interface{}{
		"room_id":     roomID,
		"telegram_id": telegramID,
		"message":     text,
	}

	var msg ChatMessage
	if err := c.post(ctx, c.endpoints.Chat, body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetMessages fetches messages with id greater than sinceID, in
// increasing id order.
func (c *Client) GetMessages(ctx context.Context, roomID string, sinceID uint) ([]ChatMessage, error) {
	query := url.Values{
		"room_id":  {roomID},
		"since_id": {strconv.FormatUint(uint64(sinceID), 10)},
	}

	var resp struct {
		Messages []ChatMessage `json:"messages"`
	}
	if err := c.get(ctx, c.endpoints.Chat, query, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// CompleteGame reports a finished session. The server requires the
// session token and re-validates the reported score.
func (c *Client) CompleteGame(ctx context.Context, telegramID int64, roomID string, score, correctAnswers int) (*CompleteResult, error) {
	body := map[string]interface{}{
		"action":          "complete",
		"telegram_id":     telegramID,
		"room_id":         roomID,
		"score":           score,
		"correct_answers": correctAnswers,
	}

	var result CompleteResult
	if err := c.post(ctx, c.endpoints.Game, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetLeaderboard fetches the top players by total score.
func (c *Client) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	query := url.Values{
		"action": {"leaderboard"},
		"limit":  {strconv.Itoa(limit)},
	}

	var resp struct {
		Leaderboard []LeaderboardEntry `json:"leaderboard"`
	}
	if err := c.get(ctx, c.endpoints.Game, query, &resp); err != nil {
		return nil, err
	}
	return resp.Leaderboard, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	target := endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to build request")
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return errors.New(codeForStatus(resp.StatusCode), apiErr.Error)
		}
		return errors.New(codeForStatus(resp.StatusCode), fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "malformed response")
	}
	return nil
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return errors.ErrCodeValidation
	case http.StatusUnauthorized:
		return errors.ErrCodeUnauthorized
	case http.StatusNotFound:
		return errors.ErrCodeNotFound
	case http.StatusTooManyRequests:
		return errors.ErrCodeRateLimitExceeded
	default:
		return errors.ErrCodeInternalError
	}
}
