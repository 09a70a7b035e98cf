package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// WebAppUser is the identity block Telegram embeds in Mini App init data.
type WebAppUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// InitData is the validated payload of a Mini App launch.
type InitData struct {
	User       *WebAppUser
	StartParam string
	AuthDate   time.Time
}

// ValidateInitData verifies a Telegram WebApp initData string against the
// bot token per the documented scheme: the hash field must equal
// HMAC-SHA256(data-check-string, HMAC-SHA256(botToken, "WebAppData")).
// A maxAge of zero skips the freshness check.
func ValidateInitData(initData, botToken string, maxAge time.Duration) (*InitData, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("malformed init data: %w", err)
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return nil, fmt.Errorf("init data has no hash")
	}
	values.Del("hash")

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	wantHash := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(gotHash), []byte(wantHash)) {
		return nil, fmt.Errorf("init data signature mismatch")
	}

	data := &InitData{
		StartParam: values.Get("start_param"),
	}

	if raw := values.Get("auth_date"); raw != "" {
		unix, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid auth_date: %w", err)
		}
		data.AuthDate = time.Unix(unix, 0)
		if maxAge > 0 && time.Since(data.AuthDate) > maxAge {
			return nil, fmt.Errorf("init data expired")
		}
	}

	if raw := values.Get("user"); raw != "" {
		var user WebAppUser
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			return nil, fmt.Errorf("invalid user payload: %w", err)
		}
		data.User = &user
	}

	return data, nil
}
