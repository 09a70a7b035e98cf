package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"
)

const testBotToken = "12345:test-bot-token"

// signInitData builds an initData query string signed the way Telegram
// signs Mini App launches.
func signInitData(t *testing.T, values url.Values, botToken string) string {
	t.Helper()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))

	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return values.Encode()
}

func TestValidateInitData(t *testing.T) {
	values := url.Values{}
	values.Set("user", `{"id":42,"first_name":"Аня","username":"anya"}`)
	values.Set("auth_date", strconv.FormatInt(time.Now().Unix(), 10))
	values.Set("start_param", "REF123")

	initData := signInitData(t, values, testBotToken)

	data, err := ValidateInitData(initData, testBotToken, time.Hour)
	if err != nil {
		t.Fatalf("ValidateInitData() error = %v", err)
	}
	if data.User == nil {
		t.Fatal("User = nil, want parsed user")
	}
	if data.User.ID != 42 {
		t.Errorf("User.ID = %d, want 42", data.User.ID)
	}
	if data.User.FirstName != "Аня" {
		t.Errorf("User.FirstName = %q, want %q", data.User.FirstName, "Аня")
	}
	if data.StartParam != "REF123" {
		t.Errorf("StartParam = %q, want REF123", data.StartParam)
	}
}

func TestValidateInitData_WrongToken(t *testing.T) {
	values := url.Values{}
	values.Set("user", `{"id":42,"first_name":"A"}`)
	values.Set("auth_date", strconv.FormatInt(time.Now().Unix(), 10))

	initData := signInitData(t, values, "другой:token")

	if _, err := ValidateInitData(initData, testBotToken, 0); err == nil {
		t.Error("ValidateInitData() with foreign signature = nil, want error")
	}
}

func TestValidateInitData_Tampered(t *testing.T) {
	values := url.Values{}
	values.Set("user", `{"id":42,"first_name":"A"}`)
	values.Set("auth_date", strconv.FormatInt(time.Now().Unix(), 10))

	initData := signInitData(t, values, testBotToken)
	initData = strings.Replace(initData, "42", "43", 1)

	if _, err := ValidateInitData(initData, testBotToken, 0); err == nil {
		t.Error("ValidateInitData() after tampering = nil, want error")
	}
}

func TestValidateInitData_Expired(t *testing.T) {
	values := url.Values{}
	values.Set("user", `{"id":42,"first_name":"A"}`)
	values.Set("auth_date", strconv.FormatInt(time.Now().Add(-48*time.Hour).Unix(), 10))

	initData := signInitData(t, values, testBotToken)

	if _, err := ValidateInitData(initData, testBotToken, 24*time.Hour); err == nil {
		t.Error("ValidateInitData() with stale auth_date = nil, want error")
	}

	// A zero maxAge skips the freshness check
	if _, err := ValidateInitData(initData, testBotToken, 0); err != nil {
		t.Errorf("ValidateInitData() with maxAge 0 error = %v", err)
	}
}

func TestValidateInitData_NoHash(t *testing.T) {
	if _, err := ValidateInitData("user=%7B%22id%22%3A1%7D", testBotToken, 0); err == nil {
		t.Error("ValidateInitData() without hash = nil, want error")
	}
}

func TestSanitizeMessage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "привет", "привет"},
		{"strips tags", "<script>alert(1)</script>привет", "привет"},
		{"trims space", "  привет  ", "привет"},
		{"strips null bytes", "при\x00вет", "привет"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeMessage(tt.input); got != tt.want {
				t.Errorf("SanitizeMessage(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeMessageCapsLength(t *testing.T) {
	long := strings.Repeat("a", 2000)
	if got := SanitizeMessage(long); len(got) != 1000 {
		t.Errorf("len = %d, want 1000", len(got))
	}
}
