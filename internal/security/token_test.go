package security

import (
	"testing"
)

const testSecret = "this_is_a_test_secret_key_with_32_chars_minimum"

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := GenerateJWT(123456789, testSecret)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateJWT() returned empty token")
	}

	claims, err := ValidateJWT(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateJWT() error = %v", err)
	}
	if claims.TelegramID != 123456789 {
		t.Errorf("TelegramID = %d, want 123456789", claims.TelegramID)
	}
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT(1, testSecret)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	if _, err := ValidateJWT(token, "another_secret_key_that_is_long_enough"); err == nil {
		t.Error("ValidateJWT() with wrong secret = nil, want error")
	}
}

func TestValidateJWT_Garbage(t *testing.T) {
	if _, err := ValidateJWT("not.a.token", testSecret); err == nil {
		t.Error("ValidateJWT() with garbage = nil, want error")
	}
}
