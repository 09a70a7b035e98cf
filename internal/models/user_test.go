package models

import "testing"

func TestPickAvatar(t *testing.T) {
	tests := []struct {
		name       string
		telegramID int64
		want       string
	}{
		{"first emoji", 0, "🎮"},
		{"second emoji", 1, "🎯"},
		{"wraps around", 8, "🎮"},
		{"large id", 123456789, avatarEmojis[123456789%8]},
		{"negative id", -3, avatarEmojis[3]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PickAvatar(tt.telegramID); got != tt.want {
				t.Errorf("PickAvatar(%d) = %q, want %q", tt.telegramID, got, tt.want)
			}
		})
	}
}

func TestPickAvatarStable(t *testing.T) {
	// The same id must always map to the same emoji
	for i := 0; i < 5; i++ {
		if PickAvatar(42) != PickAvatar(42) {
			t.Fatal("PickAvatar is not deterministic")
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"first name", User{FirstName: "Аня", Username: "anya"}, "Аня"},
		{"username fallback", User{Username: "anya"}, "anya"},
		{"anonymous fallback", User{}, "Игрок"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoomStatusConstants(t *testing.T) {
	if RoomStatusWaiting != "waiting" || RoomStatusPlaying != "playing" || RoomStatusFinished != "finished" {
		t.Error("room status constants do not match the wire values")
	}
	if PaymentTypeAd != "ad" || PaymentTypeTon != "ton" {
		t.Error("payment type constants do not match the wire values")
	}
}
