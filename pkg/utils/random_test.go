package utils

import (
	"strings"
	"testing"
)

func TestGenerateRandomID(t *testing.T) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	for _, length := range []int{8, 11, 16} {
		id := GenerateRandomID(length)
		if len(id) != length {
			t.Errorf("len(GenerateRandomID(%d)) = %d, want %d", length, len(id), length)
		}
		for _, c := range id {
			if !strings.ContainsRune(charset, c) {
				t.Errorf("GenerateRandomID(%d) contains %q outside the charset", length, c)
			}
		}
	}
}

func TestGenerateRandomIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateRandomID(11)
		if seen[id] {
			t.Fatalf("duplicate id %q after %d draws", id, i)
		}
		seen[id] = true
	}
}
