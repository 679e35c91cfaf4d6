package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"短いパスワード", "anbu2025"},
		{"空文字", ""},
		{"ちょうど72バイト", strings.Repeat("a", 72)},
		{"73バイト", strings.Repeat("a", 73)},
		{"長いパスワード", strings.Repeat("password-", 40)},
		{"マルチバイト", strings.Repeat("관계", 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			if err != nil {
				t.Fatalf("HashPassword returned error: %v", err)
			}
			if !VerifyPassword(tt.password, hash) {
				t.Error("VerifyPassword returned false for the original password")
			}
		})
	}
}

func TestHashPassword_IsSalted(t *testing.T) {
	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if h1 == h2 {
		t.Error("expected different hashes for repeated calls")
	}
	if !VerifyPassword("same-password", h1) || !VerifyPassword("same-password", h2) {
		t.Error("both hashes should verify")
	}
}

func TestVerifyPassword_DifferentPasswords(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if VerifyPassword("battery staple", hash) {
		t.Error("VerifyPassword returned true for a different password")
	}
}

// 72バイトを超える2つのパスワードが先頭72バイトで一致していても区別されること
func TestVerifyPassword_LongPasswordsDifferAfter72Bytes(t *testing.T) {
	prefix := strings.Repeat("x", 72)
	hash, err := HashPassword(prefix + "-one")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if VerifyPassword(prefix+"-two", hash) {
		t.Error("passwords differing after 72 bytes should not verify")
	}
}

func TestVerifyPassword_CorruptHash(t *testing.T) {
	if VerifyPassword("anything", "not-a-bcrypt-hash") {
		t.Error("VerifyPassword should return false for a corrupt hash")
	}
	if VerifyPassword("anything", "") {
		t.Error("VerifyPassword should return false for an empty hash")
	}
}

func TestPrehash(t *testing.T) {
	short := "short"
	if got := string(prehash(short)); got != short {
		t.Errorf("prehash(%q) = %q, want unchanged", short, got)
	}

	long := strings.Repeat("b", 100)
	got := prehash(long)
	if len(got) != 64 {
		t.Errorf("len(prehash(long)) = %d, want 64", len(got))
	}
	if strings.ToLower(string(got)) != string(got) {
		t.Errorf("prehash should produce lowercase hex, got %q", got)
	}
}

func TestNewPasswordHasher_InvalidCostFallsBack(t *testing.T) {
	h := NewPasswordHasher(100)
	if h.cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want %d", h.cost, bcrypt.DefaultCost)
	}

	h = NewPasswordHasher(bcrypt.MinCost)
	hash, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost returned error: %v", err)
	}
	if cost != bcrypt.MinCost {
		t.Errorf("hash cost = %d, want %d", cost, bcrypt.MinCost)
	}
}
