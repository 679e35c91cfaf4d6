package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

// Postgres実装が各インターフェースを満たすことを検証
func TestPostgresRepos_ImplementInterfaces(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
	var _ CategoryRepository = (*PostgresCategoryRepo)(nil)
	var _ PersonaRepository = (*PostgresPersonaRepo)(nil)
	var _ PersonaProfileRepository = (*PostgresPersonaProfileRepo)(nil)
	var _ InteractionLogRepository = (*PostgresInteractionLogRepo)(nil)
	var _ PersonaNoteRepository = (*PostgresPersonaNoteRepo)(nil)
}

func TestNewPostgresRepos_Initialize(t *testing.T) {
	if NewPostgresUserRepo(nil) == nil {
		t.Error("expected non-nil user repo")
	}
	if NewPostgresCategoryRepo(nil) == nil {
		t.Error("expected non-nil category repo")
	}
	if NewPostgresPersonaRepo(nil) == nil {
		t.Error("expected non-nil persona repo")
	}
	if NewPostgresPersonaProfileRepo(nil) == nil {
		t.Error("expected non-nil profile repo")
	}
	if NewPostgresInteractionLogRepo(nil) == nil {
		t.Error("expected non-nil interaction log repo")
	}
	if NewPostgresPersonaNoteRepo(nil) == nil {
		t.Error("expected non-nil note repo")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"一意制約違反", &pq.Error{Code: "23505"}, true},
		{"ラップされた一意制約違反", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), true},
		{"外部キー違反", &pq.Error{Code: "23503"}, false},
		{"その他のエラー", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLimitOffset(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  any
		wantOffset int
	}{
		{"limit指定なしはoffsetも無視", 0, 20, nil, 0},
		{"負のlimit", -1, 5, nil, 0},
		{"limitとoffset", 10, 20, 10, 20},
		{"負のoffsetは0", 10, -3, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotLimit, gotOffset := limitOffset(tt.limit, tt.offset)
			if gotLimit != tt.wantLimit {
				t.Errorf("limit = %v, want %v", gotLimit, tt.wantLimit)
			}
			if gotOffset != tt.wantOffset {
				t.Errorf("offset = %d, want %d", gotOffset, tt.wantOffset)
			}
		})
	}
}

func TestIsValidID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"UUID", "6f1c2a3e-8d4b-4c5a-9e7f-0a1b2c3d4e5f", true},
		{"大文字UUID", "6F1C2A3E-8D4B-4C5A-9E7F-0A1B2C3D4E5F", true},
		{"空文字列", "", false},
		{"短い文字列", "abc", false},
		{"ハイフンなし", "6f1c2a3e8d4b4c5a9e7f0a1b2c3d4e5f", false},
		{"URN形式", "urn:uuid:6f1c2a3e-8d4b-4c5a-9e7f-0a1b2c3d4e5f", false},
		{"16進以外の文字", "6f1c2a3e-8d4b-4c5a-9e7f-0a1b2c3d4e5g", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidID(tt.id); got != tt.want {
				t.Errorf("isValidID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

// 不正な形式のidはDBに問い合わせず未検出として扱う（dbがnilでもパニックしない）
func TestFindByID_MalformedIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	const malformed = "abc"

	if u, err := NewPostgresUserRepo(nil).FindByID(ctx, malformed); u != nil || err != nil {
		t.Errorf("user FindByID(%q) = (%v, %v), want (nil, nil)", malformed, u, err)
	}
	if c, err := NewPostgresCategoryRepo(nil).FindByID(ctx, malformed); c != nil || err != nil {
		t.Errorf("category FindByID(%q) = (%v, %v), want (nil, nil)", malformed, c, err)
	}
	if p, err := NewPostgresPersonaRepo(nil).FindByID(ctx, malformed); p != nil || err != nil {
		t.Errorf("persona FindByID(%q) = (%v, %v), want (nil, nil)", malformed, p, err)
	}
	if p, err := NewPostgresPersonaProfileRepo(nil).FindByPersonaID(ctx, malformed); p != nil || err != nil {
		t.Errorf("profile FindByPersonaID(%q) = (%v, %v), want (nil, nil)", malformed, p, err)
	}
	if l, err := NewPostgresInteractionLogRepo(nil).FindByID(ctx, malformed); l != nil || err != nil {
		t.Errorf("interaction FindByID(%q) = (%v, %v), want (nil, nil)", malformed, l, err)
	}
	if n, err := NewPostgresPersonaNoteRepo(nil).FindByID(ctx, malformed); n != nil || err != nil {
		t.Errorf("note FindByID(%q) = (%v, %v), want (nil, nil)", malformed, n, err)
	}
}
