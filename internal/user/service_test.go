package user

import (
	"context"
	"errors"
	"testing"
	_ "time/tzdata"

	"github.com/anbu-app/anbu/internal/model"
)

// --- モック ---

type mockUserRepo struct {
	findByIDFn   func(ctx context.Context, id string) (*model.User, error)
	updateFn     func(ctx context.Context, user *model.User) error
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) FindByEmailOrOAuthID(ctx context.Context, email, oauthID string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return nil
}
func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}
func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) error {
	return m.deleteByIDFn(ctx, id)
}

type mockCategoryCounter struct {
	countFn func(ctx context.Context, userID string) (int, error)
}

func (m *mockCategoryCounter) CountByUserID(ctx context.Context, userID string) (int, error) {
	return m.countFn(ctx, userID)
}

func existingUser(ctx context.Context, id string) (*model.User, error) {
	image := "https://example.com/me.png"
	return &model.User{
		ID:           id,
		Email:        "test@example.com",
		ProfileImage: &image,
		Timezone:     model.DefaultTimezone,
	}, nil
}

func ptr[T any](v T) *T { return &v }

// --- テスト ---

// TestService_Get_NotFound は存在しないユーザーがUSER_NOT_FOUNDになることを検証する。
func TestService_Get_NotFound(t *testing.T) {
	svc := NewService(&mockUserRepo{}, nil)

	_, err := svc.Get(context.Background(), "nonexistent-user")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Fatalf("expected USER_NOT_FOUND, got %v", err)
	}
}

// TestService_Update はタイムゾーンとプロフィール画像の更新を検証する。
func TestService_Update(t *testing.T) {
	var saved *model.User
	userRepo := &mockUserRepo{
		findByIDFn: existingUser,
		updateFn: func(ctx context.Context, user *model.User) error {
			saved = user
			return nil
		},
	}
	svc := NewService(userRepo, nil)

	got, err := svc.Update(context.Background(), "user-1", UpdateInput{Timezone: ptr("Asia/Tokyo")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if saved != got {
		t.Fatal("expected user to be saved")
	}
	if got.Timezone != "Asia/Tokyo" {
		t.Errorf("Timezone = %q, want %q", got.Timezone, "Asia/Tokyo")
	}
	if got.ProfileImage == nil {
		t.Error("ProfileImage should be kept when not given")
	}

	got, err = svc.Update(context.Background(), "user-1", UpdateInput{ProfileImage: ptr("")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got.ProfileImage != nil {
		t.Errorf("ProfileImage = %q, want cleared", *got.ProfileImage)
	}
}

// TestService_Update_InvalidTimezone は不正なタイムゾーンが拒否されることを検証する。
func TestService_Update_InvalidTimezone(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: existingUser,
		updateFn: func(ctx context.Context, user *model.User) error {
			t.Error("Update should not be called")
			return nil
		},
	}
	svc := NewService(userRepo, nil)

	for _, tz := range []string{"", "Mars/Olympus"} {
		_, err := svc.Update(context.Background(), "user-1", UpdateInput{Timezone: ptr(tz)})
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidation {
			t.Errorf("timezone %q: expected VALIDATION_ERROR, got %v", tz, err)
		}
	}
}

// TestService_Withdraw は退会処理でユーザーが削除されることを検証する。
func TestService_Withdraw(t *testing.T) {
	userDeleteCalled := false
	countCalled := false

	userRepo := &mockUserRepo{
		findByIDFn: existingUser,
		deleteByIDFn: func(ctx context.Context, id string) error {
			userDeleteCalled = true
			return nil
		},
	}
	counter := &mockCategoryCounter{
		countFn: func(ctx context.Context, userID string) (int, error) {
			countCalled = true
			return 5, nil
		},
	}

	svc := NewService(userRepo, counter)

	err := svc.Withdraw(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Withdraw returned error: %v", err)
	}
	if !countCalled {
		t.Error("expected CountByUserID to be called")
	}
	if !userDeleteCalled {
		t.Error("expected user DeleteByID to be called")
	}
}

// TestService_Withdraw_UserNotFound は存在しないユーザーの退会がエラーになることを検証する。
func TestService_Withdraw_UserNotFound(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, nil
		},
		deleteByIDFn: func(ctx context.Context, id string) error {
			t.Error("DeleteByID should not be called")
			return nil
		},
	}

	svc := NewService(userRepo, nil)

	err := svc.Withdraw(context.Background(), "nonexistent-user")
	if err == nil {
		t.Fatal("expected error for nonexistent user, got nil")
	}
}

// TestService_Withdraw_DeleteError は削除失敗がエラーとして返ることを検証する。
func TestService_Withdraw_DeleteError(t *testing.T) {
	dbErr := errors.New("connection refused")
	userRepo := &mockUserRepo{
		findByIDFn: existingUser,
		deleteByIDFn: func(ctx context.Context, id string) error {
			return dbErr
		},
	}

	svc := NewService(userRepo, nil)

	if err := svc.Withdraw(context.Background(), "user-1"); !errors.Is(err, dbErr) {
		t.Errorf("err = %v, want wrapped %v", err, dbErr)
	}
}
