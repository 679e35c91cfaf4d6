// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anbu-app/anbu/internal/model"
	"github.com/anbu-app/anbu/internal/repository"
)

// CategoryCounter はユーザーのカテゴリ数を数える。
type CategoryCounter interface {
	CountByUserID(ctx context.Context, userID string) (int, error)
}

// UpdateInput はプロフィール更新の入力値。nilのフィールドは変更しない。
type UpdateInput struct {
	ProfileImage *string
	Timezone     *string
}

// Service はユーザー管理のサービス層。
// プロフィール参照・更新と退会処理のビジネスロジックを提供する。
type Service struct {
	userRepo        repository.UserRepository
	categoryCounter CategoryCounter
}

// NewService はServiceの新しいインスタンスを生成する。categoryCounterはnilでもよい。
func NewService(userRepo repository.UserRepository, categoryCounter CategoryCounter) *Service {
	return &Service{
		userRepo:        userRepo,
		categoryCounter: categoryCounter,
	}
}

// Get は指定IDのユーザーを返す。存在しない場合はUSER_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// Update はプロフィール画像とタイムゾーンを更新する。
// タイムゾーンはIANAタイムゾーン名でなければならない。
func (s *Service) Update(ctx context.Context, userID string, in UpdateInput) (*model.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.ProfileImage != nil {
		image := strings.TrimSpace(*in.ProfileImage)
		if image == "" {
			user.ProfileImage = nil
		} else {
			user.ProfileImage = &image
		}
	}
	if in.Timezone != nil {
		tz := strings.TrimSpace(*in.Timezone)
		if tz == "" {
			return nil, model.NewValidationError("timezone は空にできません")
		}
		if _, err := time.LoadLocation(tz); err != nil {
			return nil, model.NewValidationError(fmt.Sprintf("不明なタイムゾーンです: %s", tz))
		}
		user.Timezone = tz
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("ユーザーの更新に失敗しました: %w", err)
	}
	return user, nil
}

// Withdraw はユーザーの退会処理を実行する。
// users行の削除により categories → personas → interaction_logs, persona_notes,
// persona_profiles, notification_logs がCASCADE削除される。
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}

	attrs := []any{slog.String("user_id", userID)}
	if s.categoryCounter != nil {
		count, err := s.categoryCounter.CountByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("カテゴリ数の取得に失敗しました: %w", err)
		}
		attrs = append(attrs, slog.Int("categories", count))
	}
	slog.Info("退会処理を開始します", attrs...)

	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	slog.Info("退会処理が完了しました",
		slog.String("user_id", userID),
	)
	return nil
}
