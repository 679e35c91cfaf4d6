// Package category はカテゴリ管理のドメインロジックを提供する。
package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anbu-app/anbu/internal/access"
	"github.com/anbu-app/anbu/internal/model"
	"github.com/anbu-app/anbu/internal/repository"
	"github.com/google/uuid"
)

// MaxNameLength はカテゴリ名の最大文字数。
const MaxNameLength = 50

// Service はカテゴリ管理のサービス層。
type Service struct {
	categoryRepo repository.CategoryRepository
	access       *access.Checker
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(categoryRepo repository.CategoryRepository, checker *access.Checker) *Service {
	return &Service{
		categoryRepo: categoryRepo,
		access:       checker,
	}
}

// Create はユーザーのカテゴリを作成する。同名のカテゴリがある場合はDUPLICATE_CATEGORYを返す。
func (s *Service) Create(ctx context.Context, userID, name string) (*model.Category, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	existing, err := s.categoryRepo.FindByUserAndName(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("カテゴリの重複確認に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateCategoryError(name)
	}

	category := &model.Category{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, model.NewDuplicateCategoryError(name)
		}
		return nil, fmt.Errorf("カテゴリの作成に失敗しました: %w", err)
	}

	slog.Info("category created",
		slog.String("user_id", userID),
		slog.String("category_id", category.ID),
	)
	return category, nil
}

// List はユーザーのカテゴリ一覧を作成日時の新しい順に返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Category, error) {
	categories, err := s.categoryRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ一覧の取得に失敗しました: %w", err)
	}
	if categories == nil {
		categories = []*model.Category{}
	}
	return categories, nil
}

// Get はユーザーが所有するカテゴリを返す。
func (s *Service) Get(ctx context.Context, userID, categoryID string) (*model.Category, error) {
	return s.access.OwnedCategory(ctx, userID, categoryID)
}

// Rename はカテゴリ名を変更する。
// nameがnilの場合は何も変更せず現在のカテゴリを返す。
func (s *Service) Rename(ctx context.Context, userID, categoryID string, name *string) (*model.Category, error) {
	category, err := s.access.OwnedCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if name == nil {
		return category, nil
	}

	newName, err := validateName(*name)
	if err != nil {
		return nil, err
	}
	if newName == category.Name {
		return category, nil
	}

	existing, err := s.categoryRepo.FindByUserAndName(ctx, userID, newName)
	if err != nil {
		return nil, fmt.Errorf("カテゴリの重複確認に失敗しました: %w", err)
	}
	if existing != nil && existing.ID != categoryID {
		return nil, model.NewDuplicateCategoryError(newName)
	}

	if err := s.categoryRepo.UpdateName(ctx, categoryID, newName); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, model.NewDuplicateCategoryError(newName)
		}
		return nil, fmt.Errorf("カテゴリ名の更新に失敗しました: %w", err)
	}

	category.Name = newName
	return category, nil
}

// Delete はカテゴリを削除する。所属するペルソナと、その配下のデータも削除される。
func (s *Service) Delete(ctx context.Context, userID, categoryID string) error {
	if _, err := s.access.OwnedCategory(ctx, userID, categoryID); err != nil {
		return err
	}

	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		return fmt.Errorf("カテゴリの削除に失敗しました: %w", err)
	}

	slog.Info("category deleted",
		slog.String("user_id", userID),
		slog.String("category_id", categoryID),
	)
	return nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", model.NewValidationError("name は必須です")
	}
	if len([]rune(name)) > MaxNameLength {
		return "", model.NewValidationError(fmt.Sprintf("name は%d文字以内で指定してください", MaxNameLength))
	}
	return name, nil
}
