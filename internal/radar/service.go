package radar

import (
	"context"
	"fmt"

	"github.com/anbu-app/anbu/internal/repository"
)

// Recorder はレーダー集計の記録先。metrics.Collectorが実装する。
type Recorder interface {
	RecordRadar(categories int)
}

// Service はユーザーのレーダーチャートを組み立てるサービス層。
type Service struct {
	categoryRepo repository.CategoryRepository
	recorder     Recorder
}

// NewService はServiceの新しいインスタンスを生成する。recorderはnilでもよい。
func NewService(categoryRepo repository.CategoryRepository, recorder Recorder) *Service {
	return &Service{
		categoryRepo: categoryRepo,
		recorder:     recorder,
	}
}

// GetForUser はユーザーのカテゴリとペルソナを読み込み、レーダーを集計する。
func (s *Service) GetForUser(ctx context.Context, userID string) (*Result, error) {
	categories, err := s.categoryRepo.ListWithPersonasByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ一覧の取得に失敗しました: %w", err)
	}

	result := Compute(categories)
	if s.recorder != nil {
		s.recorder.RecordRadar(len(result.Categories))
	}
	return &result, nil
}
