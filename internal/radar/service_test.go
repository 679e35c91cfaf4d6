package radar

import (
	"context"
	"errors"
	"testing"

	"github.com/anbu-app/anbu/internal/model"
	"github.com/anbu-app/anbu/internal/repository"
)

type mockCategoryRepo struct {
	repository.CategoryRepository
	listWithPersonasFn func(ctx context.Context, userID string) ([]model.CategoryWithPersonas, error)
}

func (m *mockCategoryRepo) ListWithPersonasByUserID(ctx context.Context, userID string) ([]model.CategoryWithPersonas, error) {
	return m.listWithPersonasFn(ctx, userID)
}

type mockRecorder struct {
	calls []int
}

func (m *mockRecorder) RecordRadar(categories int) {
	m.calls = append(m.calls, categories)
}

func TestService_GetForUser(t *testing.T) {
	var gotUserID string
	repo := &mockCategoryRepo{
		listWithPersonasFn: func(_ context.Context, userID string) ([]model.CategoryWithPersonas, error) {
			gotUserID = userID
			return []model.CategoryWithPersonas{
				category("c1", "家族", 60, 80),
				category("c2", "職場"),
			}, nil
		},
	}
	rec := &mockRecorder{}
	svc := NewService(repo, rec)

	result, err := svc.GetForUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetForUser returned error: %v", err)
	}

	if gotUserID != "user-1" {
		t.Errorf("repository called with %q, want %q", gotUserID, "user-1")
	}
	if result.OverallScore != 63.3 {
		t.Errorf("OverallScore = %v, want 63.3", result.OverallScore)
	}
	if len(rec.calls) != 1 || rec.calls[0] != 2 {
		t.Errorf("recorder calls = %v, want [2]", rec.calls)
	}
}

func TestService_GetForUser_NoCategories(t *testing.T) {
	repo := &mockCategoryRepo{
		listWithPersonasFn: func(_ context.Context, _ string) ([]model.CategoryWithPersonas, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, nil)

	result, err := svc.GetForUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetForUser returned error: %v", err)
	}
	if result.OverallScore != NoCategoryOverallScore {
		t.Errorf("OverallScore = %v, want %v", result.OverallScore, NoCategoryOverallScore)
	}
	if result.Categories == nil {
		t.Error("Categories should be an empty slice, not nil")
	}
}

func TestService_GetForUser_RepositoryError(t *testing.T) {
	repoErr := errors.New("db down")
	repo := &mockCategoryRepo{
		listWithPersonasFn: func(_ context.Context, _ string) ([]model.CategoryWithPersonas, error) {
			return nil, repoErr
		},
	}
	svc := NewService(repo, nil)

	if _, err := svc.GetForUser(context.Background(), "user-1"); !errors.Is(err, repoErr) {
		t.Errorf("err = %v, want wrapped %v", err, repoErr)
	}
}
