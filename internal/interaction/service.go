// Package interaction はペルソナとのやり取り記録（通話、メッセージ、対面など）の管理を提供する。
package interaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anbu-app/anbu/internal/access"
	"github.com/anbu-app/anbu/internal/model"
	"github.com/anbu-app/anbu/internal/repository"
	"github.com/anbu-app/anbu/internal/security"
	"github.com/google/uuid"
)

// Sanitizer は自由記述テキストを検査する。
// HTMLとして解釈される記述を含む場合はsecurity.ErrMarkupを返す。
type Sanitizer interface {
	CleanPtr(raw *string) (*string, error)
}

// CreateInput はやり取り記録作成の入力値。
type CreateInput struct {
	PersonaID      string
	Type           model.InteractionType
	Direction      model.Direction
	Timestamp      time.Time
	Duration       *int
	SentimentScore *float64
	SummaryText    *string
	RawVectorID    *string
}

// UpdateInput はやり取り記録更新の入力値。nilのフィールドは変更しない。
type UpdateInput struct {
	Type           *model.InteractionType
	Direction      *model.Direction
	Timestamp      *time.Time
	Duration       *int
	SentimentScore *float64
	SummaryText    *string
	RawVectorID    *string
}

// Service はやり取り記録のサービス層。
type Service struct {
	logRepo   repository.InteractionLogRepository
	access    *access.Checker
	sanitizer Sanitizer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(logRepo repository.InteractionLogRepository, checker *access.Checker, sanitizer Sanitizer) *Service {
	return &Service{
		logRepo:   logRepo,
		access:    checker,
		sanitizer: sanitizer,
	}
}

// Create はペルソナのやり取り記録を作成する。
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*model.InteractionLog, error) {
	if in.PersonaID == "" {
		return nil, model.NewValidationError("persona_id は必須です")
	}
	if in.Timestamp.IsZero() {
		return nil, model.NewValidationError("timestamp は必須です")
	}

	summary, err := s.cleanSummary(in.SummaryText)
	if err != nil {
		return nil, err
	}

	log := &model.InteractionLog{
		ID:             uuid.New().String(),
		PersonaID:      in.PersonaID,
		Type:           in.Type,
		Direction:      in.Direction,
		Timestamp:      in.Timestamp.UTC(),
		Duration:       in.Duration,
		SentimentScore: in.SentimentScore,
		SummaryText:    summary,
		RawVectorID:    in.RawVectorID,
	}
	if err := validate(log); err != nil {
		return nil, err
	}

	if _, err := s.access.AuthorizePersona(ctx, userID, in.PersonaID); err != nil {
		return nil, err
	}

	if err := s.logRepo.Create(ctx, log); err != nil {
		return nil, fmt.Errorf("やり取り記録の作成に失敗しました: %w", err)
	}
	return log, nil
}

// List はやり取り記録をtimestampの新しい順に返す。
// personaIDが空の場合はユーザーの全ペルソナの記録を返す。
// limitが0以下の場合は件数を制限せず、offsetも無視する。
func (s *Service) List(ctx context.Context, userID string, filter model.InteractionFilter) ([]*model.InteractionLog, error) {
	var (
		logs []*model.InteractionLog
		err  error
	)
	if filter.PersonaID != "" {
		if _, err := s.access.AuthorizePersona(ctx, userID, filter.PersonaID); err != nil {
			return nil, err
		}
		logs, err = s.logRepo.ListByPersonaID(ctx, filter.PersonaID, filter.Limit, filter.Offset)
	} else {
		logs, err = s.logRepo.ListByUserID(ctx, userID, filter.Limit, filter.Offset)
	}
	if err != nil {
		return nil, fmt.Errorf("やり取り記録一覧の取得に失敗しました: %w", err)
	}
	if logs == nil {
		logs = []*model.InteractionLog{}
	}
	return logs, nil
}

// Get はやり取り記録を返す。他ユーザーのペルソナの記録であればFORBIDDENを返す。
func (s *Service) Get(ctx context.Context, userID, logID string) (*model.InteractionLog, error) {
	return s.authorizedLog(ctx, userID, logID)
}

// Update は指定されたフィールドだけを更新する。
func (s *Service) Update(ctx context.Context, userID, logID string, in UpdateInput) (*model.InteractionLog, error) {
	log, err := s.authorizedLog(ctx, userID, logID)
	if err != nil {
		return nil, err
	}

	if in.Type != nil {
		log.Type = *in.Type
	}
	if in.Direction != nil {
		log.Direction = *in.Direction
	}
	if in.Timestamp != nil {
		log.Timestamp = in.Timestamp.UTC()
	}
	if in.Duration != nil {
		log.Duration = in.Duration
	}
	if in.SentimentScore != nil {
		log.SentimentScore = in.SentimentScore
	}
	if in.SummaryText != nil {
		summary, err := s.cleanSummary(in.SummaryText)
		if err != nil {
			return nil, err
		}
		log.SummaryText = summary
	}
	if in.RawVectorID != nil {
		log.RawVectorID = in.RawVectorID
	}
	if err := validate(log); err != nil {
		return nil, err
	}

	if err := s.logRepo.Update(ctx, log); err != nil {
		return nil, fmt.Errorf("やり取り記録の更新に失敗しました: %w", err)
	}
	return log, nil
}

// Delete はやり取り記録を削除する。
func (s *Service) Delete(ctx context.Context, userID, logID string) error {
	if _, err := s.authorizedLog(ctx, userID, logID); err != nil {
		return err
	}
	if err := s.logRepo.Delete(ctx, logID); err != nil {
		return fmt.Errorf("やり取り記録の削除に失敗しました: %w", err)
	}
	return nil
}

func (s *Service) authorizedLog(ctx context.Context, userID, logID string) (*model.InteractionLog, error) {
	log, err := s.logRepo.FindByID(ctx, logID)
	if err != nil {
		return nil, fmt.Errorf("やり取り記録の取得に失敗しました: %w", err)
	}
	if log == nil {
		return nil, model.NewInteractionNotFoundError(logID)
	}
	if _, err := s.access.AuthorizePersona(ctx, userID, log.PersonaID); err != nil {
		return nil, err
	}
	return log, nil
}

func validate(log *model.InteractionLog) error {
	if !log.Type.Valid() {
		return model.NewValidationError("type は Call、Message、Meeting、Note のいずれかを指定してください")
	}
	if !log.Direction.Valid() {
		return model.NewValidationError("direction は Inbound、Outbound のいずれかを指定してください")
	}
	if log.Duration != nil && *log.Duration < 0 {
		return model.NewValidationError("duration は0以上で指定してください")
	}
	if log.SentimentScore != nil && !model.ValidSentimentScore(*log.SentimentScore) {
		return model.NewValidationError("sentiment_score は-1.0から1.0の範囲で指定してください")
	}
	return nil
}

func (s *Service) cleanSummary(raw *string) (*string, error) {
	summary, err := s.sanitizer.CleanPtr(raw)
	if errors.Is(err, security.ErrMarkup) {
		return nil, model.NewValidationError("summary_text にHTMLタグは使用できません")
	}
	if err != nil {
		return nil, fmt.Errorf("要約の検査に失敗しました: %w", err)
	}
	return summary, nil
}
