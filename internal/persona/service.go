// Package persona はペルソナ（連絡先）とそのプロフィールの管理を提供する。
package persona

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
	"github.com/anbu-app/anbu/internal/security"
	"github.com/google/uuid"
)

// detailLogLimit はペルソナ詳細に含めるやり取り記録の件数。
const detailLogLimit = 20

// 入力値の最大文字数（personasテーブルの列定義と一致させる）
const (
	MaxNameLength        = 100
	MaxPhoneNumberLength = 30
)

// Sanitizer は自由記述テキストを検査する。
// HTMLとして解釈される記述を含む場合はsecurity.ErrMarkupを返す。
type Sanitizer interface {
	CleanPtr(raw *string) (*string, error)
}

// CreateInput はペルソナ作成の入力値。
// ImportanceWeightとRelationshipTempはnilの場合に既定値を使う。
type CreateInput struct {
	CategoryID       string
	Name             string
	PhoneNumber      *string
	BirthDate        *time.Time
	AnniversaryDate  *time.Time
	ImportanceWeight *int
	RelationshipTemp *float64
}

// UpdateInput はペルソナ更新の入力値。nilのフィールドは変更しない。
type UpdateInput struct {
	CategoryID       *string
	Name             *string
	PhoneNumber      *string
	BirthDate        *time.Time
	AnniversaryDate  *time.Time
	ImportanceWeight *int
	RelationshipTemp *float64
}

// ProfileInput はプロフィール更新の入力値。nilのフィールドは変更しない。
type ProfileInput struct {
	Character          *string
	CommunicationStyle *string
	SensitiveTopics    *string
}

// Detail はペルソナ詳細画面用にペルソナと関連データをまとめたもの。
type Detail struct {
	Persona         *model.Persona
	Profile         *model.PersonaProfile
	InteractionLogs []*model.InteractionLog
	Notes           []*model.PersonaNote
}

// Service はペルソナ管理のサービス層。
type Service struct {
	personaRepo     repository.PersonaRepository
	profileRepo     repository.PersonaProfileRepository
	interactionRepo repository.InteractionLogRepository
	noteRepo        repository.PersonaNoteRepository
	access          *access.Checker
	sanitizer       Sanitizer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	personaRepo repository.PersonaRepository,
	profileRepo repository.PersonaProfileRepository,
	interactionRepo repository.InteractionLogRepository,
	noteRepo repository.PersonaNoteRepository,
	checker *access.Checker,
	sanitizer Sanitizer,
) *Service {
	return &Service{
		personaRepo:     personaRepo,
		profileRepo:     profileRepo,
		interactionRepo: interactionRepo,
		noteRepo:        noteRepo,
		access:          checker,
		sanitizer:       sanitizer,
	}
}

// Create はペルソナを作成する。カテゴリはユーザー自身のものでなければならない。
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*model.Persona, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, model.NewValidationError("name は必須です")
	}
	if in.CategoryID == "" {
		return nil, model.NewValidationError("category_id は必須です")
	}

	persona := &model.Persona{
		ID:               uuid.New().String(),
		UserID:           userID,
		CategoryID:       in.CategoryID,
		Name:             name,
		PhoneNumber:      in.PhoneNumber,
		BirthDate:        in.BirthDate,
		AnniversaryDate:  in.AnniversaryDate,
		ImportanceWeight: model.DefaultImportanceWeight,
		RelationshipTemp: model.DefaultRelationshipTemp,
		CreatedAt:        time.Now().UTC(),
	}
	if in.ImportanceWeight != nil {
		persona.ImportanceWeight = *in.ImportanceWeight
	}
	if in.RelationshipTemp != nil {
		persona.RelationshipTemp = *in.RelationshipTemp
	}
	if err := validatePersona(persona); err != nil {
		return nil, err
	}

	if _, err := s.access.OwnedCategory(ctx, userID, in.CategoryID); err != nil {
		return nil, err
	}

	if err := s.personaRepo.Create(ctx, persona); err != nil {
		return nil, fmt.Errorf("ペルソナの作成に失敗しました: %w", err)
	}

	slog.Info("persona created",
		slog.String("user_id", userID),
		slog.String("persona_id", persona.ID),
	)
	return persona, nil
}

// List はユーザーのペルソナ一覧を作成日時の新しい順に返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Persona, error) {
	personas, err := s.personaRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ペルソナ一覧の取得に失敗しました: %w", err)
	}
	if personas == nil {
		personas = []*model.Persona{}
	}
	return personas, nil
}

// Get はユーザーが所有するペルソナを返す。
func (s *Service) Get(ctx context.Context, userID, personaID string) (*model.Persona, error) {
	return s.access.OwnedPersona(ctx, userID, personaID)
}

// Update は指定されたフィールドだけを更新する。
// カテゴリを変更する場合、変更先もユーザー自身のカテゴリでなければならない。
func (s *Service) Update(ctx context.Context, userID, personaID string, in UpdateInput) (*model.Persona, error) {
	persona, err := s.access.OwnedPersona(ctx, userID, personaID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, model.NewValidationError("name は空にできません")
		}
		persona.Name = name
	}
	if in.PhoneNumber != nil {
		persona.PhoneNumber = in.PhoneNumber
	}
	if in.BirthDate != nil {
		persona.BirthDate = in.BirthDate
	}
	if in.AnniversaryDate != nil {
		persona.AnniversaryDate = in.AnniversaryDate
	}
	if in.ImportanceWeight != nil {
		persona.ImportanceWeight = *in.ImportanceWeight
	}
	if in.RelationshipTemp != nil {
		persona.RelationshipTemp = *in.RelationshipTemp
	}
	if err := validatePersona(persona); err != nil {
		return nil, err
	}

	if in.CategoryID != nil && *in.CategoryID != persona.CategoryID {
		if _, err := s.access.OwnedCategory(ctx, userID, *in.CategoryID); err != nil {
			return nil, err
		}
		persona.CategoryID = *in.CategoryID
	}

	if err := s.personaRepo.Update(ctx, persona); err != nil {
		return nil, fmt.Errorf("ペルソナの更新に失敗しました: %w", err)
	}
	return persona, nil
}

// Delete はペルソナを削除する。やり取り記録、メモ、プロフィールも削除される。
func (s *Service) Delete(ctx context.Context, userID, personaID string) error {
	if _, err := s.access.OwnedPersona(ctx, userID, personaID); err != nil {
		return err
	}

	if err := s.personaRepo.Delete(ctx, personaID); err != nil {
		return fmt.Errorf("ペルソナの削除に失敗しました: %w", err)
	}

	slog.Info("persona deleted",
		slog.String("user_id", userID),
		slog.String("persona_id", personaID),
	)
	return nil
}

// GetProfile はペルソナのプロフィールを返す。未作成の場合は空のプロフィールを返す。
func (s *Service) GetProfile(ctx context.Context, userID, personaID string) (*model.PersonaProfile, error) {
	if _, err := s.access.AuthorizePersona(ctx, userID, personaID); err != nil {
		return nil, err
	}
	return s.loadProfile(ctx, personaID)
}

// UpdateProfile はプロフィールを作成または更新する。指定されたフィールドだけを変更する。
func (s *Service) UpdateProfile(ctx context.Context, userID, personaID string, in ProfileInput) (*model.PersonaProfile, error) {
	if _, err := s.access.AuthorizePersona(ctx, userID, personaID); err != nil {
		return nil, err
	}

	profile, err := s.loadProfile(ctx, personaID)
	if err != nil {
		return nil, err
	}
	fields := []struct {
		name  string
		input *string
		dst   **string
	}{
		{"character", in.Character, &profile.Character},
		{"communication_style", in.CommunicationStyle, &profile.CommunicationStyle},
		{"sensitive_topics", in.SensitiveTopics, &profile.SensitiveTopics},
	}
	for _, f := range fields {
		if f.input == nil {
			continue
		}
		cleaned, err := s.sanitizer.CleanPtr(f.input)
		if errors.Is(err, security.ErrMarkup) {
			return nil, model.NewValidationError(fmt.Sprintf("%s にHTMLタグは使用できません", f.name))
		}
		if err != nil {
			return nil, fmt.Errorf("プロフィールの検査に失敗しました: %w", err)
		}
		*f.dst = cleaned
	}

	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("プロフィールの保存に失敗しました: %w", err)
	}
	return profile, nil
}

// GetDetail はペルソナと、プロフィール・直近のやり取り記録・メモをまとめて返す。
func (s *Service) GetDetail(ctx context.Context, userID, personaID string) (*Detail, error) {
	persona, err := s.access.OwnedPersona(ctx, userID, personaID)
	if err != nil {
		return nil, err
	}

	profile, err := s.loadProfile(ctx, personaID)
	if err != nil {
		return nil, err
	}

	logs, err := s.interactionRepo.ListByPersonaID(ctx, personaID, detailLogLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("やり取り記録の取得に失敗しました: %w", err)
	}
	if logs == nil {
		logs = []*model.InteractionLog{}
	}

	notes, err := s.noteRepo.ListByPersonaID(ctx, personaID)
	if err != nil {
		return nil, fmt.Errorf("メモの取得に失敗しました: %w", err)
	}
	if notes == nil {
		notes = []*model.PersonaNote{}
	}

	return &Detail{
		Persona:         persona,
		Profile:         profile,
		InteractionLogs: logs,
		Notes:           notes,
	}, nil
}

func (s *Service) loadProfile(ctx context.Context, personaID string) (*model.PersonaProfile, error) {
	profile, err := s.profileRepo.FindByPersonaID(ctx, personaID)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}
	if profile == nil {
		profile = &model.PersonaProfile{PersonaID: personaID}
	}
	return profile, nil
}

func validatePersona(p *model.Persona) error {
	if len([]rune(p.Name)) > MaxNameLength {
		return model.NewValidationError(fmt.Sprintf("name は%d文字以内で指定してください", MaxNameLength))
	}
	if p.PhoneNumber != nil && len([]rune(*p.PhoneNumber)) > MaxPhoneNumberLength {
		return model.NewValidationError(fmt.Sprintf("phone_number は%d文字以内で指定してください", MaxPhoneNumberLength))
	}
	if !model.ValidImportanceWeight(p.ImportanceWeight) {
		return model.NewValidationError(fmt.Sprintf("importance_weight は%dから%dの範囲で指定してください",
			model.MinImportanceWeight, model.MaxImportanceWeight))
	}
	if !model.ValidRelationshipTemp(p.RelationshipTemp) {
		return model.NewValidationError(fmt.Sprintf("relationship_temp は%.0fから%.0fの範囲で指定してください",
			model.MinRelationshipTemp, model.MaxRelationshipTemp))
	}
	return nil
}
