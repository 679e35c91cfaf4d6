// Package note はペルソナに付けるメモ（覚え書き、次に聞きたいこと）の管理を提供する。
package note

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

// MaxContentLength はメモ本文の最大文字数。
const MaxContentLength = 2000

// Sanitizer は自由記述テキストを検査する。
// HTMLとして解釈される記述を含む場合はsecurity.ErrMarkupを返す。
type Sanitizer interface {
	Clean(raw string) (string, error)
}

// Service はペルソナメモのサービス層。
type Service struct {
	noteRepo  repository.PersonaNoteRepository
	access    *access.Checker
	sanitizer Sanitizer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(noteRepo repository.PersonaNoteRepository, checker *access.Checker, sanitizer Sanitizer) *Service {
	return &Service{
		noteRepo:  noteRepo,
		access:    checker,
		sanitizer: sanitizer,
	}
}

// Create はペルソナにメモを追加する。
func (s *Service) Create(ctx context.Context, userID, personaID string, noteType model.NoteType, content string) (*model.PersonaNote, error) {
	if personaID == "" {
		return nil, model.NewValidationError("persona_id は必須です")
	}
	if !noteType.Valid() {
		return nil, invalidTypeError()
	}
	content, err := s.cleanContent(content)
	if err != nil {
		return nil, err
	}

	if _, err := s.access.AuthorizePersona(ctx, userID, personaID); err != nil {
		return nil, err
	}

	note := &model.PersonaNote{
		ID:        uuid.New().String(),
		PersonaID: personaID,
		Type:      noteType,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("メモの作成に失敗しました: %w", err)
	}
	return note, nil
}

// List はペルソナのメモを作成日時の新しい順に返す。
func (s *Service) List(ctx context.Context, userID, personaID string) ([]*model.PersonaNote, error) {
	if personaID == "" {
		return nil, model.NewValidationError("persona_id は必須です")
	}
	if _, err := s.access.AuthorizePersona(ctx, userID, personaID); err != nil {
		return nil, err
	}

	notes, err := s.noteRepo.ListByPersonaID(ctx, personaID)
	if err != nil {
		return nil, fmt.Errorf("メモ一覧の取得に失敗しました: %w", err)
	}
	if notes == nil {
		notes = []*model.PersonaNote{}
	}
	return notes, nil
}

// Get はメモを返す。他ユーザーのペルソナのメモであればFORBIDDENを返す。
func (s *Service) Get(ctx context.Context, userID, noteID string) (*model.PersonaNote, error) {
	return s.authorizedNote(ctx, userID, noteID)
}

// Update はメモの種類と本文を更新する。nilの項目は変更しない。
func (s *Service) Update(ctx context.Context, userID, noteID string, noteType *model.NoteType, content *string) (*model.PersonaNote, error) {
	note, err := s.authorizedNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	if noteType != nil {
		if !noteType.Valid() {
			return nil, invalidTypeError()
		}
		note.Type = *noteType
	}
	if content != nil {
		cleaned, err := s.cleanContent(*content)
		if err != nil {
			return nil, err
		}
		note.Content = cleaned
	}

	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("メモの更新に失敗しました: %w", err)
	}
	return note, nil
}

// Delete はメモを削除する。
func (s *Service) Delete(ctx context.Context, userID, noteID string) error {
	if _, err := s.authorizedNote(ctx, userID, noteID); err != nil {
		return err
	}
	if err := s.noteRepo.Delete(ctx, noteID); err != nil {
		return fmt.Errorf("メモの削除に失敗しました: %w", err)
	}
	return nil
}

func (s *Service) authorizedNote(ctx context.Context, userID, noteID string) (*model.PersonaNote, error) {
	note, err := s.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("メモの取得に失敗しました: %w", err)
	}
	if note == nil {
		return nil, model.NewNoteNotFoundError(noteID)
	}
	if _, err := s.access.AuthorizePersona(ctx, userID, note.PersonaID); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *Service) cleanContent(content string) (string, error) {
	cleaned, err := s.sanitizer.Clean(content)
	if errors.Is(err, security.ErrMarkup) {
		return "", model.NewValidationError("content にHTMLタグは使用できません")
	}
	if err != nil {
		return "", fmt.Errorf("メモ本文の検査に失敗しました: %w", err)
	}
	if cleaned == "" {
		return "", model.NewValidationError("content は必須です")
	}
	if len([]rune(cleaned)) > MaxContentLength {
		return "", model.NewValidationError(fmt.Sprintf("content は%d文字以内で指定してください", MaxContentLength))
	}
	return cleaned, nil
}

func invalidTypeError() error {
	return model.NewValidationError("type は Memo、Question のいずれかを指定してください")
}
