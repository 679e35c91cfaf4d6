package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anbu-app/anbu/internal/access"
	"github.com/anbu-app/anbu/internal/category"
	"github.com/anbu-app/anbu/internal/interaction"
	"github.com/anbu-app/anbu/internal/model"
	"github.com/anbu-app/anbu/internal/note"
	"github.com/anbu-app/anbu/internal/persona"
	"github.com/anbu-app/anbu/internal/repository"
	"github.com/anbu-app/anbu/internal/security"
)

// TestMalformedID_ReturnsNotFound はUUID形式でないidがDBに渡らず404になることを検証する。
// リポジトリはDB接続なし（nil）で生成しているため、問い合わせが発生すればパニックする。
func TestMalformedID_ReturnsNotFound(t *testing.T) {
	categoryRepo := repository.NewPostgresCategoryRepo(nil)
	personaRepo := repository.NewPostgresPersonaRepo(nil)
	profileRepo := repository.NewPostgresPersonaProfileRepo(nil)
	logRepo := repository.NewPostgresInteractionLogRepo(nil)
	noteRepo := repository.NewPostgresPersonaNoteRepo(nil)
	checker := access.NewChecker(categoryRepo, personaRepo)
	sanitizer := security.NewTextSanitizer()

	categories := NewCategoryHandler(category.NewService(categoryRepo, checker))
	personas := NewPersonaHandler(persona.NewService(personaRepo, profileRepo, logRepo, noteRepo, checker, sanitizer))
	interactions := NewInteractionHandler(interaction.NewService(logRepo, checker, sanitizer))
	notes := NewNoteHandler(note.NewService(noteRepo, checker, sanitizer))

	tests := []struct {
		name     string
		handler  http.HandlerFunc
		target   string
		idParam  string
		wantCode string
	}{
		{"category get", categories.Get, "/api/categories/abc", "abc", model.ErrCodeCategoryNotFound},
		{"persona get", personas.Get, "/api/personas/abc", "abc", model.ErrCodePersonaNotFound},
		{"persona detail", personas.Detail, "/api/personas/abc/detail", "abc", model.ErrCodePersonaNotFound},
		{"persona profile", personas.GetProfile, "/api/personas/abc/profile", "abc", model.ErrCodePersonaNotFound},
		{"interaction get", interactions.Get, "/api/interaction-logs/abc", "abc", model.ErrCodeInteractionNotFound},
		{"interaction list by persona", interactions.List, "/api/interaction-logs?persona_id=abc", "", model.ErrCodePersonaNotFound},
		{"note get", notes.Get, "/api/persona-notes/1", "1", model.ErrCodeNoteNotFound},
		{"note list by persona", notes.List, "/api/persona-notes?persona_id=abc", "", model.ErrCodePersonaNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.idParam != "" {
				req = withChiURLParam(req, "id", tt.idParam)
			}
			req = withUserID(req, "6f1c2a3e-8d4b-4c5a-9e7f-0a1b2c3d4e5f")
			w := httptest.NewRecorder()

			tt.handler(w, req)

			assertStatus(t, w, http.StatusNotFound)
			assertErrorCode(t, w, tt.wantCode)
		})
	}
}
