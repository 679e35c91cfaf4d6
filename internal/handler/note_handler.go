package handler

import (
	"context"
	"net/http"

	"github.com/anbu-app/anbu/internal/model"
	"github.com/go-chi/chi/v5"
)

// NoteServiceInterface はメモハンドラーが必要とするサービスインターフェース。
type NoteServiceInterface interface {
	Create(ctx context.Context, userID, personaID string, noteType model.NoteType, content string) (*model.PersonaNote, error)
	List(ctx context.Context, userID, personaID string) ([]*model.PersonaNote, error)
	Get(ctx context.Context, userID, noteID string) (*model.PersonaNote, error)
	Update(ctx context.Context, userID, noteID string, noteType *model.NoteType, content *string) (*model.PersonaNote, error)
	Delete(ctx context.Context, userID, noteID string) error
}

// NoteHandler はペルソナメモのHTTPハンドラー。
type NoteHandler struct {
	service NoteServiceInterface
}

// NewNoteHandler はNoteHandlerを生成する。
func NewNoteHandler(service NoteServiceInterface) *NoteHandler {
	return &NoteHandler{
		service: service,
	}
}

// noteRequest はメモの作成・更新リクエストのボディ。
type noteRequest struct {
	PersonaID *string `json:"persona_id"`
	Type      *string `json:"type"`
	Content   *string `json:"content"`
}

// Create はメモを作成する。typeを省略した場合はMemoとして扱う。
// POST /api/persona-notes
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PersonaID == nil || req.Content == nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("persona_idとcontentは必須です"))
		return
	}

	noteType := model.NoteTypeMemo
	if req.Type != nil {
		noteType = model.NoteType(*req.Type)
	}

	note, err := h.service.Create(r.Context(), userID, *req.PersonaID, noteType, *req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toNoteResponse(note))
}

// List はペルソナのメモ一覧を新しい順に返す。
// GET /api/persona-notes?persona_id=
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	notes, err := h.service.List(r.Context(), userID, r.URL.Query().Get("persona_id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponses(notes))
}

// Get はメモを1件返す。
// GET /api/persona-notes/{id}
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	note, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(note))
}

// Update はメモの種類と内容を部分更新する。
// PUT /api/persona-notes/{id}
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var noteType *model.NoteType
	if req.Type != nil {
		t := model.NoteType(*req.Type)
		noteType = &t
	}

	note, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), noteType, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(note))
}

// Delete はメモを削除する。
// DELETE /api/persona-notes/{id}
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
