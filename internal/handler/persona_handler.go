package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/anbu-app/anbu/internal/model"
	"github.com/anbu-app/anbu/internal/persona"
	"github.com/go-chi/chi/v5"
)

// PersonaServiceInterface はペルソナハンドラーが必要とするサービスインターフェース。
type PersonaServiceInterface interface {
	Create(ctx context.Context, userID string, in persona.CreateInput) (*model.Persona, error)
	List(ctx context.Context, userID string) ([]*model.Persona, error)
	Get(ctx context.Context, userID, personaID string) (*model.Persona, error)
	Update(ctx context.Context, userID, personaID string, in persona.UpdateInput) (*model.Persona, error)
	Delete(ctx context.Context, userID, personaID string) error
	GetProfile(ctx context.Context, userID, personaID string) (*model.PersonaProfile, error)
	UpdateProfile(ctx context.Context, userID, personaID string, in persona.ProfileInput) (*model.PersonaProfile, error)
	GetDetail(ctx context.Context, userID, personaID string) (*persona.Detail, error)
}

// PersonaHandler はペルソナ管理のHTTPハンドラー。
type PersonaHandler struct {
	service PersonaServiceInterface
}

// NewPersonaHandler はPersonaHandlerを生成する。
func NewPersonaHandler(service PersonaServiceInterface) *PersonaHandler {
	return &PersonaHandler{
		service: service,
	}
}

// personaRequest はペルソナ作成・更新リクエストのボディ。
// 更新時は指定されたフィールドだけを変更する。
type personaRequest struct {
	CategoryID       *string  `json:"category_id"`
	Name             *string  `json:"name"`
	PhoneNumber      *string  `json:"phone_number"`
	BirthDate        *string  `json:"birth_date"`
	AnniversaryDate  *string  `json:"anniversary_date"`
	ImportanceWeight *int     `json:"importance_weight"`
	RelationshipTemp *float64 `json:"relationship_temp"`
}

// profileRequest はプロファイル更新リクエストのボディ。
type profileRequest struct {
	Character          *string `json:"character"`
	CommunicationStyle *string `json:"communication_style"`
	SensitiveTopics    *string `json:"sensitive_topics"`
}

// validate は型だけでは表現できない範囲を検証し、日付を解析する。
func (req *personaRequest) validate() (birth, anniversary *time.Time, err error) {
	if req.ImportanceWeight != nil && !model.ValidImportanceWeight(*req.ImportanceWeight) {
		return nil, nil, model.NewValidationError("importance_weightは0から100の範囲で指定してください")
	}
	if req.RelationshipTemp != nil && !model.ValidRelationshipTemp(*req.RelationshipTemp) {
		return nil, nil, model.NewValidationError("relationship_tempは0.0から100.0の範囲で指定してください")
	}
	if birth, err = parseDate("birth_date", req.BirthDate); err != nil {
		return nil, nil, err
	}
	if anniversary, err = parseDate("anniversary_date", req.AnniversaryDate); err != nil {
		return nil, nil, err
	}
	return birth, anniversary, nil
}

// Create はペルソナを作成する。
// POST /api/personas
func (h *PersonaHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req personaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == nil || req.CategoryID == nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("nameとcategory_idは必須です"))
		return
	}
	birth, anniversary, err := req.validate()
	if err != nil {
		handleServiceError(w, err)
		return
	}

	p, err := h.service.Create(r.Context(), userID, persona.CreateInput{
		CategoryID:       *req.CategoryID,
		Name:             *req.Name,
		PhoneNumber:      req.PhoneNumber,
		BirthDate:        birth,
		AnniversaryDate:  anniversary,
		ImportanceWeight: req.ImportanceWeight,
		RelationshipTemp: req.RelationshipTemp,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPersonaResponse(p))
}

// List はユーザーのペルソナ一覧を新しい順に返す。
// GET /api/personas
func (h *PersonaHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	personas, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPersonaResponses(personas))
}

// Get はペルソナを1件返す。
// GET /api/personas/{id}
func (h *PersonaHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	p, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPersonaResponse(p))
}

// Update はペルソナを部分更新する。
// PUT /api/personas/{id}
func (h *PersonaHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req personaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	birth, anniversary, err := req.validate()
	if err != nil {
		handleServiceError(w, err)
		return
	}

	p, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), persona.UpdateInput{
		CategoryID:       req.CategoryID,
		Name:             req.Name,
		PhoneNumber:      req.PhoneNumber,
		BirthDate:        birth,
		AnniversaryDate:  anniversary,
		ImportanceWeight: req.ImportanceWeight,
		RelationshipTemp: req.RelationshipTemp,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPersonaResponse(p))
}

// Delete はペルソナを削除する。
// DELETE /api/personas/{id}
func (h *PersonaHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// Detail はペルソナ詳細（プロファイル、直近のやり取り記録、メモ）を返す。
// GET /api/personas/{id}/detail
func (h *PersonaHandler) Detail(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	detail, err := h.service.GetDetail(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, personaDetailResponse{
		personaResponse: toPersonaResponse(detail.Persona),
		Profile:         toProfileResponse(detail.Profile),
		InteractionLogs: toInteractionLogResponses(detail.InteractionLogs),
		Notes:           toNoteResponses(detail.Notes),
	})
}

// GetProfile はペルソナのプロファイルを返す。
// GET /api/personas/{id}/profile
func (h *PersonaHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

// UpdateProfile はペルソナのプロファイルを作成または更新する。
// PUT /api/personas/{id}/profile
func (h *PersonaHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req profileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, chi.URLParam(r, "id"), persona.ProfileInput{
		Character:          req.Character,
		CommunicationStyle: req.CommunicationStyle,
		SensitiveTopics:    req.SensitiveTopics,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}
