package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/anbu-app/anbu/internal/interaction"
	"github.com/anbu-app/anbu/internal/model"
	"github.com/go-chi/chi/v5"
)

// InteractionServiceInterface はやり取り記録ハンドラーが必要とするサービスインターフェース。
type InteractionServiceInterface interface {
	Create(ctx context.Context, userID string, in interaction.CreateInput) (*model.InteractionLog, error)
	List(ctx context.Context, userID string, filter model.InteractionFilter) ([]*model.InteractionLog, error)
	Get(ctx context.Context, userID, logID string) (*model.InteractionLog, error)
	Update(ctx context.Context, userID, logID string, in interaction.UpdateInput) (*model.InteractionLog, error)
	Delete(ctx context.Context, userID, logID string) error
}

// InteractionHandler はやり取り記録のHTTPハンドラー。
type InteractionHandler struct {
	service InteractionServiceInterface
}

// NewInteractionHandler はInteractionHandlerを生成する。
func NewInteractionHandler(service InteractionServiceInterface) *InteractionHandler {
	return &InteractionHandler{
		service: service,
	}
}

// interactionLogRequest はやり取り記録の作成・更新リクエストのボディ。
// timestampはRFC 3339形式。
type interactionLogRequest struct {
	PersonaID      *string    `json:"persona_id"`
	Type           *string    `json:"type"`
	Direction      *string    `json:"direction"`
	Timestamp      *time.Time `json:"timestamp"`
	Duration       *int       `json:"duration"`
	SentimentScore *float64   `json:"sentiment_score"`
	SummaryText    *string    `json:"summary_text"`
	RawVectorID    *string    `json:"raw_vector_id"`
}

// Create はやり取り記録を作成する。
// POST /api/interaction-logs
func (h *InteractionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req interactionLogRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PersonaID == nil || req.Type == nil || req.Direction == nil || req.Timestamp == nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("persona_id、type、direction、timestampは必須です"))
		return
	}

	log, err := h.service.Create(r.Context(), userID, interaction.CreateInput{
		PersonaID:      *req.PersonaID,
		Type:           model.InteractionType(*req.Type),
		Direction:      model.Direction(*req.Direction),
		Timestamp:      *req.Timestamp,
		Duration:       req.Duration,
		SentimentScore: req.SentimentScore,
		SummaryText:    req.SummaryText,
		RawVectorID:    req.RawVectorID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toInteractionLogResponse(log))
}

// List はやり取り記録の一覧をtimestampの新しい順に返す。
// GET /api/interaction-logs?persona_id=&limit=&offset=
func (h *InteractionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	filter, err := parseInteractionFilter(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logs, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toInteractionLogResponses(logs))
}

// Get はやり取り記録を1件返す。
// GET /api/interaction-logs/{id}
func (h *InteractionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	log, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toInteractionLogResponse(log))
}

// Update はやり取り記録を部分更新する。persona_idは変更できない。
// PUT /api/interaction-logs/{id}
func (h *InteractionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req interactionLogRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in := interaction.UpdateInput{
		Timestamp:      req.Timestamp,
		Duration:       req.Duration,
		SentimentScore: req.SentimentScore,
		SummaryText:    req.SummaryText,
		RawVectorID:    req.RawVectorID,
	}
	if req.Type != nil {
		t := model.InteractionType(*req.Type)
		in.Type = &t
	}
	if req.Direction != nil {
		d := model.Direction(*req.Direction)
		in.Direction = &d
	}

	log, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toInteractionLogResponse(log))
}

// Delete はやり取り記録を削除する。
// DELETE /api/interaction-logs/{id}
func (h *InteractionHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// parseInteractionFilter はクエリパラメータから絞り込み条件を組み立てる。
// limitとoffsetは0以上の整数のみ受け付ける。
func parseInteractionFilter(r *http.Request) (model.InteractionFilter, error) {
	q := r.URL.Query()
	filter := model.InteractionFilter{PersonaID: q.Get("persona_id")}

	var err error
	if filter.Limit, err = parseNonNegativeInt(q.Get("limit"), "limit"); err != nil {
		return filter, err
	}
	if filter.Offset, err = parseNonNegativeInt(q.Get("offset"), "offset"); err != nil {
		return filter, err
	}
	return filter, nil
}

func parseNonNegativeInt(raw, field string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, model.NewValidationError(field + "は0以上の整数で指定してください")
	}
	return v, nil
}
