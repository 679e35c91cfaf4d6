package handler

import (
	"context"
	"net/http"

	"github.com/anbu-app/anbu/internal/radar"
)

// RadarServiceInterface はレーダーハンドラーが必要とするサービスインターフェース。
type RadarServiceInterface interface {
	GetForUser(ctx context.Context, userID string) (*radar.Result, error)
}

// RadarHandler は関係温度レーダーのHTTPハンドラー。
type RadarHandler struct {
	service RadarServiceInterface
}

// NewRadarHandler はRadarHandlerを生成する。
func NewRadarHandler(service RadarServiceInterface) *RadarHandler {
	return &RadarHandler{
		service: service,
	}
}

type radarPersonaResponse struct {
	Name string `json:"name"`
}

type radarCategoryResponse struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Score        float64                `json:"score"`
	PersonaCount int                    `json:"persona_count"`
	Personas     []radarPersonaResponse `json:"personas"`
	Color        string                 `json:"color"`
}

// radarResponse はレーダーチャートのレスポンス。空の配列はnullではなく[]として返す。
type radarResponse struct {
	Categories   []radarCategoryResponse `json:"categories"`
	OverallScore float64                 `json:"overall_score"`
}

// Get はログイン中のユーザーのレーダー集計を返す。
// GET /api/radar
func (h *RadarHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	result, err := h.service.GetForUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRadarResponse(result))
}

func toRadarResponse(result *radar.Result) radarResponse {
	resp := radarResponse{
		Categories:   make([]radarCategoryResponse, 0, len(result.Categories)),
		OverallScore: result.OverallScore,
	}
	for _, c := range result.Categories {
		personas := make([]radarPersonaResponse, 0, len(c.Personas))
		for _, p := range c.Personas {
			personas = append(personas, radarPersonaResponse{Name: p.Name})
		}
		resp.Categories = append(resp.Categories, radarCategoryResponse{
			ID:           c.ID,
			Name:         c.Name,
			Score:        c.Score,
			PersonaCount: c.PersonaCount,
			Personas:     personas,
			Color:        c.Color,
		})
	}
	return resp
}
