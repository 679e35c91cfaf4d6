package handler

import (
	"time"

	"github.com/anbu-app/anbu/internal/model"
)

// dateLayout は誕生日・記念日のJSON表現。
const dateLayout = "2006-01-02"

// userResponse はユーザー情報のAPIレスポンス。パスワードハッシュは含めない。
type userResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	OAuthProvider string    `json:"oauth_provider"`
	ProfileImage  *string   `json:"profile_image"`
	Timezone      string    `json:"timezone"`
	CreatedAt     time.Time `json:"created_at"`
}

// tokenResponse は登録・ログイン成功時のレスポンス。
type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        userResponse `json:"user"`
}

// categoryResponse はカテゴリ情報のAPIレスポンス。
type categoryResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// personaResponse はペルソナ情報のAPIレスポンス。
type personaResponse struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	CategoryID       string    `json:"category_id"`
	Name             string    `json:"name"`
	PhoneNumber      *string   `json:"phone_number"`
	BirthDate        *string   `json:"birth_date"`
	AnniversaryDate  *string   `json:"anniversary_date"`
	ImportanceWeight int       `json:"importance_weight"`
	RelationshipTemp float64   `json:"relationship_temp"`
	CreatedAt        time.Time `json:"created_at"`
}

// profileResponse はペルソナプロファイルのAPIレスポンス。
type profileResponse struct {
	ID                 string  `json:"id"`
	PersonaID          string  `json:"persona_id"`
	Character          *string `json:"character"`
	CommunicationStyle *string `json:"communication_style"`
	SensitiveTopics    *string `json:"sensitive_topics"`
}

// interactionLogResponse はやり取り記録のAPIレスポンス。
type interactionLogResponse struct {
	ID             string    `json:"id"`
	PersonaID      string    `json:"persona_id"`
	Type           string    `json:"type"`
	Direction      string    `json:"direction"`
	Timestamp      time.Time `json:"timestamp"`
	Duration       *int      `json:"duration"`
	SentimentScore *float64  `json:"sentiment_score"`
	SummaryText    *string   `json:"summary_text"`
	RawVectorID    *string   `json:"raw_vector_id"`
}

// noteResponse はペルソナメモのAPIレスポンス。
type noteResponse struct {
	ID        string    `json:"id"`
	PersonaID string    `json:"persona_id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// personaDetailResponse はペルソナ詳細画面用のレスポンス。
type personaDetailResponse struct {
	personaResponse
	Profile         *profileResponse         `json:"profile"`
	InteractionLogs []interactionLogResponse `json:"interaction_logs"`
	Notes           []noteResponse           `json:"notes"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Email:         u.Email,
		OAuthProvider: string(u.OAuthProvider),
		ProfileImage:  u.ProfileImage,
		Timezone:      u.Timezone,
		CreatedAt:     u.CreatedAt,
	}
}

func toCategoryResponse(c *model.Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}

func toCategoryResponses(categories []*model.Category) []categoryResponse {
	resp := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, toCategoryResponse(c))
	}
	return resp
}

func toPersonaResponse(p *model.Persona) personaResponse {
	return personaResponse{
		ID:               p.ID,
		UserID:           p.UserID,
		CategoryID:       p.CategoryID,
		Name:             p.Name,
		PhoneNumber:      p.PhoneNumber,
		BirthDate:        formatDate(p.BirthDate),
		AnniversaryDate:  formatDate(p.AnniversaryDate),
		ImportanceWeight: p.ImportanceWeight,
		RelationshipTemp: p.RelationshipTemp,
		CreatedAt:        p.CreatedAt,
	}
}

func toPersonaResponses(personas []*model.Persona) []personaResponse {
	resp := make([]personaResponse, 0, len(personas))
	for _, p := range personas {
		resp = append(resp, toPersonaResponse(p))
	}
	return resp
}

func toProfileResponse(p *model.PersonaProfile) *profileResponse {
	if p == nil {
		return nil
	}
	return &profileResponse{
		ID:                 p.ID,
		PersonaID:          p.PersonaID,
		Character:          p.Character,
		CommunicationStyle: p.CommunicationStyle,
		SensitiveTopics:    p.SensitiveTopics,
	}
}

func toInteractionLogResponse(l *model.InteractionLog) interactionLogResponse {
	return interactionLogResponse{
		ID:             l.ID,
		PersonaID:      l.PersonaID,
		Type:           string(l.Type),
		Direction:      string(l.Direction),
		Timestamp:      l.Timestamp,
		Duration:       l.Duration,
		SentimentScore: l.SentimentScore,
		SummaryText:    l.SummaryText,
		RawVectorID:    l.RawVectorID,
	}
}

func toInteractionLogResponses(logs []*model.InteractionLog) []interactionLogResponse {
	resp := make([]interactionLogResponse, 0, len(logs))
	for _, l := range logs {
		resp = append(resp, toInteractionLogResponse(l))
	}
	return resp
}

func toNoteResponse(n *model.PersonaNote) noteResponse {
	return noteResponse{
		ID:        n.ID,
		PersonaID: n.PersonaID,
		Type:      string(n.Type),
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
	}
}

func toNoteResponses(notes []*model.PersonaNote) []noteResponse {
	resp := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		resp = append(resp, toNoteResponse(n))
	}
	return resp
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// parseDate はYYYY-MM-DD形式の日付を解析する。nilまたは空文字はnilを返す。
func parseDate(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, model.NewValidationError(field + "はYYYY-MM-DD形式で指定してください")
	}
	return &t, nil
}
