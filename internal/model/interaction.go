package model

import "time"

// InteractionType はやり取りの種類を表す。
type InteractionType string

const (
	InteractionTypeCall    InteractionType = "Call"
	InteractionTypeMessage InteractionType = "Message"
	InteractionTypeMeeting InteractionType = "Meeting"
	InteractionTypeNote    InteractionType = "Note"
)

// Valid は定義済みの種類かどうかを返す。
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionTypeCall, InteractionTypeMessage, InteractionTypeMeeting, InteractionTypeNote:
		return true
	default:
		return false
	}
}

// Direction はやり取りの方向を表す。
type Direction string

const (
	DirectionInbound  Direction = "Inbound"
	DirectionOutbound Direction = "Outbound"
)

// Valid は定義済みの方向かどうかを返す。
func (d Direction) Valid() bool {
	return d == DirectionInbound || d == DirectionOutbound
}

// InteractionLog はペルソナとのやり取り1件を表す。
// Durationは秒単位。SentimentScoreは-1.0から1.0の範囲。
type InteractionLog struct {
	ID             string
	PersonaID      string
	Type           InteractionType
	Direction      Direction
	Timestamp      time.Time
	Duration       *int
	SentimentScore *float64
	SummaryText    *string
	RawVectorID    *string
}

// InteractionFilter はやり取り一覧の絞り込み条件。
// Limitが0以下の場合はOffsetも無視する。
type InteractionFilter struct {
	PersonaID string
	Limit     int
	Offset    int
}

// ValidSentimentScore は感情スコアが許容範囲内かどうかを返す。
func ValidSentimentScore(s float64) bool {
	return s >= -1.0 && s <= 1.0
}

// NoteType はペルソナメモの種類を表す。
type NoteType string

const (
	NoteTypeMemo     NoteType = "Memo"
	NoteTypeQuestion NoteType = "Question"
)

// Valid は定義済みの種類かどうかを返す。
func (t NoteType) Valid() bool {
	return t == NoteTypeMemo || t == NoteTypeQuestion
}

// PersonaNote はペルソナに付けるメモや次回聞きたいことを表す。
type PersonaNote struct {
	ID        string
	PersonaID string
	Type      NoteType
	Content   string
	CreatedAt time.Time
}
