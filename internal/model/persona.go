package model

import "time"

// 重要度・関係温度の範囲と初期値
const (
	MinImportanceWeight     = 0
	MaxImportanceWeight     = 100
	DefaultImportanceWeight = 50

	MinRelationshipTemp     = 0.0
	MaxRelationshipTemp     = 100.0
	DefaultRelationshipTemp = 50.0
)

// Category はペルソナをまとめるユーザー定義のグループ（家族、職場など）を表す。
// 名前はユーザー内で一意。
type Category struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
}

// Persona はユーザーが管理する連絡先（人間関係）を表す。
// 必ず1つのカテゴリと1人のユーザーに属し、カテゴリも同じユーザーが所有する。
type Persona struct {
	ID               string
	UserID           string
	CategoryID       string
	Name             string
	PhoneNumber      *string
	BirthDate        *time.Time
	AnniversaryDate  *time.Time
	ImportanceWeight int
	RelationshipTemp float64
	CreatedAt        time.Time
}

// PersonaProfile はペルソナの性格やコミュニケーション傾向のメモを表す。
// ペルソナごとに最大1件。
type PersonaProfile struct {
	ID                 string
	PersonaID          string
	Character          *string
	CommunicationStyle *string
	SensitiveTopics    *string
}

// CategoryWithPersonas はレーダー集計用にカテゴリと所属ペルソナをまとめたもの。
type CategoryWithPersonas struct {
	Category Category
	Personas []Persona
}

// ValidImportanceWeight は重要度が許容範囲内かどうかを返す。
func ValidImportanceWeight(w int) bool {
	return w >= MinImportanceWeight && w <= MaxImportanceWeight
}

// ValidRelationshipTemp は関係温度が許容範囲内かどうかを返す。
func ValidRelationshipTemp(t float64) bool {
	return t >= MinRelationshipTemp && t <= MaxRelationshipTemp
}
