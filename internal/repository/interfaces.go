// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/anbu-app/anbu/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByEmailOrOAuthID はメールアドレスまたはOAuth IDが一致するユーザーを検索する。
	// ソーシャルログイン時の既存ユーザー判定に使用する。見つからない場合はnilを返す。
	FindByEmailOrOAuthID(ctx context.Context, email, oauthID string) (*model.User, error)

	// Create はユーザーを作成する。メールアドレスが重複する場合はErrDuplicateを返す。
	Create(ctx context.Context, user *model.User) error

	// Update はユーザーの認証方式・プロフィール画像・タイムゾーンを更新する。
	Update(ctx context.Context, user *model.User) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 所有するcategories、personasと、その配下のデータはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// CategoryRepository はカテゴリデータの永続化インターフェース。
type CategoryRepository interface {
	// FindByID は指定IDのカテゴリを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Category, error)

	// FindByUserAndName はユーザー内で名前が一致するカテゴリを検索する。見つからない場合はnilを返す。
	FindByUserAndName(ctx context.Context, userID, name string) (*model.Category, error)

	// ListByUserID はユーザーのカテゴリ一覧を作成日時の新しい順に返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Category, error)

	// ListWithPersonasByUserID はユーザーのカテゴリを作成日時の古い順に、
	// 所属ペルソナ（作成日時の古い順）付きで返す。
	ListWithPersonasByUserID(ctx context.Context, userID string) ([]model.CategoryWithPersonas, error)

	// Create はカテゴリを作成する。同名カテゴリが存在する場合はErrDuplicateを返す。
	Create(ctx context.Context, category *model.Category) error

	// UpdateName はカテゴリ名を更新する。同名カテゴリが存在する場合はErrDuplicateを返す。
	UpdateName(ctx context.Context, id, name string) error

	// Delete は指定IDのカテゴリを削除する。所属ペルソナはCASCADE削除される。
	Delete(ctx context.Context, id string) error

	// CountByUserID はユーザーのカテゴリ数を返す。
	CountByUserID(ctx context.Context, userID string) (int, error)
}

// PersonaRepository はペルソナデータの永続化インターフェース。
type PersonaRepository interface {
	// FindByID は指定IDのペルソナを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Persona, error)

	// ListByUserID はユーザーのペルソナ一覧を作成日時の新しい順に返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Persona, error)

	// Create はペルソナを作成する。
	Create(ctx context.Context, persona *model.Persona) error

	// Update はペルソナの全項目を更新する。
	Update(ctx context.Context, persona *model.Persona) error

	// Delete は指定IDのペルソナを削除する。
	// interaction_logs、persona_notes、persona_profiles、notification_logsはCASCADE削除される。
	Delete(ctx context.Context, id string) error
}

// PersonaProfileRepository はペルソナプロフィールの永続化インターフェース。
type PersonaProfileRepository interface {
	// FindByPersonaID はペルソナのプロフィールを取得する。見つからない場合はnilを返す。
	FindByPersonaID(ctx context.Context, personaID string) (*model.PersonaProfile, error)

	// Upsert はプロフィールを作成または更新する。persona_idで一意。
	Upsert(ctx context.Context, profile *model.PersonaProfile) error
}

// InteractionLogRepository はやり取り記録の永続化インターフェース。
type InteractionLogRepository interface {
	// FindByID は指定IDの記録を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.InteractionLog, error)

	// ListByPersonaID はペルソナの記録をtimestampの新しい順に返す。
	ListByPersonaID(ctx context.Context, personaID string, limit, offset int) ([]*model.InteractionLog, error)

	// ListByUserID はユーザーの全ペルソナの記録をtimestampの新しい順に返す。
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*model.InteractionLog, error)

	// Create は記録を作成する。
	Create(ctx context.Context, log *model.InteractionLog) error

	// Update は記録の全項目を更新する。
	Update(ctx context.Context, log *model.InteractionLog) error

	// Delete は指定IDの記録を削除する。
	Delete(ctx context.Context, id string) error
}

// PersonaNoteRepository はペルソナメモの永続化インターフェース。
type PersonaNoteRepository interface {
	// FindByID は指定IDのメモを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.PersonaNote, error)

	// ListByPersonaID はペルソナのメモを作成日時の新しい順に返す。
	ListByPersonaID(ctx context.Context, personaID string) ([]*model.PersonaNote, error)

	// Create はメモを作成する。
	Create(ctx context.Context, note *model.PersonaNote) error

	// Update はメモの種類と内容を更新する。
	Update(ctx context.Context, note *model.PersonaNote) error

	// Delete は指定IDのメモを削除する。
	Delete(ctx context.Context, id string) error
}
