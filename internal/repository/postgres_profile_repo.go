package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anbu-app/anbu/internal/model"
)

// PostgresPersonaProfileRepo はPostgreSQLを使用したペルソナプロフィールリポジトリ。
type PostgresPersonaProfileRepo struct {
	db *sql.DB
}

// NewPostgresPersonaProfileRepo はPostgresPersonaProfileRepoを生成する。
func NewPostgresPersonaProfileRepo(db *sql.DB) *PostgresPersonaProfileRepo {
	return &PostgresPersonaProfileRepo{db: db}
}

// FindByPersonaID はペルソナのプロフィールを取得する。見つからない場合はnilを返す。
func (r *PostgresPersonaProfileRepo) FindByPersonaID(ctx context.Context, personaID string) (*model.PersonaProfile, error) {
	if !isValidID(personaID) {
		return nil, nil
	}
	p := &model.PersonaProfile{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, persona_id, character, communication_style, sensitive_topics
		 FROM persona_profiles WHERE persona_id = $1`,
		personaID,
	).Scan(&p.ID, &p.PersonaID, &p.Character, &p.CommunicationStyle, &p.SensitiveTopics)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}
	return p, nil
}

// Upsert はプロフィールを作成または更新する。
// 既存行がある場合はIDを維持したまま内容を置き換え、profile.IDを既存のIDで上書きする。
func (r *PostgresPersonaProfileRepo) Upsert(ctx context.Context, p *model.PersonaProfile) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO persona_profiles (id, persona_id, character, communication_style, sensitive_topics)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (persona_id) DO UPDATE
		 SET character = EXCLUDED.character,
		     communication_style = EXCLUDED.communication_style,
		     sensitive_topics = EXCLUDED.sensitive_topics
		 RETURNING id`,
		p.ID, p.PersonaID, p.Character, p.CommunicationStyle, p.SensitiveTopics,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("プロフィールの保存に失敗しました: %w", err)
	}
	return nil
}

var _ PersonaProfileRepository = (*PostgresPersonaProfileRepo)(nil)
