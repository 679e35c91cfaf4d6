package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anbu-app/anbu/internal/model"
)

const personaColumns = `id, user_id, category_id, name, phone_number, birth_date, anniversary_date,
	importance_weight, relationship_temp, created_at`

// PostgresPersonaRepo はPostgreSQLを使用したペルソナリポジトリ。
type PostgresPersonaRepo struct {
	db *sql.DB
}

// NewPostgresPersonaRepo はPostgresPersonaRepoを生成する。
func NewPostgresPersonaRepo(db *sql.DB) *PostgresPersonaRepo {
	return &PostgresPersonaRepo{db: db}
}

func scanPersona(row interface{ Scan(...any) error }) (*model.Persona, error) {
	p := &model.Persona{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.CategoryID, &p.Name, &p.PhoneNumber,
		&p.BirthDate, &p.AnniversaryDate,
		&p.ImportanceWeight, &p.RelationshipTemp, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindByID は指定IDのペルソナを取得する。見つからない場合はnilを返す。
func (r *PostgresPersonaRepo) FindByID(ctx context.Context, id string) (*model.Persona, error) {
	if !isValidID(id) {
		return nil, nil
	}
	p, err := scanPersona(r.db.QueryRowContext(ctx,
		`SELECT `+personaColumns+` FROM personas WHERE id = $1`,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ペルソナの取得に失敗しました: %w", err)
	}
	return p, nil
}

// ListByUserID はユーザーのペルソナ一覧を作成日時の新しい順に返す。
func (r *PostgresPersonaRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Persona, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+personaColumns+` FROM personas WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ペルソナ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var personas []*model.Persona
	for rows.Next() {
		p, err := scanPersona(rows)
		if err != nil {
			return nil, fmt.Errorf("ペルソナ行の読み取りに失敗しました: %w", err)
		}
		personas = append(personas, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ペルソナ一覧の走査に失敗しました: %w", err)
	}
	return personas, nil
}

// Create はペルソナを作成する。
func (r *PostgresPersonaRepo) Create(ctx context.Context, p *model.Persona) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO personas (`+personaColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.UserID, p.CategoryID, p.Name, p.PhoneNumber,
		p.BirthDate, p.AnniversaryDate,
		p.ImportanceWeight, p.RelationshipTemp, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("ペルソナの作成に失敗しました: %w", err)
	}
	return nil
}

// Update はペルソナの全項目を更新する。
func (r *PostgresPersonaRepo) Update(ctx context.Context, p *model.Persona) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE personas
		 SET category_id = $2, name = $3, phone_number = $4, birth_date = $5,
		     anniversary_date = $6, importance_weight = $7, relationship_temp = $8
		 WHERE id = $1`,
		p.ID, p.CategoryID, p.Name, p.PhoneNumber, p.BirthDate,
		p.AnniversaryDate, p.ImportanceWeight, p.RelationshipTemp,
	)
	if err != nil {
		return fmt.Errorf("ペルソナの更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("ペルソナが見つかりません: %s", p.ID)
	}
	return nil
}

// Delete は指定IDのペルソナを削除する。
func (r *PostgresPersonaRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM personas WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("ペルソナの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("ペルソナが見つかりません: %s", id)
	}
	return nil
}

var _ PersonaRepository = (*PostgresPersonaRepo)(nil)
