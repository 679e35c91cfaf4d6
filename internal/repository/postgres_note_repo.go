package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anbu-app/anbu/internal/model"
)

// PostgresPersonaNoteRepo はPostgreSQLを使用したペルソナメモリポジトリ。
type PostgresPersonaNoteRepo struct {
	db *sql.DB
}

// NewPostgresPersonaNoteRepo はPostgresPersonaNoteRepoを生成する。
func NewPostgresPersonaNoteRepo(db *sql.DB) *PostgresPersonaNoteRepo {
	return &PostgresPersonaNoteRepo{db: db}
}

// FindByID は指定IDのメモを取得する。見つからない場合はnilを返す。
func (r *PostgresPersonaNoteRepo) FindByID(ctx context.Context, id string) (*model.PersonaNote, error) {
	if !isValidID(id) {
		return nil, nil
	}
	n := &model.PersonaNote{}
	var noteType string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, persona_id, type, content, created_at FROM persona_notes WHERE id = $1`,
		id,
	).Scan(&n.ID, &n.PersonaID, &noteType, &n.Content, &n.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("メモの取得に失敗しました: %w", err)
	}
	n.Type = model.NoteType(noteType)
	return n, nil
}

// ListByPersonaID はペルソナのメモを作成日時の新しい順に返す。
func (r *PostgresPersonaNoteRepo) ListByPersonaID(ctx context.Context, personaID string) ([]*model.PersonaNote, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, persona_id, type, content, created_at
		 FROM persona_notes WHERE persona_id = $1 ORDER BY created_at DESC`,
		personaID,
	)
	if err != nil {
		return nil, fmt.Errorf("メモ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var notes []*model.PersonaNote
	for rows.Next() {
		n := &model.PersonaNote{}
		var noteType string
		if err := rows.Scan(&n.ID, &n.PersonaID, &noteType, &n.Content, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("メモ行の読み取りに失敗しました: %w", err)
		}
		n.Type = model.NoteType(noteType)
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("メモ一覧の走査に失敗しました: %w", err)
	}
	return notes, nil
}

// Create はメモを作成する。
func (r *PostgresPersonaNoteRepo) Create(ctx context.Context, n *model.PersonaNote) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO persona_notes (id, persona_id, type, content, created_at) VALUES ($1, $2, $3, $4, $5)`,
		n.ID, n.PersonaID, string(n.Type), n.Content, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("メモの作成に失敗しました: %w", err)
	}
	return nil
}

// Update はメモの種類と内容を更新する。
func (r *PostgresPersonaNoteRepo) Update(ctx context.Context, n *model.PersonaNote) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE persona_notes SET type = $2, content = $3 WHERE id = $1`,
		n.ID, string(n.Type), n.Content,
	)
	if err != nil {
		return fmt.Errorf("メモの更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("メモが見つかりません: %s", n.ID)
	}
	return nil
}

// Delete は指定IDのメモを削除する。
func (r *PostgresPersonaNoteRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM persona_notes WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("メモの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("メモが見つかりません: %s", id)
	}
	return nil
}

var _ PersonaNoteRepository = (*PostgresPersonaNoteRepo)(nil)
