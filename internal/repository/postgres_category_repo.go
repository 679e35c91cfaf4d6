package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anbu-app/anbu/internal/model"
)

// PostgresCategoryRepo はPostgreSQLを使用したカテゴリリポジトリ。
type PostgresCategoryRepo struct {
	db *sql.DB
}

// NewPostgresCategoryRepo はPostgresCategoryRepoを生成する。
func NewPostgresCategoryRepo(db *sql.DB) *PostgresCategoryRepo {
	return &PostgresCategoryRepo{db: db}
}

// FindByID は指定IDのカテゴリを取得する。見つからない場合はnilを返す。
func (r *PostgresCategoryRepo) FindByID(ctx context.Context, id string) (*model.Category, error) {
	if !isValidID(id) {
		return nil, nil
	}
	c := &model.Category{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at FROM categories WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("カテゴリの取得に失敗しました: %w", err)
	}
	return c, nil
}

// FindByUserAndName はユーザー内で名前が一致するカテゴリを検索する。見つからない場合はnilを返す。
func (r *PostgresCategoryRepo) FindByUserAndName(ctx context.Context, userID, name string) (*model.Category, error) {
	c := &model.Category{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at FROM categories WHERE user_id = $1 AND name = $2`,
		userID, name,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("カテゴリ名による検索に失敗しました: %w", err)
	}
	return c, nil
}

// ListByUserID はユーザーのカテゴリ一覧を作成日時の新しい順に返す。
func (r *PostgresCategoryRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, created_at
		 FROM categories WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		c := &model.Category{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("カテゴリ行の読み取りに失敗しました: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("カテゴリ一覧の走査に失敗しました: %w", err)
	}
	return categories, nil
}

// ListWithPersonasByUserID はユーザーのカテゴリを作成日時の古い順に、
// 所属ペルソナ（作成日時の古い順）付きで返す。ペルソナのないカテゴリも含む。
func (r *PostgresCategoryRepo) ListWithPersonasByUserID(ctx context.Context, userID string) ([]model.CategoryWithPersonas, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT
			c.id, c.user_id, c.name, c.created_at,
			p.id, p.name, p.importance_weight, p.relationship_temp, p.created_at
		 FROM categories c
		 LEFT JOIN personas p ON p.category_id = c.id
		 WHERE c.user_id = $1
		 ORDER BY c.created_at ASC, c.id ASC, p.created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("カテゴリとペルソナの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var results []model.CategoryWithPersonas
	for rows.Next() {
		var c model.Category
		var (
			personaID        sql.NullString
			personaName      sql.NullString
			importanceWeight sql.NullInt64
			relationshipTemp sql.NullFloat64
			personaCreatedAt sql.NullTime
		)
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Name, &c.CreatedAt,
			&personaID, &personaName, &importanceWeight, &relationshipTemp, &personaCreatedAt,
		); err != nil {
			return nil, fmt.Errorf("カテゴリ行の読み取りに失敗しました: %w", err)
		}

		// 直前と異なるカテゴリなら新しいグループを開始する
		if len(results) == 0 || results[len(results)-1].Category.ID != c.ID {
			results = append(results, model.CategoryWithPersonas{
				Category: c,
				Personas: []model.Persona{},
			})
		}

		if personaID.Valid {
			last := &results[len(results)-1]
			last.Personas = append(last.Personas, model.Persona{
				ID:               personaID.String,
				UserID:           c.UserID,
				CategoryID:       c.ID,
				Name:             personaName.String,
				ImportanceWeight: int(importanceWeight.Int64),
				RelationshipTemp: relationshipTemp.Float64,
				CreatedAt:        personaCreatedAt.Time,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("カテゴリとペルソナの走査に失敗しました: %w", err)
	}
	return results, nil
}

// Create はカテゴリを作成する。同名カテゴリが存在する場合はErrDuplicateを返す。
func (r *PostgresCategoryRepo) Create(ctx context.Context, c *model.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.UserID, c.Name, c.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("カテゴリの作成に失敗しました: %w", err)
	}
	return nil
}

// UpdateName はカテゴリ名を更新する。同名カテゴリが存在する場合はErrDuplicateを返す。
func (r *PostgresCategoryRepo) UpdateName(ctx context.Context, id, name string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = $2 WHERE id = $1`,
		id, name,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("カテゴリ名の更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("カテゴリが見つかりません: %s", id)
	}
	return nil
}

// Delete は指定IDのカテゴリを削除する。所属ペルソナはCASCADE削除される。
func (r *PostgresCategoryRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("カテゴリの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("カテゴリが見つかりません: %s", id)
	}
	return nil
}

// CountByUserID はユーザーのカテゴリ数を返す。
func (r *PostgresCategoryRepo) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("カテゴリ数の取得に失敗しました: %w", err)
	}
	return count, nil
}

var _ CategoryRepository = (*PostgresCategoryRepo)(nil)
