package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anbu-app/anbu/internal/model"
)

const interactionColumns = `l.id, l.persona_id, l.type, l.direction, l.timestamp,
	l.duration, l.sentiment_score, l.summary_text, l.raw_vector_id`

// PostgresInteractionLogRepo はPostgreSQLを使用したやり取り記録リポジトリ。
type PostgresInteractionLogRepo struct {
	db *sql.DB
}

// NewPostgresInteractionLogRepo はPostgresInteractionLogRepoを生成する。
func NewPostgresInteractionLogRepo(db *sql.DB) *PostgresInteractionLogRepo {
	return &PostgresInteractionLogRepo{db: db}
}

func scanInteractionLog(row interface{ Scan(...any) error }) (*model.InteractionLog, error) {
	l := &model.InteractionLog{}
	var logType, direction string
	err := row.Scan(
		&l.ID, &l.PersonaID, &logType, &direction, &l.Timestamp,
		&l.Duration, &l.SentimentScore, &l.SummaryText, &l.RawVectorID,
	)
	if err != nil {
		return nil, err
	}
	l.Type = model.InteractionType(logType)
	l.Direction = model.Direction(direction)
	return l, nil
}

func (r *PostgresInteractionLogRepo) queryList(ctx context.Context, query string, args ...any) ([]*model.InteractionLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("やり取り記録一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var logs []*model.InteractionLog
	for rows.Next() {
		l, err := scanInteractionLog(rows)
		if err != nil {
			return nil, fmt.Errorf("やり取り記録行の読み取りに失敗しました: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("やり取り記録一覧の走査に失敗しました: %w", err)
	}
	return logs, nil
}

// FindByID は指定IDの記録を取得する。見つからない場合はnilを返す。
func (r *PostgresInteractionLogRepo) FindByID(ctx context.Context, id string) (*model.InteractionLog, error) {
	if !isValidID(id) {
		return nil, nil
	}
	l, err := scanInteractionLog(r.db.QueryRowContext(ctx,
		`SELECT `+interactionColumns+` FROM interaction_logs l WHERE l.id = $1`,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("やり取り記録の取得に失敗しました: %w", err)
	}
	return l, nil
}

// ListByPersonaID はペルソナの記録をtimestampの新しい順に返す。
// limitが0以下の場合は全件を返し、offsetは無視する。
func (r *PostgresInteractionLogRepo) ListByPersonaID(ctx context.Context, personaID string, limit, offset int) ([]*model.InteractionLog, error) {
	lim, off := limitOffset(limit, offset)
	return r.queryList(ctx,
		`SELECT `+interactionColumns+`
		 FROM interaction_logs l
		 WHERE l.persona_id = $1
		 ORDER BY l.timestamp DESC
		 LIMIT $2 OFFSET $3`,
		personaID, lim, off,
	)
}

// ListByUserID はユーザーの全ペルソナの記録をtimestampの新しい順に返す。
// limitが0以下の場合は全件を返し、offsetは無視する。
func (r *PostgresInteractionLogRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*model.InteractionLog, error) {
	lim, off := limitOffset(limit, offset)
	return r.queryList(ctx,
		`SELECT `+interactionColumns+`
		 FROM interaction_logs l
		 JOIN personas p ON p.id = l.persona_id
		 WHERE p.user_id = $1
		 ORDER BY l.timestamp DESC
		 LIMIT $2 OFFSET $3`,
		userID, lim, off,
	)
}

// Create は記録を作成する。
func (r *PostgresInteractionLogRepo) Create(ctx context.Context, l *model.InteractionLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO interaction_logs
			(id, persona_id, type, direction, timestamp, duration, sentiment_score, summary_text, raw_vector_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		l.ID, l.PersonaID, string(l.Type), string(l.Direction), l.Timestamp,
		l.Duration, l.SentimentScore, l.SummaryText, l.RawVectorID,
	)
	if err != nil {
		return fmt.Errorf("やり取り記録の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は記録の全項目を更新する。persona_idは変更しない。
func (r *PostgresInteractionLogRepo) Update(ctx context.Context, l *model.InteractionLog) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE interaction_logs
		 SET type = $2, direction = $3, timestamp = $4, duration = $5,
		     sentiment_score = $6, summary_text = $7, raw_vector_id = $8
		 WHERE id = $1`,
		l.ID, string(l.Type), string(l.Direction), l.Timestamp, l.Duration,
		l.SentimentScore, l.SummaryText, l.RawVectorID,
	)
	if err != nil {
		return fmt.Errorf("やり取り記録の更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("やり取り記録が見つかりません: %s", l.ID)
	}
	return nil
}

// Delete は指定IDの記録を削除する。
func (r *PostgresInteractionLogRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM interaction_logs WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("やり取り記録の削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("やり取り記録が見つかりません: %s", id)
	}
	return nil
}

var _ InteractionLogRepository = (*PostgresInteractionLogRepo)(nil)
