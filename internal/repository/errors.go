package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrDuplicate は一意制約違反を表す。
var ErrDuplicate = errors.New("duplicate key")

// uniqueViolation はPostgreSQLの一意制約違反のSQLSTATE。
const uniqueViolation = "23505"

// isUniqueViolation はエラーが一意制約違反かどうかを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// isValidID はidがPostgresのUUID列に渡せる形式（ハイフン区切り36文字）かどうかを返す。
// 形式が異なるidは検索せず未検出として扱う。
func isValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// limitOffset はLIMIT/OFFSET句のパラメータを返す。
// limitが0以下の場合はLIMIT ALL相当（NULL）としoffsetも0にする。
func limitOffset(limit, offset int) (any, int) {
	if limit <= 0 {
		return nil, 0
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
