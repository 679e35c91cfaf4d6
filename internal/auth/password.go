package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// bcryptMaxInputBytes はbcryptが扱える入力の最大バイト数。
// これを超える部分はbcryptに無視されるため、超過時はSHA-256の16進ダイジェストに置き換える。
const bcryptMaxInputBytes = 72

// PasswordHasher はbcryptによるパスワードのハッシュ化と検証を行う。
// 状態を持たないため、複数のgoroutineから同時に使用できる。
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher はPasswordHasherを生成する。
// costがbcryptの許容範囲外の場合はbcrypt.DefaultCostを使用する。
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

var defaultHasher = NewPasswordHasher(bcrypt.DefaultCost)

// HashPassword はデフォルトコストでパスワードをハッシュ化する。
func HashPassword(plain string) (string, error) {
	return defaultHasher.Hash(plain)
}

// VerifyPassword はパスワードがハッシュと一致するかを返す。
// ハッシュが壊れている場合もfalseを返す。
func VerifyPassword(plain, hash string) bool {
	return defaultHasher.Verify(plain, hash)
}

// Hash はパスワードをハッシュ化する。呼び出しごとに新しいソルトを使用する。
func (h *PasswordHasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(prehash(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify はパスワードがハッシュと一致するかを返す。
// 不一致とハッシュ形式の不正は区別しない。
func (h *PasswordHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(plain)) == nil
}

// prehash はパスワードをbcryptに渡すバイト列に変換する。
// UTF-8で72バイトを超える場合は64文字の16進SHA-256ダイジェストを返す。
func prehash(plain string) []byte {
	b := []byte(plain)
	if len(b) <= bcryptMaxInputBytes {
		return b
	}
	sum := sha256.Sum256(b)
	return []byte(hex.EncodeToString(sum[:]))
}
