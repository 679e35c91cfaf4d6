package auth

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL はアクセストークンの既定の有効期間。
const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenTypeBearer はトークンレスポンスのtoken_type。
const TokenTypeBearer = "bearer"

// ErrInvalidToken はトークンが検証できないことを表す。
// 期限切れ・署名不一致・形式不正を区別しない。
var ErrInvalidToken = errors.New("invalid token")

// TokenManager はHS256で署名したJWTの発行と検証を行う。
type TokenManager struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

// NewTokenManager はTokenManagerを生成する。
// defaultTTLが0以下の場合はDefaultTokenTTLを使用する。
func NewTokenManager(secret string, defaultTTL time.Duration) *TokenManager {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}
	return &TokenManager{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// CreateToken はclaimsにexpを付与して署名したトークンを返す。
// ttlが0の場合は既定の有効期間を使う。負のttlは発行時点で期限切れのトークンになる。
// 引数のclaimsは変更しない。
func (m *TokenManager) CreateToken(claims map[string]any, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = m.defaultTTL
	}

	mc := jwt.MapClaims{}
	maps.Copy(mc, claims)
	mc["exp"] = m.now().Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// DecodeToken は署名と有効期限を検証し、claimsを返す。
// 検証に失敗した場合は常にErrInvalidTokenを返す。
func (m *TokenManager) DecodeToken(tokenString string) (map[string]any, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return map[string]any(claims), nil
}

// IssueAccessToken はユーザーIDをsubに持つアクセストークンを既定の有効期間で発行する。
func (m *TokenManager) IssueAccessToken(userID string) (string, error) {
	return m.CreateToken(map[string]any{"sub": userID}, 0)
}

// SubjectFromToken はトークンを検証してsubクレームを返す。
// subが存在しない、または文字列でない場合もErrInvalidTokenを返す。
func (m *TokenManager) SubjectFromToken(tokenString string) (string, error) {
	claims, err := m.DecodeToken(tokenString)
	if err != nil {
		return "", err
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
