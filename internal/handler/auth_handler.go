// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"net/http"

	"github.com/anbu-app/anbu/internal/auth"
	"github.com/anbu-app/anbu/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, email, password, timezone string) (*auth.Result, error)
	Login(ctx context.Context, email, password string) (*auth.Result, error)
	SocialLogin(ctx context.Context, in auth.SocialLoginInput) (*auth.Result, error)
}

// AuthHandler は登録・ログインのHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

// registerRequest はユーザー登録リクエストのボディ。
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Timezone string `json:"timezone"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// socialLoginRequest はソーシャルログインリクエストのボディ。
type socialLoginRequest struct {
	Email        string  `json:"email"`
	Provider     string  `json:"provider"`
	OAuthID      string  `json:"oauth_id"`
	ProfileImage *string `json:"profile_image"`
	Timezone     string  `json:"timezone"`
}

// Register はメールアドレスとパスワードでユーザーを登録する。
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("emailとpasswordは必須です"))
		return
	}

	result, err := h.service.Register(r.Context(), req.Email, req.Password, req.Timezone)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTokenResponse(result))
}

// Login はメールアドレスとパスワードでログインする。
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("emailとpasswordは必須です"))
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTokenResponse(result))
}

// SocialLogin はソーシャルアカウントでログインする。未登録の場合はユーザーを作成する。
// POST /api/auth/social
func (h *AuthHandler) SocialLogin(w http.ResponseWriter, r *http.Request) {
	var req socialLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Email == "" || req.OAuthID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("emailとoauth_idは必須です"))
		return
	}

	result, err := h.service.SocialLogin(r.Context(), auth.SocialLoginInput{
		Email:        req.Email,
		Provider:     model.OAuthProvider(req.Provider),
		OAuthID:      req.OAuthID,
		ProfileImage: req.ProfileImage,
		Timezone:     req.Timezone,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTokenResponse(result))
}

func toTokenResponse(result *auth.Result) tokenResponse {
	return tokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		User:        toUserResponse(result.User),
	}
}
