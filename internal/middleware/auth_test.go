package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anbu-app/anbu/internal/model"
)

type mockAuthenticator struct {
	authenticateFn func(ctx context.Context, token string) (string, error)
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, token string) (string, error) {
	return m.authenticateFn(ctx, token)
}

func TestAuthMiddleware_ValidToken_InjectsUserID(t *testing.T) {
	var gotToken string
	authenticator := &mockAuthenticator{
		authenticateFn: func(ctx context.Context, token string) (string, error) {
			gotToken = token
			return "user-123", nil
		},
	}

	var gotUserID string
	handler := NewAuthMiddleware(authenticator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "bearer  abc.def.ghi")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotToken != "abc.def.ghi" {
		t.Errorf("token = %q, want %q", gotToken, "abc.def.ghi")
	}
	if gotUserID != "user-123" {
		t.Errorf("user ID = %q, want %q", gotUserID, "user-123")
	}
}

func TestAuthMiddleware_MissingToken_Returns401(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "ヘッダーなし", header: ""},
		{name: "Basic認証", header: "Basic dXNlcjpwYXNz"},
		{name: "トークンが空", header: "Bearer   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authenticator := &mockAuthenticator{
				authenticateFn: func(ctx context.Context, token string) (string, error) {
					t.Fatal("Authenticate should not be called")
					return "", nil
				},
			}
			handler := NewAuthMiddleware(authenticator)(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
			var body ErrorResponseBody
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body.Code != model.ErrCodeUnauthorized {
				t.Errorf("code = %q, want %q", body.Code, model.ErrCodeUnauthorized)
			}
		})
	}
}

func TestAuthMiddleware_InvalidToken_Returns401(t *testing.T) {
	authenticator := &mockAuthenticator{
		authenticateFn: func(ctx context.Context, token string) (string, error) {
			return "", model.NewInvalidTokenError()
		},
	}
	handler := NewAuthMiddleware(authenticator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer expired")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Code != model.ErrCodeInvalidToken {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeInvalidToken)
	}
}

func TestAuthMiddleware_InternalError_Returns500(t *testing.T) {
	authenticator := &mockAuthenticator{
		authenticateFn: func(ctx context.Context, token string) (string, error) {
			return "", errors.New("db down")
		},
	}
	handler := NewAuthMiddleware(authenticator)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if strings.Contains(w.Body.String(), "db down") {
		t.Error("internal error details should not be exposed")
	}
}

func TestAuthMiddleware_UserIDVisibleToLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	authenticator := &mockAuthenticator{
		authenticateFn: func(ctx context.Context, token string) (string, error) {
			return "user-logged", nil
		},
	}
	handler := NewLoggingMiddleware(logger)(NewAuthMiddleware(authenticator)(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/api/personas", nil)
	req.Header.Set("Authorization", "Bearer token")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["user_id"] != "user-logged" {
		t.Errorf("user_id = %v, want %q", entry["user_id"], "user-logged")
	}
}

func TestContextWithUserID(t *testing.T) {
	ctx := ContextWithUserID(context.Background(), "user-ctx")
	got, err := UserIDFromContext(ctx)
	if err != nil {
		t.Fatalf("UserIDFromContext() error = %v", err)
	}
	if got != "user-ctx" {
		t.Errorf("UserIDFromContext() = %q, want %q", got, "user-ctx")
	}

	if _, err := UserIDFromContext(context.Background()); err == nil {
		t.Error("expected error for empty context")
	}
}
