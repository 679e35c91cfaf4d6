// Package auth はパスワード認証、ソーシャルログイン、アクセストークンの発行と検証を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anbu-app/anbu/internal/model"
	"github.com/anbu-app/anbu/internal/repository"
	"github.com/google/uuid"
)

// EventRecorder は認証イベントの記録先。metrics.Collectorが実装する。
type EventRecorder interface {
	RecordAuthEvent(event, result string)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	DefaultTimezone string // 新規ユーザーのタイムゾーン未指定時の値
}

// Result はログイン成功時に返すトークンとユーザー情報。
type Result struct {
	AccessToken string
	TokenType   string
	User        *model.User
}

// SocialLoginInput はソーシャルログインの入力値。
// OAuthIDはプロバイダ側のユーザーIDで、クライアントがプロバイダから取得したものをそのまま受け取る。
type SocialLoginInput struct {
	Email        string
	Provider     model.OAuthProvider
	OAuthID      string
	ProfileImage *string
	Timezone     string
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	hasher   *PasswordHasher
	tokens   *TokenManager
	events   EventRecorder
	config   ServiceConfig
}

// NewService はServiceを生成する。eventsはnilでもよい。
func NewService(
	userRepo repository.UserRepository,
	hasher *PasswordHasher,
	tokens *TokenManager,
	events EventRecorder,
	config ServiceConfig,
) *Service {
	if config.DefaultTimezone == "" {
		config.DefaultTimezone = model.DefaultTimezone
	}
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		events:   events,
		config:   config,
	}
}

// Register はメールアドレスとパスワードでユーザーを登録し、アクセストークンを発行する。
func (s *Service) Register(ctx context.Context, email, password, timezone string) (*Result, error) {
	email = normalizeEmail(email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if existing != nil {
		s.record("register", "duplicate")
		return nil, model.NewEmailAlreadyExistsError()
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:            uuid.New().String(),
		Email:         email,
		PasswordHash:  &hash,
		OAuthProvider: model.OAuthProviderEmail,
		Timezone:      s.timezoneOrDefault(timezone),
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.record("register", "duplicate")
			return nil, model.NewEmailAlreadyExistsError()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
		slog.String("provider", string(user.OAuthProvider)),
	)
	s.record("register", "success")

	return s.issue(user)
}

// Login はメールアドレスとパスワードで認証し、アクセストークンを発行する。
// 未登録のメールアドレスと誤ったパスワードは同じエラーを返す。
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		s.record("login", "invalid_credentials")
		return nil, model.NewInvalidCredentialsError()
	}

	if !user.HasPassword() {
		s.record("login", "social_account")
		return nil, model.NewSocialAccountError()
	}

	if !s.hasher.Verify(password, *user.PasswordHash) {
		s.record("login", "invalid_credentials")
		return nil, model.NewInvalidCredentialsError()
	}

	s.record("login", "success")
	return s.issue(user)
}

// SocialLogin はソーシャルアカウントでログインする。
// メールアドレスまたはOAuth IDが一致するユーザーがいれば認証方式を更新し、
// いなければパスワードなしのユーザーを作成する。
func (s *Service) SocialLogin(ctx context.Context, in SocialLoginInput) (*Result, error) {
	if !in.Provider.IsSocial() {
		return nil, model.NewValidationError("oauth_provider は kakao、google、apple のいずれかを指定してください")
	}
	email := normalizeEmail(in.Email)
	oauthID := in.OAuthID

	user, err := s.userRepo.FindByEmailOrOAuthID(ctx, email, oauthID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user for social login: %w", err)
	}

	if user != nil {
		if err := s.linkSocialAccount(ctx, user, in); err != nil {
			return nil, err
		}
	} else {
		user = &model.User{
			ID:            uuid.New().String(),
			Email:         email,
			OAuthProvider: in.Provider,
			OAuthID:       &oauthID,
			ProfileImage:  in.ProfileImage,
			Timezone:      s.timezoneOrDefault(in.Timezone),
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			if !errors.Is(err, repository.ErrDuplicate) {
				return nil, fmt.Errorf("failed to create user: %w", err)
			}
			// 同じアカウントの初回ログインが並行した場合、先に作成されたユーザーでログインさせる
			user, err = s.userRepo.FindByEmailOrOAuthID(ctx, email, oauthID)
			if err != nil {
				return nil, fmt.Errorf("failed to find user after duplicate insert: %w", err)
			}
			if user == nil {
				s.record("social_login", "duplicate")
				return nil, model.NewEmailAlreadyExistsError()
			}
			if err := s.linkSocialAccount(ctx, user, in); err != nil {
				return nil, err
			}
		} else {
			slog.Info("new user created",
				slog.String("user_id", user.ID),
				slog.String("provider", string(in.Provider)),
			)
		}
	}

	s.record("social_login", "success")
	return s.issue(user)
}

// linkSocialAccount は既存ユーザーにソーシャルアカウントの情報を反映して保存する。
// プロフィール画像は指定された場合のみ上書きする。
func (s *Service) linkSocialAccount(ctx context.Context, user *model.User, in SocialLoginInput) error {
	oauthID := in.OAuthID
	user.OAuthProvider = in.Provider
	user.OAuthID = &oauthID
	if in.ProfileImage != nil && *in.ProfileImage != "" {
		user.ProfileImage = in.ProfileImage
	}
	user.Timezone = s.timezoneOrDefault(in.Timezone)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	slog.Info("existing user logged in",
		slog.String("user_id", user.ID),
		slog.String("provider", string(in.Provider)),
	)
	return nil
}

// Authenticate はアクセストークンを検証し、存在するユーザーのIDを返す。
// トークンが無効な場合、subがない場合、ユーザーが削除済みの場合はInvalidTokenエラーを返す。
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	userID, err := s.tokens.SubjectFromToken(token)
	if err != nil {
		s.record("authenticate", "invalid_token")
		return "", model.NewInvalidTokenError()
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		s.record("authenticate", "unknown_user")
		return "", model.NewInvalidTokenError()
	}

	return user.ID, nil
}

func (s *Service) issue(user *model.User) (*Result, error) {
	token, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	return &Result{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		User:        user,
	}, nil
}

func (s *Service) timezoneOrDefault(tz string) string {
	if tz == "" {
		return s.config.DefaultTimezone
	}
	return tz
}

func (s *Service) record(event, result string) {
	if s.events != nil {
		s.events.RecordAuthEvent(event, result)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
