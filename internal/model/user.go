package model

import "time"

// DefaultTimezone はユーザー作成時に指定がない場合のタイムゾーン。
const DefaultTimezone = "Asia/Seoul"

// OAuthProvider はユーザーの認証方式を表す。
type OAuthProvider string

const (
	// OAuthProviderEmail はメールアドレスとパスワードによる認証。
	OAuthProviderEmail OAuthProvider = "email"
	// OAuthProviderKakao はKakaoアカウントによるソーシャルログイン。
	OAuthProviderKakao OAuthProvider = "kakao"
	// OAuthProviderGoogle はGoogleアカウントによるソーシャルログイン。
	OAuthProviderGoogle OAuthProvider = "google"
	// OAuthProviderApple はApple IDによるソーシャルログイン。
	OAuthProviderApple OAuthProvider = "apple"
)

// IsSocial はソーシャルログイン用のプロバイダかどうかを返す。
func (p OAuthProvider) IsSocial() bool {
	switch p {
	case OAuthProviderKakao, OAuthProviderGoogle, OAuthProviderApple:
		return true
	default:
		return false
	}
}

// User はサービス利用ユーザーを表す。
// ソーシャルログインのみのユーザーはPasswordHashを持たない。
type User struct {
	ID            string
	Email         string
	PasswordHash  *string
	OAuthProvider OAuthProvider
	OAuthID       *string
	ProfileImage  *string
	Timezone      string
	CreatedAt     time.Time
}

// HasPassword はパスワードログインが可能なユーザーかどうかを返す。
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
