// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer はユーザーが入力する自由記述（メモ、やり取りの要約、プロフィール）を検査する。
// bluemondayのStrictPolicyで除去される記述（タグ、コメントなど）を含む入力は拒否し、
// それ以外は書き換えずにそのまま保存できる形で返す。
package security

import (
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ErrMarkup は入力にHTMLとして解釈される記述が含まれることを表す。
var ErrMarkup = errors.New("text contains HTML markup")

// TextSanitizerService は自由記述テキストの検査機能のインターフェースを定義する。
type TextSanitizerService interface {
	// Clean は前後の空白を除いたテキストを返す。本文は書き換えない。
	// StrictPolicyで除去される記述を含む場合はErrMarkupを返す。
	Clean(raw string) (string, error)
}

// TextSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーはスレッドセーフなため、複数のgoroutineから共有できる。
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerの新しいインスタンスを生成する。
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Clean は前後の空白を除いたテキストを返す。
// StrictPolicyの出力と入力を文字実体参照を展開した上で比較し、
// 差分がある（何かが除去された）場合はErrMarkupを返す。
func (s *TextSanitizer) Clean(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", nil
	}
	if s.stripsContent(text) {
		return "", ErrMarkup
	}
	return text, nil
}

// CleanPtr はnilを許容するClean。nilの場合と、空白を除いて空になった場合はnilを返す。
func (s *TextSanitizer) CleanPtr(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	cleaned, err := s.Clean(*raw)
	if err != nil {
		return nil, err
	}
	if cleaned == "" {
		return nil, nil
	}
	return &cleaned, nil
}

// stripsContent はStrictPolicyがテキストの一部を除去するかどうかを返す。
// HTMLパーサーは改行をLFに正規化するため、比較前に入力側も揃える。
func (s *TextSanitizer) stripsContent(text string) bool {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	sanitized := s.policy.Sanitize(normalized)
	return html.UnescapeString(sanitized) != html.UnescapeString(normalized)
}
