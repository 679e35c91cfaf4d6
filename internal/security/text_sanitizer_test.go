package security

import (
	"errors"
	"testing"
)

// TestClean_KeepsPlainTextVerbatim はプレーンテキストが書き換えられずに返ることを検証する。
func TestClean_KeepsPlainTextVerbatim(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "プレーンテキストはそのまま",
			input: "次回は誕生日について聞く",
			want:  "次回は誕生日について聞く",
		},
		{
			name:  "空白を挟んだ不等号",
			input: "a < b かつ b > c",
			want:  "a < b かつ b > c",
		},
		{
			name:  "数字が続く小なり記号",
			input: "I <3 you",
			want:  "I <3 you",
		},
		{
			name:  "大なり記号のみ",
			input: "5 > 3",
			want:  "5 > 3",
		},
		{
			name:  "アンパサンドは元の文字のまま",
			input: "Tom & Jerry",
			want:  "Tom & Jerry",
		},
		{
			name:  "文字実体参照も入力のまま",
			input: "Tom &amp; Jerry",
			want:  "Tom &amp; Jerry",
		},
		{
			name:  "引用符は元の文字のまま",
			input: `"また会おう" と言っていた`,
			want:  `"また会おう" と言っていた`,
		},
		{
			name:  "CRLFの改行",
			input: "1行目\r\n2行目",
			want:  "1行目\r\n2行目",
		},
		{
			name:  "前後の空白を除去",
			input: "  メモ  ",
			want:  "メモ",
		},
		{
			name:  "空文字列",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sanitizer.Clean(tt.input)
			if err != nil {
				t.Fatalf("Clean(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestClean_RejectsTextThatWouldBeStripped は一部が除去されてしまう入力を切り詰めずに拒否することを検証する。
func TestClean_RejectsTextThatWouldBeStripped(t *testing.T) {
	sanitizer := NewTextSanitizer()

	inputs := []string{
		"if a<b then",
		"x<y and y>z",
		"<strong>大事</strong>な話",
		"こんにちは<script>alert('xss')</script>",
		`<img src="x" onerror="alert(1)">写真`,
		"メモ<!-- コメント -->",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			got, err := sanitizer.Clean(input)
			if !errors.Is(err, ErrMarkup) {
				t.Errorf("Clean(%q) error = %v, want ErrMarkup", input, err)
			}
			if got != "" {
				t.Errorf("Clean(%q) = %q, want empty on rejection", input, got)
			}
		})
	}
}

func TestCleanPtr(t *testing.T) {
	sanitizer := NewTextSanitizer()

	if got, err := sanitizer.CleanPtr(nil); got != nil || err != nil {
		t.Errorf("CleanPtr(nil) = (%v, %v), want (nil, nil)", got, err)
	}

	blank := "   "
	if got, err := sanitizer.CleanPtr(&blank); got != nil || err != nil {
		t.Errorf("CleanPtr(%q) = (%v, %v), want (nil, nil)", blank, got, err)
	}

	text := " 穏やか "
	got, err := sanitizer.CleanPtr(&text)
	if err != nil {
		t.Fatalf("CleanPtr(%q) returned error: %v", text, err)
	}
	if got == nil || *got != "穏やか" {
		t.Errorf("CleanPtr(%q) = %v, want %q", text, got, "穏やか")
	}

	markup := "<em>穏やか</em>"
	if _, err := sanitizer.CleanPtr(&markup); !errors.Is(err, ErrMarkup) {
		t.Errorf("CleanPtr(%q) error = %v, want ErrMarkup", markup, err)
	}
}

var _ TextSanitizerService = (*TextSanitizer)(nil)
