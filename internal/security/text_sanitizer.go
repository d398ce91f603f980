package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer はNotionのテキストからHTMLを取り除き、プレーンテキストにする。
// フロントエンドはinnerHTMLでカードを描画するため、タイトルとコピー文に適用する。
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はすべてのタグを除去するポリシーでTextSanitizerを生成する。
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize はタグを除去したテキストを返す。
// 結果はHTMLエスケープ済みのままで、innerHTMLにそのまま挿入できる。
// 実体参照で書かれたタグも文字列として残り、要素にはならない。
func (s *TextSanitizer) Sanitize(text string) string {
	if text == "" {
		return ""
	}
	return strings.TrimSpace(s.policy.Sanitize(text))
}
