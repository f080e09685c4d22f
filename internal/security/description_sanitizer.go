package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// DescriptionSanitizerService は記事説明文の整形機能のインターフェースを定義する。
// フィードのsummary/descriptionはHTML混じりで届くため、保存前に
// タグを除去してプレーンテキスト化し、最大長に切り詰める。
type DescriptionSanitizerService interface {
	// Clean はHTMLタグを除去し、maxLenルーンに切り詰めたテキストを返す。
	// 切り詰めはタグ除去の後に行う。同一入力に対して常に同一出力を返す。
	Clean(rawHTML string, maxLen int) string
}

// descriptionSanitizer はDescriptionSanitizerServiceの実装。
// bluemondayのStrictPolicy（全タグ除去）を保持し、スレッドセーフに動作する。
type descriptionSanitizer struct {
	policy *bluemonday.Policy
}

// NewDescriptionSanitizer はDescriptionSanitizerServiceの新しいインスタンスを生成する。
func NewDescriptionSanitizer() *descriptionSanitizer {
	return &descriptionSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Clean はHTMLタグを除去し、maxLenルーンに切り詰めたテキストを返す。
// StrictPolicyは実体参照をエスケープして返すため、除去後にアンエスケープして
// 表示用のプレーンテキストに戻す。maxLenが0以下の場合は切り詰めない。
func (s *descriptionSanitizer) Clean(rawHTML string, maxLen int) string {
	if rawHTML == "" {
		return ""
	}

	text := s.policy.Sanitize(rawHTML)
	text = html.UnescapeString(text)
	text = strings.TrimSpace(text)

	if maxLen > 0 {
		runes := []rune(text)
		if len(runes) > maxLen {
			text = string(runes[:maxLen])
		}
	}

	return text
}

// compile-time interface check
var _ DescriptionSanitizerService = (*descriptionSanitizer)(nil)
