// Package similarity はタイトル間の字句的類似度を計算する。
//
// 正規化したトークン集合のJaccard係数を類似度とする。
// 異なるソースが同一事象を報じた記事の近似重複判定に使用される。
package similarity

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// stopwords は正規化時に除去する機能語の集合。
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "of": {}, "and": {}, "is": {}, "are": {},
	"was": {}, "were": {},
}

// Normalize はタイトルを比較用のトークン集合に変換する。
// 小文字化し、文字・数字・アンダースコア・空白以外を除去、空白で分割、
// ストップワードと長さ2以下のトークンを落とす。
// 非ASCII文字（CJK・アクセント付きラテン文字など）もトークンとして保持する。
func Normalize(title string) map[string]struct{} {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	tokens := make(map[string]struct{})
	for _, w := range strings.Fields(b.String()) {
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		if _, ok := stopwords[w]; ok {
			continue
		}
		tokens[w] = struct{}{}
	}
	return tokens
}

// Score は2つのタイトルのJaccard類似度を[0,1]で返す。
// どちらかのトークン集合が空の場合は0を返す（エラーではない）。
func Score(titleA, titleB string) float64 {
	setA := Normalize(titleA)
	setB := Normalize(titleB)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
