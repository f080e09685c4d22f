// Package geo は記事テキストからのロケーション抽出を提供する。
//
// キーワードテーブルを定義順に走査し、最初に部分一致したキーワードの
// 地理情報を返す。スコアリングや複数マッチの解決は行わない。
// 部分一致は意図的に緩く（"trunk"が"uk"にマッチしうる）、
// 再現性のために先勝ちの順序を厳密に維持する。
package geo

import (
	"strings"

	"github.com/hitoshi/situmon/internal/model"
)

// Resolver は記事タイトルと本文からGeoTagを解決する。
// 状態を持たず、並行利用に対して安全。
type Resolver struct{}

// NewResolver はResolverを生成する。
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve はタイトルと説明文を連結・小文字化し、キーワードテーブルを
// 定義順に走査して最初に部分一致したキーワードのGeoTagを返す。
// マッチしない場合はnilを返す。
func (r *Resolver) Resolve(title, description string) *model.GeoTag {
	text := strings.ToLower(title + " " + description)

	for _, kw := range keywords {
		if strings.Contains(text, kw.Key) {
			tag := kw.Tag
			return &tag
		}
	}

	return nil
}

// ResolveKey はキーワードを直接引いてGeoTagを返す。
// フィードソースのデフォルトロケーションの解決に使用する。
// 部分一致は行わず、小文字化したキーの完全一致のみ。
func (r *Resolver) ResolveKey(key string) *model.GeoTag {
	if key == "" {
		return nil
	}
	lower := strings.ToLower(key)
	for _, kw := range keywords {
		if kw.Key == lower {
			tag := kw.Tag
			return &tag
		}
	}
	return nil
}
