// Package model はドメインモデルを定義する。
package model

import "time"

// GeoTag は記事に付与される地理情報を表す。
// キーワードテーブルの正規名と座標を保持する。
type GeoTag struct {
	Name string
	Lat  float64
	Lng  float64
}

// Article はフィードから取得した記事を表す。
// linkがストア全体での唯一の重複判定キーとなる。
type Article struct {
	ID          int64
	Title       string
	Description string // HTMLタグ除去・切り詰め済み
	Link        string
	Source      string
	Category    string
	PublishedAt *time.Time // フィードに日時がない場合はnil
	FetchedAt   time.Time
	Location    *GeoTag // 位置を解決できなかった場合はnil
}

// LocationAggregate は地球儀表示用のロケーション別集計を表す。
// 件数降順で返され、代表タイトルは最大5件に制限される。
type LocationAggregate struct {
	Name       string
	Lat        float64
	Lng        float64
	Count      int
	Titles     []string
	Categories []string
}

// Stats はダッシュボードの統計情報を表す。
// すべて鮮度ウィンドウ内の記事のみを対象とする。
type Stats struct {
	TotalArticles  int
	Categories     map[string]int
	SourcesCount   int
	LocationsCount int
}

// ArticleGroup は類似記事のグループを表す。
// mainが代表記事、relatedが同一事象を報じる他ソースの記事。
type ArticleGroup struct {
	Main    Article
	Related []Article
}
