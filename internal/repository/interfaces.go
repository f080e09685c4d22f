// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/situmon/internal/model"
)

// ArticleFilter は記事一覧取得の条件を表す。
// Cutoffは鮮度ウィンドウの下限で、常に指定される。
type ArticleFilter struct {
	Cutoff   time.Time
	Category string // 空なら条件なし
	Source   string // 空なら条件なし
	Search   string // タイトル・説明文の部分一致。空なら条件なし
	Limit    int
}

// ArticleRepository は記事データの永続化インターフェース。
// linkのUNIQUE制約が重複排除と並行実行時の正しさを担保する。
type ArticleRepository interface {
	// InsertIfAbsent はlinkが未登録の場合のみ記事を挿入する。
	// 挿入された場合はtrueを返しart.IDを設定する。
	// 既存linkの場合はfalseを返す（エラーではない）。
	InsertIfAbsent(ctx context.Context, art *model.Article) (bool, error)

	// List は条件に一致する記事をfetched_at降順で返す。
	List(ctx context.Context, filter ArticleFilter) ([]model.Article, error)

	// ListSources は鮮度ウィンドウ内に存在するソース名をアルファベット順で返す。
	ListSources(ctx context.Context, cutoff time.Time) ([]string, error)

	// AggregateByLocation はロケーション別の記事集計を件数降順で返す。
	// 各集計の代表タイトルはtitleLimit件に制限される。
	AggregateByLocation(ctx context.Context, cutoff time.Time, titleLimit int) ([]model.LocationAggregate, error)

	// ListBreaking はcutoffより後にフェッチされた記事を新しい順にlimit件返す。
	ListBreaking(ctx context.Context, cutoff time.Time, limit int) ([]model.Article, error)

	// Stats は鮮度ウィンドウ内の統計情報を返す。
	Stats(ctx context.Context, cutoff time.Time) (*model.Stats, error)
}
