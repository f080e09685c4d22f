// Package cluster は近似重複記事のグルーピングを提供する。
//
// 呼び出し側が鮮度降順で渡した記事列を左から右へ1回だけ走査する
// 貪欲法でグループを作る。大域最適なクラスタリングではなく、
// 推移的な類似（A~B, B~C だが A~C が閾値以下）は順序依存で解決される。
// この挙動は既存データとの互換のため意図的に維持する。
package cluster

import (
	"github.com/hitoshi/situmon/internal/model"
	"github.com/hitoshi/situmon/internal/similarity"
)

// DefaultThreshold はグループ判定に使うJaccard類似度の既定閾値。
const DefaultThreshold = 0.4

// Builder は記事列から類似グループを構築する。
// 状態を持たず、並行利用に対して安全。
type Builder struct {
	threshold float64
}

// NewBuilder は指定閾値のBuilderを生成する。
// thresholdが0以下の場合はDefaultThresholdを使用する。
func NewBuilder(threshold float64) *Builder {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Builder{threshold: threshold}
}

// Group は記事列を入力順に走査し、最大limit個のグループを返す。
//
// 各未消費記事をmainとして新しいグループを開き、それ以降の未消費記事の
// うちタイトル類似度が閾値を超えるものをrelatedへ移す。消費済みマーカーは
// この呼び出しに閉じたローカルなビット列で、呼び出し間で共有されない。
// limit到達後は新しいグループを開かない。最後のグループのrelated走査は
// 打ち切らず完了させるため、部分的なグループは生成されない。
// 計算量は候補数の2乗。呼び出し側は候補を事前に絞ること。
func (b *Builder) Group(articles []model.Article, limit int) []model.ArticleGroup {
	if limit <= 0 || len(articles) == 0 {
		return []model.ArticleGroup{}
	}

	consumed := make([]bool, len(articles))
	groups := make([]model.ArticleGroup, 0, limit)

	for i, article := range articles {
		if consumed[i] {
			continue
		}

		group := model.ArticleGroup{
			Main:    article,
			Related: []model.Article{},
		}

		for j := i + 1; j < len(articles); j++ {
			if consumed[j] {
				continue
			}
			if similarity.Score(article.Title, articles[j].Title) > b.threshold {
				group.Related = append(group.Related, articles[j])
				consumed[j] = true
			}
		}

		consumed[i] = true
		groups = append(groups, group)

		if len(groups) >= limit {
			break
		}
	}

	return groups
}
