// Package query は記事の読み取りビューを提供する。
// すべての読み取りはfetched_atの鮮度ウィンドウで暗黙にフィルタされる。
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/situmon/internal/cluster"
	"github.com/hitoshi/situmon/internal/model"
	"github.com/hitoshi/situmon/internal/repository"
)

const (
	// defaultListLimit はlimit未指定時の記事一覧件数。
	defaultListLimit = 100

	// globeTitleLimit はロケーション集計の代表タイトル上限。
	globeTitleLimit = 5

	// breakingLimit は速報ビューの件数上限。
	breakingLimit = 10
)

// ListParams は記事一覧の検索条件。ゼロ値はフィルタなしを意味する。
type ListParams struct {
	Category string
	Source   string
	Search   string
	Limit    int
}

// ArticleQueryService は集約済み読み取りビューのインターフェース。
type ArticleQueryService interface {
	List(ctx context.Context, params ListParams) ([]model.Article, error)
	Sources(ctx context.Context) ([]string, error)
	GlobeData(ctx context.Context) ([]model.LocationAggregate, error)
	Breaking(ctx context.Context) ([]model.Article, error)
	Stats(ctx context.Context) (*model.Stats, error)
	Grouped(ctx context.Context, params ListParams) ([]model.ArticleGroup, error)
}

// Service はリポジトリとクラスタリングを組み合わせた読み取りサービス。
type Service struct {
	repo           repository.ArticleRepository
	grouper        *cluster.Builder
	retention      time.Duration
	breakingWindow time.Duration
	now            func() time.Time
}

// NewService はServiceを生成する。
func NewService(
	repo repository.ArticleRepository,
	grouper *cluster.Builder,
	retention time.Duration,
	breakingWindow time.Duration,
) *Service {
	return &Service{
		repo:           repo,
		grouper:        grouper,
		retention:      retention,
		breakingWindow: breakingWindow,
		now:            time.Now,
	}
}

// cutoff は鮮度ウィンドウの下限を返す。
func (s *Service) cutoff() time.Time {
	return s.now().UTC().Add(-s.retention)
}

// List は条件に一致する記事をfetched_at降順で返す。
func (s *Service) List(ctx context.Context, params ListParams) ([]model.Article, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	articles, err := s.repo.List(ctx, repository.ArticleFilter{
		Cutoff:   s.cutoff(),
		Category: params.Category,
		Source:   params.Source,
		Search:   params.Search,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("記事一覧の取得に失敗しました: %w", err)
	}

	return articles, nil
}

// Sources は鮮度ウィンドウ内のソース名をアルファベット順で返す。
func (s *Service) Sources(ctx context.Context) ([]string, error) {
	sources, err := s.repo.ListSources(ctx, s.cutoff())
	if err != nil {
		return nil, fmt.Errorf("ソース一覧の取得に失敗しました: %w", err)
	}
	return sources, nil
}

// GlobeData はロケーション別の集計を件数降順で返す。
func (s *Service) GlobeData(ctx context.Context) ([]model.LocationAggregate, error) {
	aggs, err := s.repo.AggregateByLocation(ctx, s.cutoff(), globeTitleLimit)
	if err != nil {
		return nil, fmt.Errorf("ロケーション集計の取得に失敗しました: %w", err)
	}
	return aggs, nil
}

// Breaking は速報ウィンドウ内の記事を新しい順に返す。
// ウィンドウ境界ちょうどの記事は含まれない。
func (s *Service) Breaking(ctx context.Context) ([]model.Article, error) {
	cutoff := s.now().UTC().Add(-s.breakingWindow)

	articles, err := s.repo.ListBreaking(ctx, cutoff, breakingLimit)
	if err != nil {
		return nil, fmt.Errorf("速報一覧の取得に失敗しました: %w", err)
	}

	return articles, nil
}

// Stats は鮮度ウィンドウ内の統計情報を返す。
func (s *Service) Stats(ctx context.Context) (*model.Stats, error) {
	stats, err := s.repo.Stats(ctx, s.cutoff())
	if err != nil {
		return nil, fmt.Errorf("統計情報の取得に失敗しました: %w", err)
	}
	return stats, nil
}

// Grouped は近傍重複をまとめた記事グループを返す。
// limitの2倍の候補を取得してからグルーピングするため、
// 結合によってグループ数が目減りしても表示件数が保たれる。
func (s *Service) Grouped(ctx context.Context, params ListParams) ([]model.ArticleGroup, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	candidates, err := s.repo.List(ctx, repository.ArticleFilter{
		Cutoff:   s.cutoff(),
		Category: params.Category,
		Search:   params.Search,
		Limit:    limit * 2,
	})
	if err != nil {
		return nil, fmt.Errorf("グループ候補の取得に失敗しました: %w", err)
	}

	return s.grouper.Group(candidates, limit), nil
}

var _ ArticleQueryService = (*Service)(nil)
