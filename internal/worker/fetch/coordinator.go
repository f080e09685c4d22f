package fetch

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/situmon/internal/feeds"
	"github.com/hitoshi/situmon/internal/model"
	"github.com/hitoshi/situmon/internal/repository"
)

// FeedFetcherService は単一ソースのフェッチを行うインターフェース。
type FeedFetcherService interface {
	Fetch(ctx context.Context, source feeds.Source) []model.Article
}

// MetricsRecorder はフェッチバッチの計測値を記録するインターフェース。
type MetricsRecorder interface {
	RecordFetchSuccess(source string)
	RecordFetchFailure(source, reason string)
	RecordParseFailure(source string)
	RecordArticlesInserted(n int)
	RecordDuplicatesSkipped(n int)
	RecordBatchDuration(d time.Duration)
}

// Coordinator は全ソースへのフェッチをファンアウトし、結果を永続化する。
// 同時実行数はセマフォで制限する。個々のソースの失敗はバッチ全体を
// 失敗させず、ログと計測値に現れるのみ。
type Coordinator struct {
	sources        []feeds.Source
	fetcher        FeedFetcherService
	repo           repository.ArticleRepository
	metrics        MetricsRecorder
	logger         *slog.Logger
	maxConcurrency int
}

// NewCoordinator はCoordinatorを生成する。
func NewCoordinator(
	sources []feeds.Source,
	fetcher FeedFetcherService,
	repo repository.ArticleRepository,
	metrics MetricsRecorder,
	logger *slog.Logger,
	maxConcurrency int,
) *Coordinator {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &Coordinator{
		sources:        sources,
		fetcher:        fetcher,
		repo:           repo,
		metrics:        metrics,
		logger:         logger,
		maxConcurrency: maxConcurrency,
	}
}

// RunBatch は全ソースを1回フェッチし、新規挿入された記事数を返す。
// 同一linkの記事はON CONFLICTでスキップされるため、再実行は冪等。
func (c *Coordinator) RunBatch(ctx context.Context) (int, error) {
	batchID := uuid.New().String()
	start := time.Now()

	c.logger.Info("feed batch started",
		slog.String("batch_id", batchID),
		slog.Int("sources", len(c.sources)),
		slog.Int("max_concurrency", c.maxConcurrency),
	)

	var inserted, skipped int64
	sem := make(chan struct{}, c.maxConcurrency)
	var wg sync.WaitGroup

	for _, source := range c.sources {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(src feeds.Source) {
			defer wg.Done()
			defer func() { <-sem }()

			articles := c.fetcher.Fetch(ctx, src)
			now := time.Now().UTC()

			for i := range articles {
				articles[i].FetchedAt = now

				ok, err := c.repo.InsertIfAbsent(ctx, &articles[i])
				if err != nil {
					c.logger.Error("記事の保存に失敗しました",
						slog.String("batch_id", batchID),
						slog.String("source", src.Name),
						slog.String("link", articles[i].Link),
						slog.String("error", err.Error()),
					)
					continue
				}
				if ok {
					atomic.AddInt64(&inserted, 1)
				} else {
					atomic.AddInt64(&skipped, 1)
				}
			}
		}(source)
	}

	wg.Wait()

	duration := time.Since(start)
	c.metrics.RecordArticlesInserted(int(inserted))
	c.metrics.RecordDuplicatesSkipped(int(skipped))
	c.metrics.RecordBatchDuration(duration)

	c.logger.Info("feed batch completed",
		slog.String("batch_id", batchID),
		slog.Int64("inserted", inserted),
		slog.Int64("duplicates_skipped", skipped),
		slog.Float64("duration_sec", duration.Seconds()),
	)

	if err := ctx.Err(); err != nil {
		return int(inserted), err
	}
	return int(inserted), nil
}
