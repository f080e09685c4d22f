package fetch

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html/charset"

	"github.com/hitoshi/situmon/internal/feeds"
	"github.com/hitoshi/situmon/internal/model"
	"github.com/hitoshi/situmon/internal/security"
)

// noTitlePlaceholder はタイトルを持たないエントリに与える既定タイトル。
const noTitlePlaceholder = "No Title"

// LocationResolver は記事テキストからのロケーション解決インターフェース。
type LocationResolver interface {
	Resolve(title, description string) *model.GeoTag
	ResolveKey(key string) *model.GeoTag
}

// cacheEntry は条件付きGETに使うバリデータを保持する。
type cacheEntry struct {
	etag         string
	lastModified string
}

// Fetcher は個別フィードソースのHTTPフェッチとパース、正規化を行う。
// フェッチ・パースの失敗は呼び出し側へエラーとして伝播せず、
// 空の結果とログで報告する。次回のスケジュール実行がリトライとなる。
type Fetcher struct {
	ssrfGuard   security.SSRFGuardService
	sanitizer   security.DescriptionSanitizerService
	resolver    LocationResolver
	metrics     MetricsRecorder
	logger      *slog.Logger
	timeout     time.Duration
	maxBodySize int64
	entryCap    int
	descMaxLen  int

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewFetcher はFetcherの新しいインスタンスを生成する。
func NewFetcher(
	ssrfGuard security.SSRFGuardService,
	sanitizer security.DescriptionSanitizerService,
	resolver LocationResolver,
	metrics MetricsRecorder,
	logger *slog.Logger,
	timeout time.Duration,
	maxBodySize int64,
	entryCap int,
	descMaxLen int,
) *Fetcher {
	if entryCap <= 0 {
		entryCap = 20
	}
	return &Fetcher{
		ssrfGuard:   ssrfGuard,
		sanitizer:   sanitizer,
		resolver:    resolver,
		metrics:     metrics,
		logger:      logger,
		timeout:     timeout,
		maxBodySize: maxBodySize,
		entryCap:    entryCap,
		descMaxLen:  descMaxLen,
		cache:       make(map[string]cacheEntry),
	}
}

// Fetch はソースのフィードを取得し、正規化済み記事列を返す。
// FetchedAtは呼び出し側（Coordinator）が挿入時に設定する。
// ネットワーク・パースのあらゆる失敗は空スライスとして扱われる。
func (f *Fetcher) Fetch(ctx context.Context, source feeds.Source) []model.Article {
	start := time.Now()

	if err := f.ssrfGuard.ValidateURL(source.URL); err != nil {
		f.logger.Error("フィードURLの検証に失敗しました",
			slog.String("source", source.Name),
			slog.String("url", source.URL),
			slog.String("error", err.Error()),
		)
		f.metrics.RecordFetchFailure(source.Name, "ssrf_blocked")
		return nil
	}

	client := f.ssrfGuard.NewSafeClient(f.timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		f.logger.Error("リクエスト作成に失敗しました",
			slog.String("source", source.Name),
			slog.String("error", err.Error()),
		)
		f.metrics.RecordFetchFailure(source.Name, "bad_request")
		return nil
	}

	req.Header.Set("User-Agent", "Situmon/1.0 Situation Monitor")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	f.mu.Lock()
	if entry, ok := f.cache[source.URL]; ok {
		if entry.etag != "" {
			req.Header.Set("If-None-Match", entry.etag)
		}
		if entry.lastModified != "" {
			req.Header.Set("If-Modified-Since", entry.lastModified)
		}
	}
	f.mu.Unlock()

	resp, err := client.Do(req)
	if err != nil {
		f.logger.Error("フィードのHTTPリクエストに失敗しました",
			slog.String("source", source.Name),
			slog.String("url", source.URL),
			slog.String("error", err.Error()),
		)
		f.metrics.RecordFetchFailure(source.Name, "http_error")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		f.logger.Info("フィードに変更なし",
			slog.String("source", source.Name),
			slog.String("url", source.URL),
		)
		f.metrics.RecordFetchSuccess(source.Name)
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("フィードが2xx以外のステータスを返しました",
			slog.String("source", source.Name),
			slog.String("url", source.URL),
			slog.Int("http_status", resp.StatusCode),
		)
		f.metrics.RecordFetchFailure(source.Name, "http_status")
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		f.logger.Error("レスポンスボディの読み取りに失敗しました",
			slog.String("source", source.Name),
			slog.String("error", err.Error()),
		)
		f.metrics.RecordFetchFailure(source.Name, "read_error")
		return nil
	}

	// 文字コードをUTF-8に正規化してからパースする
	reader, err := charset.NewReader(bytes.NewReader(body), resp.Header.Get("Content-Type"))
	if err != nil {
		reader = bytes.NewReader(body)
	}

	parsed, err := gofeed.NewParser().Parse(reader)
	if err != nil {
		f.logger.Error("フィードのパースに失敗しました",
			slog.String("source", source.Name),
			slog.String("url", source.URL),
			slog.String("error", err.Error()),
		)
		f.metrics.RecordParseFailure(source.Name)
		return nil
	}

	// 次回の条件付きGETのためにバリデータを保存する
	f.mu.Lock()
	f.cache[source.URL] = cacheEntry{
		etag:         resp.Header.Get("ETag"),
		lastModified: resp.Header.Get("Last-Modified"),
	}
	f.mu.Unlock()

	articles := f.normalizeEntries(source, parsed.Items)

	f.metrics.RecordFetchSuccess(source.Name)
	f.logger.Info("フィードフェッチが完了しました",
		slog.String("source", source.Name),
		slog.String("category", source.Category),
		slog.Int("entries", len(parsed.Items)),
		slog.Int("articles", len(articles)),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return articles
}

// normalizeEntries はフィードエントリを記事へ正規化する。
// エントリ数は上限で打ち切り、linkを持たないエントリは個別にスキップする。
func (f *Fetcher) normalizeEntries(source feeds.Source, items []*gofeed.Item) []model.Article {
	if len(items) > f.entryCap {
		items = items[:f.entryCap]
	}

	articles := make([]model.Article, 0, len(items))
	skipped := 0

	for _, item := range items {
		if item == nil {
			continue
		}

		// linkは重複排除キーのため必須。欠落エントリはスキップする。
		if item.Link == "" {
			skipped++
			continue
		}

		title := item.Title
		if title == "" {
			title = noTitlePlaceholder
		}

		// summary/description優先、無ければ本文へフォールバック
		raw := item.Description
		if raw == "" {
			raw = item.Content
		}
		description := f.sanitizer.Clean(raw, f.descMaxLen)

		var publishedAt *time.Time
		if item.PublishedParsed != nil {
			t := *item.PublishedParsed
			publishedAt = &t
		} else if item.UpdatedParsed != nil {
			t := *item.UpdatedParsed
			publishedAt = &t
		}

		location := f.resolver.Resolve(title, description)
		if location == nil && source.Location != "" {
			location = f.resolver.ResolveKey(source.Location)
		}

		articles = append(articles, model.Article{
			Title:       title,
			Description: description,
			Link:        item.Link,
			Source:      source.Name,
			Category:    source.Category,
			PublishedAt: publishedAt,
			Location:    location,
		})
	}

	if skipped > 0 {
		f.logger.Warn("linkを持たないエントリをスキップしました",
			slog.String("source", source.Name),
			slog.Int("skipped", skipped),
		)
	}

	return articles
}
