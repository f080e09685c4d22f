package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/situmon/internal/metrics"
	"github.com/hitoshi/situmon/internal/middleware"
	"github.com/hitoshi/situmon/internal/query"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	QueryService query.ArticleQueryService
	Refresher    RefreshTrigger
	DB           DBPinger
	Gatherer     prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → CORS → RateLimit(General)
//
// /healthと/metricsはレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	articleHandler := NewArticleHandler(deps.QueryService, deps.Refresher, deps.Logger)
	healthHandler := NewHealthHandler(deps.DB)

	// --- 運用系ルート（レート制限なし）---
	r.Get("/health", healthHandler.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	// --- APIルート ---
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Route("/api", func(r chi.Router) {
			r.Get("/articles", articleHandler.ListArticles)
			r.Get("/articles-grouped", articleHandler.Grouped)
			r.Get("/sources", articleHandler.ListSources)
			r.Get("/globe-data", articleHandler.GlobeData)
			r.Get("/breaking", articleHandler.Breaking)
			r.Get("/stats", articleHandler.Stats)

			// POST /api/refresh - 手動フェッチ（専用レート制限を追加）
			r.With(deps.RateLimiter.RefreshMiddleware()).Post("/refresh", articleHandler.Refresh)
		})
	})

	return r
}
