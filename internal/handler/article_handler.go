// Package handler はJSON APIのHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/situmon/internal/middleware"
	"github.com/hitoshi/situmon/internal/model"
	"github.com/hitoshi/situmon/internal/query"
)

// RefreshTrigger は手動フェッチのトリガーインターフェース。
type RefreshTrigger interface {
	Trigger()
}

// ArticleHandler は記事読み取りAPIのHTTPハンドラー。
// 取り込みの失敗が読み取り系エンドポイントを失敗させることはない。
type ArticleHandler struct {
	query     query.ArticleQueryService
	refresher RefreshTrigger
	logger    *slog.Logger
}

// NewArticleHandler はArticleHandlerを生成する。
func NewArticleHandler(q query.ArticleQueryService, refresher RefreshTrigger, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{
		query:     q,
		refresher: refresher,
		logger:    logger,
	}
}

// --- レスポンス型 ---

// articleResponse は記事1件のレスポンス。
type articleResponse struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Link          string   `json:"link"`
	Source        string   `json:"source"`
	Category      string   `json:"category"`
	PublishedDate *string  `json:"published_date"`
	FetchedDate   string   `json:"fetched_date"`
	LocationName  *string  `json:"location_name"`
	LocationLat   *float64 `json:"location_lat"`
	LocationLng   *float64 `json:"location_lng"`
}

// globeResponse はロケーション集計1件のレスポンス。
type globeResponse struct {
	Name       string   `json:"name"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Count      int      `json:"count"`
	Titles     []string `json:"titles"`
	Categories []string `json:"categories"`
}

// statsResponse は統計情報のレスポンス。
type statsResponse struct {
	TotalArticles  int            `json:"total_articles"`
	Categories     map[string]int `json:"categories"`
	SourcesCount   int            `json:"sources_count"`
	LocationsCount int            `json:"locations_count"`
}

// groupResponse は近傍重複グループ1件のレスポンス。
type groupResponse struct {
	Main    articleResponse   `json:"main"`
	Related []articleResponse `json:"related"`
}

// toArticleResponse はドメインモデルをレスポンス型へ変換する。
func toArticleResponse(a model.Article) articleResponse {
	resp := articleResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Link:        a.Link,
		Source:      a.Source,
		Category:    a.Category,
		FetchedDate: a.FetchedAt.UTC().Format(time.RFC3339),
	}
	if a.PublishedAt != nil {
		s := a.PublishedAt.UTC().Format(time.RFC3339)
		resp.PublishedDate = &s
	}
	if a.Location != nil {
		name := a.Location.Name
		lat := a.Location.Lat
		lng := a.Location.Lng
		resp.LocationName = &name
		resp.LocationLat = &lat
		resp.LocationLng = &lng
	}
	return resp
}

func toArticleResponses(articles []model.Article) []articleResponse {
	resps := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		resps = append(resps, toArticleResponse(a))
	}
	return resps
}

// parseLimit はlimitクエリパラメータを検証する。未指定は0（サービス既定）。
func parseLimit(raw string) (int, *model.APIError) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, model.NewInvalidLimitError(raw)
	}
	return limit, nil
}

// ListArticles は条件付きの記事一覧を取得する。
// GET /api/articles?category=&source=&search=&limit=
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	limit, apiErr := parseLimit(r.URL.Query().Get("limit"))
	if apiErr != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	articles, err := h.query.List(r.Context(), query.ListParams{
		Category: r.URL.Query().Get("category"),
		Source:   r.URL.Query().Get("source"),
		Search:   r.URL.Query().Get("search"),
		Limit:    limit,
	})
	if err != nil {
		h.handleQueryError(w, "list articles", err)
		return
	}

	writeJSON(w, toArticleResponses(articles))
}

// ListSources は鮮度ウィンドウ内のソース名一覧を取得する。
// GET /api/sources
func (h *ArticleHandler) ListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.query.Sources(r.Context())
	if err != nil {
		h.handleQueryError(w, "list sources", err)
		return
	}

	if sources == nil {
		sources = []string{}
	}
	writeJSON(w, sources)
}

// GlobeData はロケーション別の集計を取得する。
// GET /api/globe-data
func (h *ArticleHandler) GlobeData(w http.ResponseWriter, r *http.Request) {
	aggs, err := h.query.GlobeData(r.Context())
	if err != nil {
		h.handleQueryError(w, "globe data", err)
		return
	}

	resps := make([]globeResponse, 0, len(aggs))
	for _, agg := range aggs {
		titles := agg.Titles
		if titles == nil {
			titles = []string{}
		}
		categories := agg.Categories
		if categories == nil {
			categories = []string{}
		}
		resps = append(resps, globeResponse{
			Name:       agg.Name,
			Lat:        agg.Lat,
			Lng:        agg.Lng,
			Count:      agg.Count,
			Titles:     titles,
			Categories: categories,
		})
	}

	writeJSON(w, resps)
}

// Breaking は速報ウィンドウ内の記事を取得する。
// GET /api/breaking
func (h *ArticleHandler) Breaking(w http.ResponseWriter, r *http.Request) {
	articles, err := h.query.Breaking(r.Context())
	if err != nil {
		h.handleQueryError(w, "breaking", err)
		return
	}

	writeJSON(w, toArticleResponses(articles))
}

// Stats は統計情報を取得する。
// GET /api/stats
func (h *ArticleHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.query.Stats(r.Context())
	if err != nil {
		h.handleQueryError(w, "stats", err)
		return
	}

	writeJSON(w, statsResponse{
		TotalArticles:  stats.TotalArticles,
		Categories:     stats.Categories,
		SourcesCount:   stats.SourcesCount,
		LocationsCount: stats.LocationsCount,
	})
}

// Grouped は近傍重複をまとめた記事グループを取得する。
// GET /api/articles-grouped?category=&search=&limit=
func (h *ArticleHandler) Grouped(w http.ResponseWriter, r *http.Request) {
	limit, apiErr := parseLimit(r.URL.Query().Get("limit"))
	if apiErr != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	groups, err := h.query.Grouped(r.Context(), query.ListParams{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Limit:    limit,
	})
	if err != nil {
		h.handleQueryError(w, "grouped", err)
		return
	}

	resps := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		resps = append(resps, groupResponse{
			Main:    toArticleResponse(g.Main),
			Related: toArticleResponses(g.Related),
		})
	}

	writeJSON(w, resps)
}

// Refresh は非同期のフェッチバッチをトリガーする。
// POST /api/refresh
func (h *ArticleHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.refresher.Trigger()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "Feed refresh started",
	})
}

// handleQueryError は読み取り系エラーを503のストレージエラーとして返す。
func (h *ArticleHandler) handleQueryError(w http.ResponseWriter, op string, err error) {
	h.logger.Error("query failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
	middleware.WriteErrorResponse(w, http.StatusServiceUnavailable, model.NewStorageUnavailableError())
}

// writeJSON は200レスポンスをJSONで書き込む。
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
