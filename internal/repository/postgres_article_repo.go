package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/hitoshi/situmon/internal/model"
)

// PostgresArticleRepo はPostgreSQLを使用した記事リポジトリ。
type PostgresArticleRepo struct {
	db *sql.DB
}

// NewPostgresArticleRepo はPostgresArticleRepoを生成する。
func NewPostgresArticleRepo(db *sql.DB) *PostgresArticleRepo {
	return &PostgresArticleRepo{db: db}
}

// InsertIfAbsent はlinkが未登録の場合のみ記事を挿入する。
// ON CONFLICT DO NOTHINGにより、並行バッチが同じlinkを挿入しても
// 重複行は生まれない。挿入をスキップした場合はfalseを返す。
func (r *PostgresArticleRepo) InsertIfAbsent(ctx context.Context, art *model.Article) (bool, error) {
	var locName sql.NullString
	var locLat, locLng sql.NullFloat64
	if art.Location != nil {
		locName = sql.NullString{String: art.Location.Name, Valid: true}
		locLat = sql.NullFloat64{Float64: art.Location.Lat, Valid: true}
		locLng = sql.NullFloat64{Float64: art.Location.Lng, Valid: true}
	}

	var publishedAt sql.NullTime
	if art.PublishedAt != nil {
		publishedAt = sql.NullTime{Time: *art.PublishedAt, Valid: true}
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO articles
		    (title, description, link, source, category, published_at, fetched_at,
		     location_name, location_lat, location_lng)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (link) DO NOTHING
		 RETURNING id`,
		art.Title, nullString(art.Description), art.Link, art.Source, art.Category,
		publishedAt, art.FetchedAt, locName, locLat, locLng,
	).Scan(&art.ID)

	if err == sql.ErrNoRows {
		// 既存link: RETURNINGが行を返さない。スキップとして扱う。
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("記事の挿入に失敗しました: %w", err)
	}

	return true, nil
}

// List は条件に一致する記事をfetched_at降順で返す。
func (r *PostgresArticleRepo) List(ctx context.Context, filter ArticleFilter) ([]model.Article, error) {
	query := `SELECT id, title, description, link, source, category,
	                 published_at, fetched_at, location_name, location_lat, location_lng
	          FROM articles WHERE fetched_at >= $1`
	args := []interface{}{filter.Cutoff}
	argIndex := 2

	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, filter.Category)
		argIndex++
	}

	if filter.Source != "" {
		query += fmt.Sprintf(" AND source = $%d", argIndex)
		args = append(args, filter.Source)
		argIndex++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY fetched_at DESC LIMIT $%d", argIndex)
	args = append(args, filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("記事一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// ListSources は鮮度ウィンドウ内に存在するソース名をアルファベット順で返す。
func (r *PostgresArticleRepo) ListSources(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT source FROM articles WHERE fetched_at >= $1 ORDER BY source`,
		cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("ソース一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("ソース行の読み取りに失敗しました: %w", err)
		}
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ソース一覧の走査に失敗しました: %w", err)
	}

	return sources, nil
}

// AggregateByLocation はロケーション別の記事集計を件数降順で返す。
// 代表タイトルはfetched_at降順で集約し、Go側でtitleLimit件に切る。
func (r *PostgresArticleRepo) AggregateByLocation(ctx context.Context, cutoff time.Time, titleLimit int) ([]model.LocationAggregate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT location_name, MAX(location_lat), MAX(location_lng),
		        COUNT(*) AS count,
		        array_agg(title ORDER BY fetched_at DESC) AS titles,
		        array_agg(DISTINCT category) AS categories
		 FROM articles
		 WHERE location_name IS NOT NULL AND fetched_at >= $1
		 GROUP BY location_name
		 ORDER BY count DESC`,
		cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("ロケーション集計の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var aggs []model.LocationAggregate
	for rows.Next() {
		var agg model.LocationAggregate
		var titles, categories pq.StringArray

		if err := rows.Scan(&agg.Name, &agg.Lat, &agg.Lng, &agg.Count, &titles, &categories); err != nil {
			return nil, fmt.Errorf("ロケーション集計行の読み取りに失敗しました: %w", err)
		}

		if titleLimit > 0 && len(titles) > titleLimit {
			titles = titles[:titleLimit]
		}
		agg.Titles = []string(titles)
		agg.Categories = []string(categories)

		aggs = append(aggs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ロケーション集計の走査に失敗しました: %w", err)
	}

	return aggs, nil
}

// ListBreaking はcutoffより後にフェッチされた記事を新しい順にlimit件返す。
func (r *PostgresArticleRepo) ListBreaking(ctx context.Context, cutoff time.Time, limit int) ([]model.Article, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, link, source, category,
		        published_at, fetched_at, location_name, location_lat, location_lng
		 FROM articles
		 WHERE fetched_at > $1
		 ORDER BY fetched_at DESC
		 LIMIT $2`,
		cutoff, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("速報一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// Stats は鮮度ウィンドウ内の統計情報を返す。
// 複数クエリにまたがるが、トランザクションスナップショットは要求しない。
func (r *PostgresArticleRepo) Stats(ctx context.Context, cutoff time.Time) (*model.Stats, error) {
	stats := &model.Stats{Categories: make(map[string]int)}

	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(DISTINCT source),
		        COUNT(DISTINCT location_name) FILTER (WHERE location_name IS NOT NULL)
		 FROM articles WHERE fetched_at >= $1`,
		cutoff,
	).Scan(&stats.TotalArticles, &stats.SourcesCount, &stats.LocationsCount)
	if err != nil {
		return nil, fmt.Errorf("統計情報の取得に失敗しました: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM articles WHERE fetched_at >= $1 GROUP BY category`,
		cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ別集計の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("カテゴリ別集計行の読み取りに失敗しました: %w", err)
		}
		stats.Categories[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("カテゴリ別集計の走査に失敗しました: %w", err)
	}

	return stats, nil
}

// scanArticles は記事行の列をArticleスライスへ読み取る。
func scanArticles(rows *sql.Rows) ([]model.Article, error) {
	var articles []model.Article
	for rows.Next() {
		var art model.Article
		var description, locName sql.NullString
		var locLat, locLng sql.NullFloat64
		var publishedAt sql.NullTime

		if err := rows.Scan(
			&art.ID, &art.Title, &description, &art.Link, &art.Source, &art.Category,
			&publishedAt, &art.FetchedAt, &locName, &locLat, &locLng,
		); err != nil {
			return nil, fmt.Errorf("記事行の読み取りに失敗しました: %w", err)
		}

		art.Description = description.String
		if publishedAt.Valid {
			art.PublishedAt = &publishedAt.Time
		}
		if locName.Valid {
			art.Location = &model.GeoTag{
				Name: locName.String,
				Lat:  locLat.Float64,
				Lng:  locLng.Float64,
			}
		}

		articles = append(articles, art)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("記事一覧の走査に失敗しました: %w", err)
	}

	return articles, nil
}

// nullString は空文字列をNULLへマップする。
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// compile-time interface check
var _ ArticleRepository = (*PostgresArticleRepo)(nil)
