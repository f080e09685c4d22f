// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はフィード取り込みのPrometheusメトリクスを収集する。
// worker/fetch.MetricsRecorderを実装する。
type Collector struct {
	fetchSuccess      *prometheus.CounterVec
	fetchFail         *prometheus.CounterVec
	parseFail         *prometheus.CounterVec
	articlesInserted  prometheus.Counter
	duplicatesSkipped prometheus.Counter
	batchDuration     prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		fetchSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "situmon_fetch_success_total",
			Help: "フィードフェッチ成功の合計数",
		}, []string{"source"}),
		fetchFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "situmon_fetch_fail_total",
			Help: "フィードフェッチ失敗の合計数",
		}, []string{"source", "reason"}),
		parseFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "situmon_parse_fail_total",
			Help: "フィードパース失敗の合計数",
		}, []string{"source"}),
		articlesInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "situmon_articles_inserted_total",
			Help: "新規挿入された記事の合計数",
		}),
		duplicatesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "situmon_duplicates_skipped_total",
			Help: "link重複によりスキップされた記事の合計数",
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "situmon_batch_duration_seconds",
			Help:    "フェッチバッチ1回の所要時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.fetchSuccess,
		c.fetchFail,
		c.parseFail,
		c.articlesInserted,
		c.duplicatesSkipped,
		c.batchDuration,
	)

	return c
}

// RecordFetchSuccess はフェッチ成功を記録する。
func (c *Collector) RecordFetchSuccess(source string) {
	c.fetchSuccess.WithLabelValues(source).Inc()
}

// RecordFetchFailure はフェッチ失敗を理由ラベル付きで記録する。
func (c *Collector) RecordFetchFailure(source, reason string) {
	c.fetchFail.WithLabelValues(source, reason).Inc()
}

// RecordParseFailure はパース失敗を記録する。
func (c *Collector) RecordParseFailure(source string) {
	c.parseFail.WithLabelValues(source).Inc()
}

// RecordArticlesInserted は新規挿入された記事数を記録する。
func (c *Collector) RecordArticlesInserted(n int) {
	c.articlesInserted.Add(float64(n))
}

// RecordDuplicatesSkipped は重複スキップされた記事数を記録する。
func (c *Collector) RecordDuplicatesSkipped(n int) {
	c.duplicatesSkipped.Add(float64(n))
}

// RecordBatchDuration はバッチの所要時間を記録する。
func (c *Collector) RecordBatchDuration(d time.Duration) {
	c.batchDuration.Observe(d.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
