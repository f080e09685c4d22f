// Package config はアプリケーション設定の読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Ingestion
	RefreshInterval    time.Duration // バックグラウンド取得の周期
	FetchTimeout       time.Duration // フィード1件あたりのHTTPタイムアウト
	FetchMaxSize       int64         // レスポンスボディの最大サイズ
	FetchMaxConcurrent int           // ソース単位の最大並列数
	FeedEntryCap       int           // フィード1件から取り込むエントリ数の上限
	DescriptionMaxLen  int           // 説明文の最大長（タグ除去後に切り詰め）

	// Read path
	RetentionDays       int           // 鮮度ウィンドウ（日）
	BreakingWindow      time.Duration // 速報ウィンドウ
	SimilarityThreshold float64       // グルーピングの類似度閾値

	// Feeds
	FeedsFile string // フィードカタログYAMLのパス（空なら組み込みカタログ）

	// Rate Limit
	RateLimitGeneral int // req/min/クライアント

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("required environment variable is not set: DATABASE_URL")
	}

	cfg.RefreshInterval = getEnvDuration("REFRESH_INTERVAL", 30*time.Minute)
	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 15*time.Second)
	cfg.FetchMaxSize = getEnvInt64("FETCH_MAX_SIZE", 5242880)
	cfg.FetchMaxConcurrent = getEnvInt("FETCH_MAX_CONCURRENT", 8)
	cfg.FeedEntryCap = getEnvInt("FEED_ENTRY_CAP", 20)
	cfg.DescriptionMaxLen = getEnvInt("DESCRIPTION_MAX_LENGTH", 500)
	cfg.RetentionDays = getEnvInt("RETENTION_DAYS", 7)
	cfg.BreakingWindow = getEnvDuration("BREAKING_WINDOW", 2*time.Hour)
	cfg.SimilarityThreshold = getEnvFloat("SIMILARITY_THRESHOLD", 0.4)
	cfg.FeedsFile = getEnvString("FEEDS_FILE", "")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

// RetentionHorizon は鮮度ウィンドウをDurationとして返す。
func (c *Config) RetentionHorizon() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
