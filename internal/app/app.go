// Package app はプロセスの初期化とサブコマンドの実行を行う。
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/hitoshi/situmon/internal/cluster"
	"github.com/hitoshi/situmon/internal/config"
	"github.com/hitoshi/situmon/internal/database"
	"github.com/hitoshi/situmon/internal/feeds"
	"github.com/hitoshi/situmon/internal/geo"
	"github.com/hitoshi/situmon/internal/handler"
	"github.com/hitoshi/situmon/internal/logger"
	"github.com/hitoshi/situmon/internal/metrics"
	"github.com/hitoshi/situmon/internal/middleware"
	"github.com/hitoshi/situmon/internal/query"
	"github.com/hitoshi/situmon/internal/repository"
	"github.com/hitoshi/situmon/internal/security"
	"github.com/hitoshi/situmon/internal/worker/fetch"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	logger.SetupDefault(w)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandFetch:
		return runFetch(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// ingestion はフェッチバッチ実行に必要な依存一式。
type ingestion struct {
	coordinator *fetch.Coordinator
	registry    *prometheus.Registry
}

// buildIngestion はフィードカタログからフェッチパイプラインを組み立てる。
func buildIngestion(cfg *config.Config, repo repository.ArticleRepository) (*ingestion, error) {
	catalog, err := feeds.Load(cfg.FeedsFile)
	if err != nil {
		return nil, fmt.Errorf("フィードカタログの読み込みに失敗しました: %w", err)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	fetcher := fetch.NewFetcher(
		security.NewSSRFGuard(),
		security.NewDescriptionSanitizer(),
		geo.NewResolver(),
		collector,
		slog.Default(),
		cfg.FetchTimeout,
		cfg.FetchMaxSize,
		cfg.FeedEntryCap,
		cfg.DescriptionMaxLen,
	)

	coordinator := fetch.NewCoordinator(
		catalog.Sources(),
		fetcher,
		repo,
		collector,
		slog.Default(),
		cfg.FetchMaxConcurrent,
	)

	return &ingestion{
		coordinator: coordinator,
		registry:    registry,
	}, nil
}

// openDatabase はDB接続を開き、到達可能であることを確認する。
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")
	return db, nil
}

// runServe はAPIサーバーとフェッチスケジューラを同一プロセスで起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	articleRepo := repository.NewPostgresArticleRepo(db)

	ing, err := buildIngestion(cfg, articleRepo)
	if err != nil {
		return err
	}

	scheduler := fetch.NewScheduler(ing.coordinator, slog.Default())

	queryService := query.NewService(
		articleRepo,
		cluster.NewBuilder(cfg.SimilarityThreshold),
		cfg.RetentionHorizon(),
		cfg.BreakingWindow,
	)

	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	if cfg.RateLimitGeneral > 0 {
		// configのRateLimitGeneralはreq/min単位なのでreq/secに変換する
		rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
		rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	}
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:            slog.Default(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		QueryService:      queryService,
		Refresher:         scheduler,
		DB:                db,
		Gatherer:          ing.registry,
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	schedulerDone := make(chan struct{})
	go func() {
		scheduler.Start(ctx, cfg.RefreshInterval)
		close(schedulerDone)
	}()

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	<-schedulerDone
	slog.Info("stopped gracefully")
	return nil
}

// runFetch はフェッチバッチを1回実行して終了する。
// cronやジョブランナーからの実行を想定する。
func runFetch(cfg *config.Config) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	articleRepo := repository.NewPostgresArticleRepo(db)

	ing, err := buildIngestion(cfg, articleRepo)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	inserted, err := ing.coordinator.RunBatch(ctx)
	if err != nil {
		return fmt.Errorf("fetch batch failed: %w", err)
	}

	slog.Info("fetch batch finished", slog.Int("inserted", inserted))
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
