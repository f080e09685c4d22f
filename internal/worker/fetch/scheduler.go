package fetch

import (
	"context"
	"log/slog"
	"time"
)

// BatchRunner はフェッチバッチ1回分の実行インターフェース。
type BatchRunner interface {
	RunBatch(ctx context.Context) (int, error)
}

// Scheduler は一定間隔でフェッチバッチを実行する。
// Triggerによる手動実行も同一のループで直列化されるため、
// バッチが並行して走ることはない。
type Scheduler struct {
	runner    BatchRunner
	logger    *slog.Logger
	triggerCh chan struct{}
}

// NewScheduler はSchedulerを生成する。
func NewScheduler(runner BatchRunner, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:    runner,
		logger:    logger,
		triggerCh: make(chan struct{}, 1),
	}
}

// Trigger は次のバッチを即時要求する。既に要求が積まれている場合は
// 何もしない。ブロックしないためハンドラから安全に呼べる。
func (s *Scheduler) Trigger() {
	select {
	case s.triggerCh <- struct{}{}:
	default:
	}
}

// Start はスケジューラのループを開始する。起動直後に1回バッチを実行し、
// 以降はintervalごと、またはTriggerの要求に応じて実行する。
// ctxのキャンセルで停止する。
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	s.logger.Info("scheduler started",
		slog.Float64("interval_min", interval.Minutes()),
	)

	s.runOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		case <-s.triggerCh:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.runner.RunBatch(ctx); err != nil {
		s.logger.Error("scheduled batch failed",
			slog.String("error", err.Error()),
		)
	}
}
