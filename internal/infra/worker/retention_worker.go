package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/entity"
)

// Cleaner purges rows past the retention window.
type Cleaner interface {
	Enabled() bool
	Cleanup(ctx context.Context, now time.Time) (*entity.RetentionResult, error)
}

// RetentionWorker runs the retention cleanup once at start and then on every
// tick.
type RetentionWorker struct {
	cleaner      Cleaner
	tickInterval time.Duration
	logger       *zap.Logger
	onResult     func(*entity.RetentionResult)
	now          func() time.Time
}

func NewRetentionWorker(cleaner Cleaner, interval time.Duration, logger *zap.Logger) *RetentionWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &RetentionWorker{
		cleaner:      cleaner,
		tickInterval: interval,
		logger:       logger,
		now:          time.Now,
	}
}

// OnResult registers a callback for every successful run.
func (w *RetentionWorker) OnResult(fn func(*entity.RetentionResult)) {
	w.onResult = fn
}

func (w *RetentionWorker) Start(ctx context.Context) {
	if !w.cleaner.Enabled() {
		w.logger.Info("retention worker disabled")
		return
	}
	w.logger.Info("retention worker started", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.run(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("retention worker stopped")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *RetentionWorker) run(ctx context.Context) {
	result, err := w.cleaner.Cleanup(ctx, w.now())
	if err != nil {
		w.logger.Error("retention cleanup failed", zap.Error(err))
		return
	}
	if w.onResult != nil {
		w.onResult(result)
	}
}
