package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/entity"
)

// RetentionTables are purged oldest-first by created_at. Contacts are never
// purged automatically.
var RetentionTables = []string{"form_submissions", "leads"}

type RetentionUseCase struct {
	Repo   entity.RetentionRepositoryInterface
	Days   int
	Logger *zap.Logger
}

func NewRetentionUseCase(repo entity.RetentionRepositoryInterface, days int, logger *zap.Logger) *RetentionUseCase {
	return &RetentionUseCase{Repo: repo, Days: days, Logger: logger}
}

func (uc *RetentionUseCase) Enabled() bool {
	return uc.Days > 0
}

// Cleanup deletes rows created before now minus the retention window. It
// returns a zero result when retention is disabled.
func (uc *RetentionUseCase) Cleanup(ctx context.Context, now time.Time) (*entity.RetentionResult, error) {
	result := &entity.RetentionResult{Deleted: make(map[string]int64, len(RetentionTables))}
	if !uc.Enabled() {
		return result, nil
	}
	result.Cutoff = now.AddDate(0, 0, -uc.Days)

	for _, table := range RetentionTables {
		n, err := uc.Repo.DeleteOlderThan(ctx, table, result.Cutoff)
		if err != nil {
			return result, &TechnicalError{Code: "RETENTION_FAILED", Message: "failed to purge " + table, Err: err}
		}
		result.Deleted[table] = n
		result.Total += n
	}

	uc.Logger.Info("retention cleanup finished",
		zap.Time("cutoff", result.Cutoff),
		zap.Int64("deleted", result.Total),
		zap.Any("tables", result.Deleted),
	)
	return result, nil
}
