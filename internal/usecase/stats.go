package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/woo-crm/internal/entity"
)

type StatsUseCase struct {
	Repo entity.StatsRepositoryInterface
}

func NewStatsUseCase(repo entity.StatsRepositoryInterface) *StatsUseCase {
	return &StatsUseCase{Repo: repo}
}

// Execute returns totals; SubmissionsRecent counts submissions of the last
// days days (7 when days <= 0).
func (uc *StatsUseCase) Execute(ctx context.Context, now time.Time, days int) (*entity.Stats, error) {
	if days <= 0 {
		days = 7
	}
	stats, err := uc.Repo.Totals(ctx, now.AddDate(0, 0, -days))
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to compute stats", Err: err}
	}
	if stats.ByStatus == nil {
		stats.ByStatus = map[string]int{}
	}
	return stats, nil
}
