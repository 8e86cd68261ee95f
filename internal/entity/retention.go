package entity

import (
	"context"
	"time"
)

type RetentionResult struct {
	Cutoff  time.Time        `json:"cutoff"`
	Deleted map[string]int64 `json:"deleted"`
	Total   int64            `json:"total"`
}

type RetentionRepositoryInterface interface {
	// DeleteOlderThan removes rows of table created before cutoff and returns
	// the number of rows deleted.
	DeleteOlderThan(ctx context.Context, table string, cutoff time.Time) (int64, error)
}

type Stats struct {
	Contacts          int             `json:"contacts"`
	Leads             int             `json:"leads"`
	Submissions       int             `json:"submissions"`
	SubmissionsRecent int             `json:"submissions_recent"`
	ByStatus          map[string]int  `json:"by_status"`
	TopInterests      []InterestCount `json:"top_interests"`
}

type StatsRepositoryInterface interface {
	Totals(ctx context.Context, since time.Time) (*Stats, error)
}
