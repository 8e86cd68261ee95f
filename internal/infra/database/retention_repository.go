package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xavierca1/woo-crm/internal/entity"
)

// retentionTables lists the tables that may be purged by age.
var retentionTables = map[string]bool{
	"form_submissions": true,
	"leads":            true,
}

type RetentionRepository struct {
	DB *sql.DB
}

func NewRetentionRepository(db *sql.DB) *RetentionRepository {
	return &RetentionRepository{DB: db}
}

func (r *RetentionRepository) DeleteOlderThan(ctx context.Context, table string, cutoff time.Time) (int64, error) {
	if !retentionTables[table] {
		return 0, fmt.Errorf("table %q is not subject to retention", table)
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM `+table+` WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge %s: %w", table, err)
	}
	return res.RowsAffected()
}

type StatsRepository struct {
	DB        *sql.DB
	Interests *InterestRepository
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{DB: db, Interests: NewInterestRepository(db)}
}

func (r *StatsRepository) Totals(ctx context.Context, since time.Time) (*entity.Stats, error) {
	s := &entity.Stats{ByStatus: map[string]int{}}

	query := `
		SELECT
			(SELECT COUNT(*) FROM contacts),
			(SELECT COUNT(*) FROM leads),
			(SELECT COUNT(*) FROM form_submissions),
			(SELECT COUNT(*) FROM form_submissions WHERE created_at >= $1)
	`
	if err := r.DB.QueryRowContext(ctx, query, since).Scan(&s.Contacts, &s.Leads, &s.Submissions, &s.SubmissionsRecent); err != nil {
		return nil, fmt.Errorf("stats totals: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM contacts GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("stats by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		s.ByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.TopInterests, err = r.Interests.Top(ctx, 5)
	if err != nil {
		return nil, err
	}
	return s, nil
}
