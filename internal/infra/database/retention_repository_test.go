package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteOlderThan_ReturnsRowsAffected(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRetentionRepository(db)
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`DELETE FROM form_submissions WHERE created_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := repo.DeleteOlderThan(context.Background(), "form_submissions", cutoff)

	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOlderThan_RejectsUnknownTable(t *testing.T) {
	db, _ := setupMockDB(t)
	repo := NewRetentionRepository(db)

	_, err := repo.DeleteOlderThan(context.Background(), "contacts", time.Now())

	assert.Error(t, err)
}

func TestStatsTotals(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStatsRepository(db)
	since := time.Now().Add(-24 * time.Hour)

	mock.ExpectQuery(`SELECT\s+\(SELECT COUNT\(\*\) FROM contacts\)`).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"c", "l", "s", "r"}).AddRow(10, 4, 12, 3))
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM contacts GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow("new", 8).AddRow("customer", 2))
	mock.ExpectQuery(`SELECT interest_key`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"interest_key", "count", "sum"}).AddRow("pricing", 3, 5))

	stats, err := repo.Totals(context.Background(), since)

	require.NoError(t, err)
	assert.Equal(t, 10, stats.Contacts)
	assert.Equal(t, 3, stats.SubmissionsRecent)
	assert.Equal(t, 8, stats.ByStatus["new"])
	require.Len(t, stats.TopInterests, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
