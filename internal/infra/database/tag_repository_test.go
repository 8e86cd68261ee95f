package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagEnsure_UsesSlug(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTagRepository(db)

	mock.ExpectQuery(`INSERT INTO tags (.+) ON CONFLICT \(slug\)`).
		WithArgs(sqlmock.AnyArg(), "VIP Buyers", "vip-buyers").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).AddRow("tag-1", "VIP buyers", "vip-buyers"))

	tag, err := repo.Ensure(context.Background(), "VIP Buyers")

	require.NoError(t, err)
	assert.Equal(t, "tag-1", tag.ID)
	assert.Equal(t, "vip-buyers", tag.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagEnsure_RejectsEmptySlug(t *testing.T) {
	db, _ := setupMockDB(t)
	repo := NewTagRepository(db)

	_, err := repo.Ensure(context.Background(), "!!!")

	assert.Error(t, err)
}

func TestTagAssign_IsIdempotent(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTagRepository(db)

	mock.ExpectExec(`INSERT INTO contact_tag_map (.+) ON CONFLICT DO NOTHING`).
		WithArgs("contact-1", "tag-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO contact_tag_map`).
		WithArgs("contact-1", "tag-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Assign(context.Background(), "contact-1", "tag-1"))
	require.NoError(t, repo.Assign(context.Background(), "contact-1", "tag-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
