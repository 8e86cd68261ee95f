package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/woo-crm/internal/entity"
)

var contactCols = []string{"id", "email", "phone", "first_name", "last_name", "status", "stage", "source", "created_at", "updated_at"}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestUpsertByEmailOrPhone_CreatesNewContact(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewContactRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM contacts WHERE email = \$1`).
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows(contactCols))
	mock.ExpectExec(`INSERT INTO contacts`).
		WithArgs(sqlmock.AnyArg(), "jane@example.com", nil, "Jane", "", "new", "lead", "form", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, err := entity.NewContact(" Jane@Example.com ", "", "Jane", "", "form")
	require.NoError(t, err)

	created, err := repo.UpsertByEmailOrPhone(context.Background(), c)

	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertByEmailOrPhone_UpdatesExistingByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewContactRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM contacts WHERE email = \$1`).
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows(contactCols).
			AddRow("contact-1", "jane@example.com", nil, "Jane", "", "active", "qualified", "form", now, now))
	mock.ExpectExec(`UPDATE contacts`).
		WithArgs("contact-1", "jane@example.com", "+33612345678", "Jane", "Doe", "form", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, err := entity.NewContact("jane@example.com", "+33 6 12 34 56 78", "", "Doe", "form")
	require.NoError(t, err)

	created, err := repo.UpsertByEmailOrPhone(context.Background(), c)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "contact-1", c.ID)
	assert.Equal(t, "active", c.Status)
	assert.Equal(t, "Doe", c.LastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertByEmailOrPhone_FallsBackToPhone(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewContactRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM contacts WHERE email = \$1`).
		WithArgs("new@example.com").
		WillReturnRows(sqlmock.NewRows(contactCols))
	mock.ExpectQuery(`SELECT (.+) FROM contacts WHERE phone = \$1`).
		WithArgs("0612345678").
		WillReturnRows(sqlmock.NewRows(contactCols).
			AddRow("contact-2", nil, "0612345678", "Ali", "", "new", "lead", "", now, now))
	mock.ExpectExec(`UPDATE contacts`).
		WithArgs("contact-2", "new@example.com", "0612345678", "Ali", "", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := &entity.Contact{Email: "new@example.com", Phone: "06 12 34 56 78"}
	created, err := repo.UpsertByEmailOrPhone(context.Background(), c)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "contact-2", c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertByEmailOrPhone_RecoversFromInsertRace(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewContactRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM contacts WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(contactCols))
	mock.ExpectExec(`INSERT INTO contacts`).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectQuery(`SELECT (.+) FROM contacts WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(contactCols).
			AddRow("contact-3", "race@example.com", nil, "", "", "new", "lead", "", now, now))
	mock.ExpectExec(`UPDATE contacts`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := &entity.Contact{ID: "fresh", Email: "race@example.com", Status: "new", Stage: "lead"}
	created, err := repo.UpsertByEmailOrPhone(context.Background(), c)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "contact-3", c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertByEmailOrPhone_RequiresIdentity(t *testing.T) {
	db, _ := setupMockDB(t)
	repo := NewContactRepository(db)

	_, err := repo.UpsertByEmailOrPhone(context.Background(), &entity.Contact{FirstName: "Nobody"})

	assert.ErrorIs(t, err, entity.ErrMissingIdentity)
}

func TestContactList_BuildsFilters(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewContactRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM contacts WHERE \(email ILIKE \$1 (.+)\) AND status = \$2`).
		WithArgs("%jane%", "active").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT (.+) FROM contacts WHERE (.+) ORDER BY created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs("%jane%", "active", 50, 0).
		WillReturnRows(sqlmock.NewRows(contactCols).
			AddRow("contact-1", "jane@example.com", nil, "Jane", "", "active", "lead", "", now, now))

	contacts, total, err := repo.List(context.Background(), entity.ContactFilter{Search: "jane", Status: "active"})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, contacts, 1)
	assert.Equal(t, "", contacts[0].Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactUpdateStatus_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewContactRepository(db)

	mock.ExpectExec(`UPDATE contacts`).
		WithArgs("missing", "active", "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", "active", "")

	assert.ErrorIs(t, err, entity.ErrContactNotFound)
}
