package usecase_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/xavierca1/woo-crm/internal/entity"
	"github.com/xavierca1/woo-crm/internal/usecase"
)

type sliceIterator []*entity.Contact

func (s sliceIterator) Each(_ context.Context, since time.Time, fn func(*entity.Contact) error) error {
	for _, c := range s {
		if c.CreatedAt.Before(since) {
			continue
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

func exportContacts() sliceIterator {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return sliceIterator{
		{ID: "c1", Email: "a@example.com", Phone: "+3361234", FirstName: "Ann", Status: "new", Stage: "lead", CreatedAt: created},
		{ID: "c2", Email: "b@example.com", FirstName: "=HYPERLINK(\"x\")", Status: "active", Stage: "won", CreatedAt: created},
	}
}

func TestExport_CSV(t *testing.T) {
	var buf bytes.Buffer

	n, err := usecase.NewExportUseCase(exportContacts()).Export(context.Background(), &buf, usecase.FormatCSV, time.Time{})

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Email", records[0][1])
	assert.Equal(t, "+3361234", records[1][2])
	assert.Equal(t, "'=HYPERLINK(\"x\")", records[2][3])
	assert.Equal(t, "2026-01-02T03:04:05Z", records[1][8])
}

func TestExport_SinceFilters(t *testing.T) {
	var buf bytes.Buffer

	n, err := usecase.NewExportUseCase(exportContacts()).Export(context.Background(), &buf, usecase.FormatCSV, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExport_XLSX(t *testing.T) {
	var buf bytes.Buffer

	n, err := usecase.NewExportUseCase(exportContacts()).Export(context.Background(), &buf, usecase.FormatXLSX, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Contacts")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "a@example.com", rows[1][1])
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := usecase.NewExportUseCase(exportContacts()).Export(context.Background(), &bytes.Buffer{}, "pdf", time.Time{})

	assert.True(t, usecase.IsDomainError(err))
}
