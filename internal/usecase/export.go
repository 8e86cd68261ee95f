package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/xavierca1/woo-crm/internal/entity"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var exportHeaders = []string{"ID", "Email", "Phone", "First Name", "Last Name", "Status", "Stage", "Source", "Created At"}

type ExportUseCase struct {
	Contacts ContactIterator
}

func NewExportUseCase(contacts ContactIterator) *ExportUseCase {
	return &ExportUseCase{Contacts: contacts}
}

// ContentType returns the MIME type for format, or an error for unknown ones.
func ContentType(format string) (string, error) {
	switch format {
	case FormatCSV, "":
		return "text/csv; charset=utf-8", nil
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	}
	return "", &DomainError{Code: "INVALID_FORMAT", Message: "format must be csv or xlsx"}
}

// Export writes every contact created at or after since to w and returns the
// number of rows written.
func (uc *ExportUseCase) Export(ctx context.Context, w io.Writer, format string, since time.Time) (int, error) {
	if _, err := ContentType(format); err != nil {
		return 0, err
	}
	if format == FormatXLSX {
		return uc.exportXLSX(ctx, w, since)
	}
	return uc.exportCSV(ctx, w, since)
}

func (uc *ExportUseCase) exportCSV(ctx context.Context, w io.Writer, since time.Time) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeaders); err != nil {
		return 0, err
	}
	n := 0
	err := uc.Contacts.Each(ctx, since, func(c *entity.Contact) error {
		n++
		return cw.Write(contactRow(c))
	})
	if err != nil {
		return n, &TechnicalError{Code: "EXPORT_FAILED", Message: "failed to export contacts", Err: err}
	}
	cw.Flush()
	return n, cw.Error()
}

func (uc *ExportUseCase) exportXLSX(ctx context.Context, w io.Writer, since time.Time) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Contacts"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return 0, fmt.Errorf("failed to rename sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to create stream writer: %w", err)
	}
	if err := sw.SetColWidth(1, len(exportHeaders), 22); err != nil {
		return 0, fmt.Errorf("failed to set column width: %w", err)
	}

	header := make([]any, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	n := 0
	err = uc.Contacts.Each(ctx, since, func(c *entity.Contact) error {
		n++
		cell, err := excelize.CoordinatesToCellName(1, n+1)
		if err != nil {
			return err
		}
		cols := contactRow(c)
		row := make([]any, len(cols))
		for i, v := range cols {
			row[i] = v
		}
		return sw.SetRow(cell, row)
	})
	if err != nil {
		return n, &TechnicalError{Code: "EXPORT_FAILED", Message: "failed to export contacts", Err: err}
	}
	if err := sw.Flush(); err != nil {
		return n, fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return n, fmt.Errorf("failed to write workbook: %w", err)
	}
	return n, nil
}

func contactRow(c *entity.Contact) []string {
	return []string{
		c.ID,
		safeCell(c.Email),
		safeCell(c.Phone),
		safeCell(c.FirstName),
		safeCell(c.LastName),
		c.Status,
		c.Stage,
		safeCell(c.Source),
		c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// safeCell prefixes values a spreadsheet would evaluate as a formula. Phone
// numbers with a leading plus are left alone.
func safeCell(v string) string {
	if v == "" {
		return v
	}
	switch v[0] {
	case '=', '@', '\t', '\r':
		return "'" + v
	case '+', '-':
		if strings.Trim(v[1:], "0123456789 ") != "" {
			return "'" + v
		}
	}
	return v
}
