package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/infra/database"
	"github.com/xavierca1/woo-crm/internal/usecase"
)

var (
	exportFormat string
	exportSince  string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export contacts as CSV or XLSX",
	Long: `Stream every contact created since --since to a file or stdout.

Examples:
  crmctl export --format xlsx --out contacts.xlsx
  crmctl export --since 2026-01-01 > contacts.csv`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", usecase.FormatCSV, "csv or xlsx")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "Only contacts created on or after YYYY-MM-DD")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if _, err := usecase.ContentType(exportFormat); err != nil {
		return err
	}
	since, err := parseDate(exportSince)
	if err != nil {
		return err
	}

	e, err := newEnv(true)
	if err != nil {
		return err
	}
	defer e.close()

	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	uc := usecase.NewExportUseCase(database.NewContactRepository(e.db))
	n, err := uc.Export(ctx, w, exportFormat, since)
	if err != nil {
		return fmt.Errorf("export stopped after %d rows: %w", n, err)
	}
	e.log.Info("export finished", zap.Int("rows", n), zap.String("format", exportFormat))
	return nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}
