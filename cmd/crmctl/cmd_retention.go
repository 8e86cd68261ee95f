package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/woo-crm/internal/infra/database"
	"github.com/xavierca1/woo-crm/internal/usecase"
)

var retentionDays int

var retentionCmd = &cobra.Command{
	Use:   "retention",
	Short: "Delete submissions and leads older than the retention window",
	Long: `Run the retention cleanup once. The window defaults to RETENTION_DAYS;
--days overrides it. A window of 0 keeps everything.`,
	RunE: runRetention,
}

func init() {
	retentionCmd.Flags().IntVar(&retentionDays, "days", -1, "Override RETENTION_DAYS")
}

func runRetention(cmd *cobra.Command, args []string) error {
	e, err := newEnv(true)
	if err != nil {
		return err
	}
	defer e.close()

	days := e.cfg.Retention.Days
	if retentionDays >= 0 {
		days = retentionDays
	}
	uc := usecase.NewRetentionUseCase(database.NewRetentionRepository(e.db), days, e.log)
	if !uc.Enabled() {
		fmt.Fprintln(cmd.OutOrStdout(), "retention disabled, nothing to do")
		return nil
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	res, err := uc.Cleanup(ctx, time.Now())
	if err != nil {
		return err
	}

	tables := make([]string, 0, len(res.Deleted))
	for t := range res.Deleted {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "cutoff %s\n", res.Cutoff.Format(time.RFC3339))
	for _, t := range tables {
		fmt.Fprintf(out, "  %-20s %d\n", t, res.Deleted[t])
	}
	fmt.Fprintf(out, "  %-20s %d\n", "total", res.Total)
	return nil
}
