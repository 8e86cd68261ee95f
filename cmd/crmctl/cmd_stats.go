package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/woo-crm/internal/entity"
	"github.com/xavierca1/woo-crm/internal/infra/database"
	"github.com/xavierca1/woo-crm/internal/usecase"
)

var (
	statsDays int
	statsJSON bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show contact, lead and submission totals",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsDays, "days", 7, "Window for recent submissions")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	e, err := newEnv(true)
	if err != nil {
		return err
	}
	defer e.close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	stats, err := usecase.NewStatsUseCase(database.NewStatsRepository(e.db)).Execute(ctx, time.Now(), statsDays)
	if err != nil {
		return err
	}

	if statsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	printStats(cmd, stats)
	return nil
}

func printStats(cmd *cobra.Command, s *entity.Stats) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Contacts\t%d\n", s.Contacts)
	fmt.Fprintf(tw, "Leads\t%d\n", s.Leads)
	fmt.Fprintf(tw, "Submissions\t%d\n", s.Submissions)
	fmt.Fprintf(tw, "Submissions (last %d days)\t%d\n", statsDays, s.SubmissionsRecent)

	statuses := make([]string, 0, len(s.ByStatus))
	for st := range s.ByStatus {
		statuses = append(statuses, st)
	}
	sort.Strings(statuses)
	for _, st := range statuses {
		fmt.Fprintf(tw, "  status %s\t%d\n", st, s.ByStatus[st])
	}
	for _, ic := range s.TopInterests {
		fmt.Fprintf(tw, "  interest %s\t%d\n", ic.Key, ic.Contacts)
	}
	tw.Flush()
}
