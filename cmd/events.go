package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/sals/internal/quizsvc"
	"github.com/abhisek/sals/internal/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect logged quiz service requests",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent quiz service requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		op, _ := cmd.Flags().GetString("op")
		if op != "" && op != quizsvc.OpGenerate && op != quizsvc.OpSubmit {
			return fmt.Errorf("invalid op %q (want %s or %s)", op, quizsvc.OpGenerate, quizsvc.OpSubmit)
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		events, err := s.EventRepo().QueryServiceEvents(cmd.Context(), store.QueryOpts{Limit: limit, Op: op})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No requests found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-8s  %-24s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Op", "Subject", "Status", "Ms", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 90))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗ " + e.ErrorMessage
			}
			status := "-"
			if e.Status != 0 {
				status = fmt.Sprintf("%d", e.Status)
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-8s  %-24s  %-6s  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Op,
				truncate(e.Subject, 24),
				status,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func init() {
	eventsListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	eventsListCmd.Flags().StringP("op", "o", "", "Filter by operation (generate or submit)")

	eventsCmd.AddCommand(eventsListCmd)
}
