package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/sals/internal/session"
)

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the last submitted attempt",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		last, err := session.LoadLastAttempt(cmd.Context(), d.kv)
		if err != nil && last.Empty() {
			return fmt.Errorf("load last attempt: %w", err)
		}

		out := cmd.OutOrStdout()
		if last.Empty() {
			fmt.Fprintln(out, "No quiz submitted yet.")
			return nil
		}
		fmt.Fprint(out, formatLastAttempt(last))
		return nil
	},
}

func formatLastAttempt(a session.LastAttempt) string {
	var b strings.Builder

	id := a.AttemptID
	if id == "" {
		id = "unknown"
	}
	fmt.Fprintf(&b, "Attempt:   %s\n", id)

	switch {
	case a.WeakConcepts == nil:
		b.WriteString("Weak:      (not recorded)\n")
	case len(a.WeakConcepts) == 0:
		b.WriteString("Weak:      none\n")
	default:
		fmt.Fprintf(&b, "Weak:      %s\n", strings.Join(a.WeakConcepts, ", "))
	}
	if len(a.AllConcepts) > 0 {
		fmt.Fprintf(&b, "Concepts:  %s\n", strings.Join(a.AllConcepts, ", "))
	}

	if len(a.Answers) > 0 {
		b.WriteString("\nAnswers\n")
		b.WriteString(strings.Repeat("─", 40) + "\n")
		indices := make([]int, 0, len(a.Answers))
		for i := range a.Answers {
			indices = append(indices, i)
		}
		sort.Ints(indices)
		for _, i := range indices {
			fmt.Fprintf(&b, "Q%-3d %s\n", i+1, a.Answers[i])
		}
	}
	return b.String()
}
