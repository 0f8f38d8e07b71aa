package cmd

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/sals/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "sals",
	Short: "Terminal client for the SALS quiz service",
	Long:  "SALS generates a multiple-choice quiz on any topic, scores your answers and shows the concepts you should review.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadDotEnv()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SALS_DB env var)")
	rootCmd.PersistentFlags().String("kv", "", "Last-attempt store: sqlite, redis or memory (overrides SALS_KV env var)")
	rootCmd.PersistentFlags().String("server", "", "Quiz service base URL (overrides SALS_API_URL env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(lastCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadDotEnv reads a .env file from the working directory if there is one.
// Variables already set in the environment win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then SALS_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
