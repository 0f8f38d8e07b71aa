package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/sals/internal/app"
	"github.com/abhisek/sals/internal/cli"
	"github.com/abhisek/sals/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Take a quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		if plain, _ := cmd.Flags().GetBool("plain"); plain {
			return runPlain(cmd, topic)
		}
		return runApp(cmd, topic)
	},
}

func init() {
	playCmd.Flags().StringP("topic", "t", "", "Quiz topic; starts generating right away")
	playCmd.Flags().Bool("plain", false, "Line mode: read answers from stdin instead of the full-screen UI")
}

// runApp opens the dependencies and launches the TUI.
func runApp(cmd *cobra.Command, topic string) error {
	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	return app.Run(app.Options{
		Service:   d.service,
		Store:     d.kv,
		EventRepo: d.store.EventRepo(),
		Topic:     topic,
	})
}

// runPlain runs one quiz in line mode on stdin and stdout.
func runPlain(cmd *cobra.Command, topic string) error {
	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runner := session.NewRunner(d.service, d.kv)
	return cli.Run(ctx, runner, topic, os.Stdin, cmd.OutOrStdout())
}
