package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the dashboard in the terminal",
	Long: `Poll the configured sources and redraw their values in the terminal
whenever a new result arrives. Logs go to stderr.

Example:
  livestatus watch --url http://localhost:7071
  livestatus watch -c config.yaml --interval 10s`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	addSourceFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := commandLogger(cmd)

	board, err := newBoard(cmd, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	return runUntilDone(ctx, func(ctx context.Context) error {
		return board.Watch(ctx, out)
	}, logger.Warn)
}
