package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web dashboard",
	Long: `Start the web dashboard.

Every source is polled immediately and then on each interval. The page at
http://localhost:<port>/ updates live as new values arrive.

The server runs until interrupted (Ctrl+C) or it receives SIGTERM.

Example:
  livestatus serve -c config.yaml
  livestatus serve --url http://localhost:7071 --port 9090 --title "Cost Optimization Monitoring Tool"`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	addSourceFlags(serveCmd)
	serveCmd.Flags().Int("port", 8080, "dashboard HTTP port (overrides the config file)")
	serveCmd.Flags().String("title", "", "dashboard title (overrides the config file)")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := commandLogger(cmd)

	board, err := newBoard(cmd, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runUntilDone(ctx, func(ctx context.Context) error {
		return board.Start(ctx)
	}, logger.Warn)
}

// runUntilDone runs fn and waits for it to return. Once ctx is cancelled fn
// gets shutdownTimeout to finish before runUntilDone gives up on it.
func runUntilDone(ctx context.Context, fn func(context.Context) error, warn func(string, ...any)) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case <-ctx.Done():
		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-time.After(shutdownTimeout):
			warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
