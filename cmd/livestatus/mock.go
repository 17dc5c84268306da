package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/livestatus/internal/mockapi"
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run a mock status endpoint",
	Long: `Serve GET /api/status with a randomised status document such as

  {"status":"Active","uptime":"99.9%","requests":42,"cpu_usage":17}

so a dashboard can be tried without a real backend.

Example:
  livestatus mock --port 7071 --project "Cost Optimization"
  livestatus mock --fail-rate 0.2`,
	RunE: runMock,
}

func init() {
	rootCmd.AddCommand(mockCmd)

	mockCmd.Flags().Int("port", 7071, "port to listen on")
	mockCmd.Flags().String("project", "Mock API", "project name written to the request log")
	mockCmd.Flags().Float64("fail-rate", 0, "fraction of requests answered with 500, between 0 and 1")
}

func runMock(cmd *cobra.Command, args []string) error {
	logger := commandLogger(cmd)

	port, _ := cmd.Flags().GetInt("port")
	project, _ := cmd.Flags().GetString("project")
	failRate, _ := cmd.Flags().GetFloat64("fail-rate")

	srv, err := mockapi.New(fmt.Sprintf(":%d", port),
		mockapi.WithProject(project),
		mockapi.WithFailRate(failRate),
		mockapi.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("invalid mock options: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("try it", "url", fmt.Sprintf("http://localhost:%d%s", port, mockapi.StatusPath))
	return srv.ListenAndServe(ctx)
}
