// Package main is the entry point for the livestatus CLI.
//
// Usage:
//
//	livestatus serve -c config.yaml                              # web dashboard
//	livestatus watch --url http://localhost:7071/api/status      # terminal dashboard
//	livestatus validate -c config.yaml                           # validate configuration
//	livestatus mock --port 7071                                  # mock status endpoint
//	livestatus version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "livestatus",
	Short: "A live status dashboard for JSON status endpoints",
	Long: `livestatus polls HTTP status endpoints that return a flat JSON object and
shows every field as a labelled value, either in a web page updated over
Server-Sent Events or directly in the terminal.

Quick start:
  1. Run a mock endpoint:  livestatus mock
  2. Watch it:             livestatus watch --url http://localhost:7071
  3. Or serve it:          livestatus serve --url http://localhost:7071
  4. Open http://localhost:8080 in your browser

Example config:
  title: Cost Optimization Monitoring Tool
  poll_interval: 3s
  sources:
    - name: Live Status
      url: http://localhost:7071/api/status`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "livestatus %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "log at debug level")
	rootCmd.AddCommand(versionCmd)
}
