package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/livestatus"
	"github.com/jpalmerr/livestatus/config"
)

const defaultSourceName = "Live Status"

// addSourceFlags registers the flags shared by serve and watch.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "path to config file")
	cmd.Flags().String("url", "", "status endpoint to poll instead of a config file")
	cmd.Flags().String("name", defaultSourceName, "panel name when using --url")
	cmd.Flags().Duration("interval", 0, "polling interval (overrides the config file)")
	cmd.MarkFlagsMutuallyExclusive("config", "url")
	cmd.MarkFlagsOneRequired("config", "url")
}

// boardOptions assembles board options from either the config file or the
// --url flag, then applies flag overrides.
func boardOptions(cmd *cobra.Command, logger *slog.Logger) ([]livestatus.Option, error) {
	var opts []livestatus.Option

	configFile, _ := cmd.Flags().GetString("config")
	rawURL, _ := cmd.Flags().GetString("url")

	switch {
	case configFile != "":
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		logger.Info("config loaded",
			"path", configFile,
			"sources", len(cfg.Sources),
			"grids", len(cfg.Grids),
		)

		opts, err = config.BoardOptions(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to build sources: %w", err)
		}

	case rawURL != "":
		name, _ := cmd.Flags().GetString("name")
		src, err := livestatus.NewSource(name, rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid --url: %w", err)
		}
		opts = append(opts, livestatus.WithSource(src))

	default:
		return nil, errors.New("either --config or --url is required")
	}

	if cmd.Flags().Changed("interval") {
		interval, _ := cmd.Flags().GetDuration("interval")
		opts = append(opts, livestatus.WithPollingInterval(interval))
	}
	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		port, _ := cmd.Flags().GetInt("port")
		opts = append(opts, livestatus.WithPort(port))
	}
	if f := cmd.Flags().Lookup("title"); f != nil && f.Changed {
		title, _ := cmd.Flags().GetString("title")
		opts = append(opts, livestatus.WithTitle(title))
	}

	opts = append(opts, livestatus.WithLogger(logger))
	return opts, nil
}

// newBoard builds a board from the command's flags.
func newBoard(cmd *cobra.Command, logger *slog.Logger) (*livestatus.Board, error) {
	opts, err := boardOptions(cmd, logger)
	if err != nil {
		return nil, err
	}

	board, err := livestatus.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}
	return board, nil
}
