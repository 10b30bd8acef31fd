package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"upload-server/config"
	"upload-server/internal"
)

var cli struct {
	logger *zap.Logger
	cfg    config.Config
}

// rootCmd serves HTTP when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:          "uploadserver",
	Short:        "Image uploads with filtered listing and streamed CSV exports.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := internal.NewLogger()
		if err != nil {
			return err
		}
		cli.logger = logger
		cli.cfg = internal.LoadConfig(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cli.logger != nil {
			_ = cli.logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}
