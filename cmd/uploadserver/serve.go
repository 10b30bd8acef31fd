package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"upload-server/internal"
	"upload-server/internal/infrastructure/db/postgres"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if serveMigrate {
			if err := migrate(); err != nil {
				return err
			}
		}

		app, err := internal.NewApp(ctx, cli.logger, cli.cfg)
		if err != nil {
			cli.logger.Error("init app failed", zap.Error(err))
			return err
		}
		defer app.Close()

		app.InitControllers()

		if err = app.Run(ctx); err != nil {
			app.Logger().Sugar().Errorf("%s stopped with error: %v", cli.cfg.App.Name, err)
			return err
		}
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database migrations and exit.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrate()
	},
}

func migrate() error {
	dsn, err := cli.cfg.MigrateDSN()
	if err != nil {
		return err
	}
	if err = postgres.Migrate(cli.logger, dsn); err != nil {
		cli.logger.Error("migration failed", zap.Error(err))
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)

	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply migrations before serving")
}
