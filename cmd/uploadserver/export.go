package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"upload-server/internal"
)

var exportSearch string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export matching uploads to a CSV report and print its URL.",
	Long:  `Export runs the same pipeline as POST /uploads/exports: rows are read through a database cursor, encoded as CSV and streamed to object storage under the downloads folder.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := internal.NewApp(cmd.Context(), cli.logger, cli.cfg)
		if err != nil {
			cli.logger.Error("init app failed", zap.Error(err))
			return err
		}
		defer app.Close()

		url, err := app.Export(cmd.Context(), exportSearch)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), url)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportSearch, "search", "s", "", "Case-insensitive name substring to filter by")
}
