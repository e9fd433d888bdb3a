package cli

import (
	"context"
	"strings"

	"imgctool/internal/store"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tags to other formats",
	}
	cmd.AddCommand(newExportSQLiteCmd(app))
	return cmd
}

func newExportSQLiteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sqlite PATH",
		Short: "Write categories, images and tags to a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := strings.TrimSpace(args[0])
			if dbPath == "" {
				return writeErr(cmd, usageErr("database path is empty"))
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			st, err := app.saveFile().Load()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := store.ExportSQLite(ctx, dbPath, st); err != nil {
				app.log.Errorw("sqlite export failed", "path", dbPath, "error", err)
				return writeErr(cmd, err)
			}
			stats, err := store.SQLiteSummary(ctx, dbPath)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.log.Infow("sqlite export written", "path", dbPath, "files", stats.Files, "tags", stats.Tags)

			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"path":  dbPath,
				"stats": stats,
			}})
		},
	}
}
