package cli

import (
	"fmt"
	"os"
	"strings"

	"imgctool/internal/config"
	"imgctool/internal/format"
	"imgctool/internal/logging"
	"imgctool/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	ConfigPath string
	SaveFile   string
	Viewer     string
	Format     string
	Pretty     bool
	LogFile    string
	LogLevel   string

	cfg      *config.Config
	log      *zap.SugaredLogger
	closeLog func()
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "imgctool [IMAGES...]",
		Short:        "Tag images with categories of checkboxes",
		SilenceUsage: true,
		Args:         cobra.ArbitraryArgs,
		Example: strings.TrimSpace(`
  # Tag some images interactively
  imgctool shots/*.png

  # Use another viewer for this session
  IMG_VIEWER=feh imgctool a.jpg b.jpg

  # Scriptable commands
  imgctool show --format yaml
  imgctool find --tag colors/red --tag mood/happy
  imgctool export sqlite tags.db
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTag(cmd, app, args)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		app.teardown()
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("IMGCTOOL_CONFIG", ""), "Config file (default: search $XDG_CONFIG_HOME/imgctool, ~/.config/imgctool, .)")
	cmd.PersistentFlags().StringVar(&app.SaveFile, "file", "", "Save file (default: .imgctool in the working directory)")
	cmd.PersistentFlags().StringVar(&app.Viewer, "viewer", "", "Image viewer command (default: $IMG_VIEWER or display)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("IMGCTOOL_FORMAT", "json"), "Output format (json|edn|yaml)")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Write logs to this file")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newFindCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newCheckCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// setup loads config, applies flag overrides and opens the logger.
func (app *App) setup(cmd *cobra.Command) error {
	if !format.Valid(app.Format) {
		return writeErr(cmd, usageErr("unknown format %q (want json, edn or yaml)", app.Format))
	}

	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	if flagChanged(cmd, "file") {
		cfg.SaveFile = app.SaveFile
	}
	if flagChanged(cmd, "viewer") {
		cfg.Viewer = app.Viewer
	}
	if flagChanged(cmd, "log-file") {
		cfg.Log.File = app.LogFile
	}
	if flagChanged(cmd, "log-level") {
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(app.LogLevel))
	}
	if err := cfg.Validate(); err != nil {
		return writeErr(cmd, err)
	}

	log, closeLog, err := logging.New(logging.Config{
		Level:    cfg.Log.Level,
		Encoding: cfg.Log.Encoding,
		File:     cfg.Log.File,
	})
	if err != nil {
		return writeErr(cmd, fmt.Errorf("logging: %w", err))
	}

	app.cfg = cfg
	app.log = log
	app.closeLog = closeLog
	app.log.Debugw("config loaded",
		"source", cfg.Source,
		"save_file", cfg.SaveFile,
		"viewer", cfg.Viewer,
		"command", cmd.CommandPath(),
	)
	return nil
}

func (app *App) teardown() {
	if app.closeLog != nil {
		app.closeLog()
		app.closeLog = nil
	}
}

func (app *App) saveFile() store.Store {
	return store.Store{Path: app.cfg.SaveFile, Backup: app.cfg.Backup}
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
