package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the CLI and TUI read at startup.
type Config struct {
	Viewer   string
	SaveFile string
	Backup   bool

	TUI TUIConfig
	Log LogConfig

	// Source is the config file that was read, or "" when none was found.
	Source string
}

type TUIConfig struct {
	Glyphs string
	Theme  string
}

type LogConfig struct {
	Level    string
	Encoding string
	File     string
}

const (
	EnvPrefix      = "IMGCTOOL"
	ViewerEnv      = "IMG_VIEWER"
	DefaultViewer  = "display"
	DefaultSave    = ".imgctool"
	configBaseName = "config"
)

var ErrInvalidValue = errors.New("invalid config value")

// Load reads configuration with a dedicated viper instance.
// Config file name: config.yaml, searched in $XDG_CONFIG_HOME/imgctool,
// $HOME/.config/imgctool and "." unless path names one explicitly.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configBaseName)
		for _, dir := range searchDirs() {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// IMG_VIEWER predates the config file; IMGCTOOL_VIEWER wins when both are set.
	if err := v.BindEnv("viewer", EnvPrefix+"_VIEWER", ViewerEnv); err != nil {
		return nil, err
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Viewer:   strings.TrimSpace(v.GetString("viewer")),
		SaveFile: strings.TrimSpace(v.GetString("save_file")),
		Backup:   v.GetBool("backup"),
		Source:   v.ConfigFileUsed(),
	}
	cfg.TUI.Glyphs = strings.ToLower(strings.TrimSpace(v.GetString("tui.glyphs")))
	cfg.TUI.Theme = strings.ToLower(strings.TrimSpace(v.GetString("tui.theme")))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(v.GetString("log.level")))
	cfg.Log.Encoding = strings.ToLower(strings.TrimSpace(v.GetString("log.encoding")))
	cfg.Log.File = strings.TrimSpace(v.GetString("log.file"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Viewer == "" {
		return fmt.Errorf("%w: viewer is empty", ErrInvalidValue)
	}
	if c.SaveFile == "" {
		return fmt.Errorf("%w: save_file is empty", ErrInvalidValue)
	}
	switch c.TUI.Glyphs {
	case "unicode", "ascii":
	default:
		return fmt.Errorf("%w: tui.glyphs must be unicode or ascii (got %q)", ErrInvalidValue, c.TUI.Glyphs)
	}
	switch c.TUI.Theme {
	case "auto", "light", "dark":
	default:
		return fmt.Errorf("%w: tui.theme must be auto, light or dark (got %q)", ErrInvalidValue, c.TUI.Theme)
	}
	switch c.Log.Encoding {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log.encoding must be console or json (got %q)", ErrInvalidValue, c.Log.Encoding)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error", "dpanic", "panic", "fatal":
	default:
		return fmt.Errorf("%w: log.level must be one of debug, info, warn, error, dpanic, panic or fatal (got %q)", ErrInvalidValue, c.Log.Level)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("viewer", DefaultViewer)
	v.SetDefault("save_file", DefaultSave)
	v.SetDefault("backup", true)
	v.SetDefault("tui.glyphs", "unicode")
	v.SetDefault("tui.theme", "auto")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.file", "")
}

func searchDirs() []string {
	var dirs []string
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "imgctool"))
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, filepath.Join(home, ".config", "imgctool"))
	}
	return append(dirs, ".")
}
