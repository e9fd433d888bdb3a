package tui

import (
	"imgctool/internal/editor"
	"imgctool/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Saver persists the store; store.Store satisfies it.
type Saver interface {
	Save(st *model.Store) error
}

type Options struct {
	Editor   *editor.Editor
	Saver    Saver
	SavePath string
	Viewer   string
	Logger   *zap.SugaredLogger

	// Glyphs is "unicode" or "ascii"; Theme is "auto", "light" or "dark".
	Glyphs string
	Theme  string
}

// Run blocks until the user quits after a successful save.
func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)
	applyGlyphPreference(opts.Glyphs)

	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
