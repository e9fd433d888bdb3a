package tui

import (
	"fmt"
	"strings"

	"imgctool/internal/editor"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type appModel struct {
	ed       *editor.Editor
	saver    Saver
	savePath string
	viewer   string
	log      *zap.SugaredLogger

	help     help.Model
	showHelp bool
	// helpTop is the first visible line of the help overlay.
	helpTop int

	width  int
	height int
	// top is the first visible grid row.
	top int

	startViewer func(argv []string) error
	copyText    func(string) error
}

func newAppModel(opts Options) *appModel {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	h := help.New()
	h.ShortSeparator = " " + glyphSeparator() + " "
	return &appModel{
		ed:          opts.Editor,
		saver:       opts.Saver,
		savePath:    opts.SavePath,
		viewer:      opts.Viewer,
		log:         log,
		help:        h,
		startViewer: startDetached,
		copyText:    copyToClipboard,
	}
}

func (m *appModel) Init() tea.Cmd { return nil }

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.ed.Resize(msg.Width)
		m.ensureVisible()
		return m, nil

	case viewerStartedMsg:
		if msg.err != nil {
			m.log.Warnw("viewer launch failed", "viewer", m.viewer, "path", msg.path, "error", msg.err)
			m.ed.SetStatus(fmt.Sprintf("Could not start %s: %v", m.viewer, msg.err))
			return m, nil
		}
		m.log.Debugw("viewer started", "viewer", m.viewer, "path", msg.path)
		m.ed.SetStatus(fmt.Sprintf("Opened %s", msg.path))
		return m, nil

	case clipboardDoneMsg:
		if msg.err != nil {
			m.log.Warnw("clipboard write failed", "error", msg.err)
			m.ed.SetStatus(fmt.Sprintf("Copy failed: %v", msg.err))
			return m, nil
		}
		m.ed.SetStatus(fmt.Sprintf("Copied %s", msg.text))
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q", "enter":
			m.showHelp = false
		case "j", "down":
			m.helpTop++
		case "k", "up":
			if m.helpTop > 0 {
				m.helpTop--
			}
		case "ctrl+c":
			m.showHelp = false
			return m.apply(editor.ActionQuit)
		}
		return m, nil
	}

	// Typed or pasted text goes straight into an open prompt.
	if m.ed.Awaiting() && msg.Type == tea.KeyRunes && !msg.Alt {
		m.ed.InsertText(string(msg.Runes))
		return m, nil
	}

	act := m.ed.HandleKey(msg.String())
	model, cmd := m.apply(act)
	m.ensureVisible()
	return model, cmd
}

func (m *appModel) apply(act editor.Action) (tea.Model, tea.Cmd) {
	switch act {
	case editor.ActionSave:
		_ = m.save()
	case editor.ActionQuit:
		if err := m.save(); err != nil {
			m.ed.SetStatus(fmt.Sprintf("Save failed, not quitting: %v", err))
			return m, nil
		}
		return m, tea.Quit
	case editor.ActionOpenViewer:
		return m, m.openViewerCmd()
	case editor.ActionCopyPath:
		return m, m.copyPathCmd()
	case editor.ActionHelp:
		m.showHelp = true
		m.helpTop = 0
	}
	return m, nil
}

func (m *appModel) save() error {
	st := m.ed.Store()
	if err := m.saver.Save(st); err != nil {
		m.log.Errorw("save failed", "path", m.savePath, "error", err)
		m.ed.SetStatus(fmt.Sprintf("Save failed: %v", err))
		return err
	}
	m.ed.MarkSaved()
	m.log.Debugw("saved", "path", m.savePath, "files", st.FileCount(), "categories", st.CategoryCount())
	m.ed.SetStatus(fmt.Sprintf("Saved %s to %s", plural(st.FileCount(), "image"), m.savePath))
	return nil
}

// ensureVisible scrolls the grid so the selected stop's row is on screen.
func (m *appModel) ensureVisible() {
	h := m.gridHeight()
	if h <= 0 {
		return
	}
	row := m.ed.SelectedStop().Row
	if row < m.top {
		m.top = row
	}
	if row >= m.top+h {
		m.top = row - h + 1
	}
	if maxTop := m.ed.Index().Rows() - h; m.top > maxTop {
		m.top = maxTop
	}
	if m.top < 0 {
		m.top = 0
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, strings.TrimSuffix(noun, "s"))
}
