package tui

import (
	"errors"
	"io"
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"
)

type viewerStartedMsg struct {
	path string
	err  error
}

// startDetached starts argv without waiting for it. The child is reaped in the
// background so it never becomes a zombie.
func startDetached(argv []string) error {
	if len(argv) == 0 {
		return errors.New("empty viewer command")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = nil
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (m *appModel) openViewerCmd() tea.Cmd {
	f, ok := m.ed.CurrentFile()
	if !ok {
		return nil
	}
	argv := viewerArgv(m.viewer, f.Path)
	start := m.startViewer
	return func() tea.Msg {
		return viewerStartedMsg{path: f.Path, err: start(argv)}
	}
}
