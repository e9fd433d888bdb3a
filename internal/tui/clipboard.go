package tui

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

type clipboardDoneMsg struct {
	text string
	err  error
}

func copyToClipboard(s string) error {
	return clipboard.WriteAll(s)
}

func (m *appModel) copyPathCmd() tea.Cmd {
	f, ok := m.ed.CurrentFile()
	if !ok {
		return nil
	}
	write := m.copyText
	return func() tea.Msg {
		return clipboardDoneMsg{text: f.Path, err: write(f.Path)}
	}
}
