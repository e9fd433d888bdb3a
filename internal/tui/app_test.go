package tui

import (
	"errors"
	"strings"
	"testing"

	"imgctool/internal/editor"
	"imgctool/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

type fakeSaver struct {
	err   error
	saves int
	last  *model.Store
}

func (f *fakeSaver) Save(st *model.Store) error {
	if f.err != nil {
		return f.err
	}
	f.saves++
	f.last = st.Clone()
	return nil
}

func newTestApp(t *testing.T, files ...string) (*appModel, *fakeSaver) {
	t.Helper()
	st := model.NewStore()
	ci, err := st.AddCategory("colors")
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range []string{"red", "green", "blue"} {
		if _, err := st.AddCheckbox(ci, b); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		if _, _, err := st.AddFile(f); err != nil {
			t.Fatal(err)
		}
	}
	saver := &fakeSaver{}
	m := newAppModel(Options{
		Editor:   editor.New(st, 80),
		Saver:    saver,
		SavePath: ".imgctool",
		Viewer:   "display",
	})
	m.startViewer = func([]string) error { return nil }
	m.copyText = func(string) error { return nil }
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, saver
}

func press(m *appModel, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestApp_ToggleAndRender(t *testing.T) {
	m, _ := newTestApp(t, "a.png", "b.png")
	setGlyphs(glyphSetASCII)
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	press(m, tea.KeyMsg{Type: tea.KeySpace})
	if v, _ := m.ed.Store().Tag(0, 0); !v {
		t.Fatalf("expected red tagged on a.png")
	}

	view := xansi.Strip(m.View())
	if !strings.Contains(view, "[x] red") || !strings.Contains(view, "[ ] green") {
		t.Fatalf("expected checkbox marks in view:\n%s", view)
	}
	if !strings.Contains(view, "[1/2] a.png") {
		t.Fatalf("expected file indicator in header:\n%s", view)
	}
	if !strings.Contains(view, "controls") || !strings.Contains(view, "space: toggle tag") {
		t.Fatalf("expected controls panel:\n%s", view)
	}

	press(m, runes("n"))
	view = xansi.Strip(m.View())
	if !strings.Contains(view, "[2/2] b.png") || !strings.Contains(view, "[ ] red") {
		t.Fatalf("expected second image untagged:\n%s", view)
	}
	for _, ln := range strings.Split(m.View(), "\n") {
		if w := xansi.StringWidth(ln); w > 80 {
			t.Fatalf("line wider than terminal (%d): %q", w, ln)
		}
	}
}

func TestApp_SaveAndQuit(t *testing.T) {
	m, saver := newTestApp(t, "a.png")

	press(m, tea.KeyMsg{Type: tea.KeySpace})
	if cmd := press(m, runes("w")); isQuit(cmd) {
		t.Fatalf("save must not quit")
	}
	if saver.saves != 1 || m.ed.Dirty() {
		t.Fatalf("expected one save and a clean session; saves=%d dirty=%v", saver.saves, m.ed.Dirty())
	}
	if v, _ := saver.last.Tag(0, 0); !v {
		t.Fatalf("saved store missing tag")
	}

	if cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlC}); !isQuit(cmd) {
		t.Fatalf("expected ctrl+c to quit after saving")
	}
	if saver.saves != 2 {
		t.Fatalf("expected quit to save; saves=%d", saver.saves)
	}
}

func TestApp_QuitRefusedWhenSaveFails(t *testing.T) {
	m, saver := newTestApp(t, "a.png")
	saver.err = errors.New("disk full")

	if cmd := press(m, runes("q")); isQuit(cmd) {
		t.Fatalf("quit must be refused while saving fails")
	}
	if !strings.Contains(m.ed.Status(), "disk full") {
		t.Fatalf("expected save error in status; got %q", m.ed.Status())
	}

	saver.err = nil
	if cmd := press(m, runes("q")); !isQuit(cmd) {
		t.Fatalf("expected quit once saving works")
	}
}

func TestApp_PromptTakesTypedText(t *testing.T) {
	m, saver := newTestApp(t, "a.png")

	press(m, runes("a"))
	if !m.ed.Awaiting() {
		t.Fatalf("expected prompt")
	}
	// q and w are text while the prompt is open.
	press(m, runes("qw"), runes("e"))
	if saver.saves != 0 {
		t.Fatalf("keys typed into a prompt must not save")
	}
	view := xansi.Strip(m.View())
	if !strings.Contains(view, "New checkbox in colors: qwe") {
		t.Fatalf("expected prompt in status line:\n%s", view)
	}
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	c, _ := m.ed.Store().Category(0)
	if got := c.Checkboxes[len(c.Checkboxes)-1]; got != "qwe" {
		t.Fatalf("expected qwe appended; got %v", c.Checkboxes)
	}
}

func TestApp_ViewerAndClipboard(t *testing.T) {
	m, _ := newTestApp(t, "/imgs/a.png")

	var started []string
	m.startViewer = func(argv []string) error {
		started = argv
		return nil
	}
	var copied string
	m.copyText = func(s string) error {
		copied = s
		return nil
	}

	cmd := press(m, runes("o"))
	if cmd == nil {
		t.Fatalf("expected viewer command")
	}
	m.Update(cmd())
	if strings.Join(started, " ") != "display /imgs/a.png" {
		t.Fatalf("unexpected viewer argv: %v", started)
	}
	if !strings.Contains(m.ed.Status(), "Opened") {
		t.Fatalf("expected status after launch; got %q", m.ed.Status())
	}

	m.startViewer = func([]string) error { return errors.New("not found") }
	cmd = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(cmd())
	if !strings.Contains(m.ed.Status(), "not found") {
		t.Fatalf("expected launch failure in status; got %q", m.ed.Status())
	}

	cmd = press(m, runes("y"))
	m.Update(cmd())
	if copied != "/imgs/a.png" {
		t.Fatalf("expected path copied; got %q", copied)
	}
}

func TestApp_HelpOverlay(t *testing.T) {
	m, saver := newTestApp(t, "a.png")

	press(m, runes("?"))
	if !m.showHelp {
		t.Fatalf("expected help overlay")
	}
	if view := xansi.Strip(m.View()); !strings.Contains(view, "Keys") {
		t.Fatalf("expected keys doc in overlay:\n%s", view)
	}
	// q closes the overlay rather than quitting.
	if cmd := press(m, runes("q")); isQuit(cmd) || m.showHelp {
		t.Fatalf("expected q to close help only")
	}
	if saver.saves != 0 {
		t.Fatalf("closing help must not save")
	}
}

func TestApp_ScrollsToSelection(t *testing.T) {
	st := model.NewStore()
	for i := 0; i < 30; i++ {
		ci, err := st.AddCategory("c" + string(rune('a'+i%26)) + string(rune('a'+i/26)))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := st.AddCheckbox(ci, "x"); err != nil {
			t.Fatal(err)
		}
	}
	m := newAppModel(Options{Editor: editor.New(st, 80), Saver: &fakeSaver{}})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 12})

	for i := 0; i < 29; i++ {
		press(m, runes("j"))
	}
	row := m.ed.SelectedStop().Row
	if row != 29 {
		t.Fatalf("expected last row selected; got %d", row)
	}
	if row < m.top || row >= m.top+m.gridHeight() {
		t.Fatalf("selected row %d not visible (top=%d height=%d)", row, m.top, m.gridHeight())
	}
	if len(strings.Split(m.View(), "\n")) != 12 {
		t.Fatalf("expected view to fill the terminal height")
	}
}
