package tui

import (
	"fmt"
	"strings"

	"imgctool/internal/docs"
	"imgctool/internal/layout"
	"imgctool/internal/model"

	xansi "github.com/charmbracelet/x/ansi"
)

// controlWidth is the column width of one entry in the controls panel.
const controlWidth = 26

func (m *appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.showHelp {
		return m.viewHelp()
	}
	return strings.Join([]string{
		m.viewHeader(),
		m.viewGrid(),
		m.viewStatus(),
		m.viewControls(),
	}, "\n")
}

func (m *appModel) viewHeader() string {
	st := m.ed.Store()
	var b strings.Builder
	b.WriteString(styleTitle().Render("imgctool"))
	b.WriteString(" ")
	if f, ok := m.ed.CurrentFile(); ok {
		b.WriteString(styleMuted().Render(fmt.Sprintf("[%d/%d]", m.ed.CurrentFileIndex()+1, st.FileCount())))
		b.WriteString(" ")
		b.WriteString(f.Path)
	} else {
		b.WriteString(styleMuted().Render("no images"))
	}
	if m.ed.Dirty() {
		b.WriteString(" ")
		b.WriteString(styleMuted().Render(glyphDirty()))
	}
	return fitLine(b.String(), m.width)
}

func (m *appModel) viewGrid() string {
	h := m.gridHeight()
	if h <= 0 {
		return ""
	}
	idx := m.ed.Index()
	if m.ed.Store().CategoryCount() == 0 {
		hint := strings.Repeat(" ", layout.LeftMargin) + styleMuted().Render("No categories yet. Press A to add one.")
		return normalizePane(hint, m.width, h)
	}

	byRow := map[int][]layout.Placement{}
	for _, p := range idx.Placements() {
		byRow[p.Row] = append(byRow[p.Row], p)
	}
	file, hasFile := m.ed.CurrentFile()
	sel := m.ed.Selected()

	lines := make([]string, 0, h)
	for r := m.top; r < m.top+h && r < idx.Rows(); r++ {
		var b strings.Builder
		col := 0
		// Placements are built in column order within a row.
		for _, p := range byRow[r] {
			if p.Col > col {
				b.WriteString(strings.Repeat(" ", p.Col-col))
				col = p.Col
			}
			s := renderPlacement(p, file, hasFile, p.Stop >= 0 && p.Stop == sel)
			b.WriteString(s)
			col += xansi.StringWidth(s)
		}
		lines = append(lines, b.String())
	}
	return normalizePane(strings.Join(lines, "\n"), m.width, h)
}

func renderPlacement(p layout.Placement, f model.File, hasFile bool, selected bool) string {
	if p.Kind == layout.PlaceCategory {
		if selected {
			return styleSelected().Render(p.Text)
		}
		return styleCategory().Render(p.Text)
	}

	checked := hasFile && f.Tags.Get(p.Global)
	mark := " "
	if checked {
		mark = glyphCheck()
	}
	s := "[" + mark + "] " + p.Text
	switch {
	case selected:
		return styleSelected().Render(s)
	case checked:
		return styleChecked().Render(s)
	default:
		return s
	}
}

func (m *appModel) viewStatus() string {
	if p, ok := m.ed.Prompt(); ok {
		return fitLine(p.Label+": "+p.Text+glyphCursor(), m.width)
	}
	msg := m.ed.Status()
	if strings.HasPrefix(msg, "Save failed") || strings.HasPrefix(msg, "Could not") {
		return fitLine(styleError().Render(msg), m.width)
	}
	return fitLine(styleMuted().Render(msg), m.width)
}

// controls lists "key: description" for every binding, like the help bar.
func (m *appModel) controls() []string {
	var out []string
	for _, col := range m.ed.Keys().FullHelp() {
		for _, b := range col {
			h := b.Help()
			out = append(out, h.Key+": "+h.Desc)
		}
	}
	return out
}

func (m *appModel) controlsPerLine() int {
	n := m.width / controlWidth
	if n < 1 {
		n = 1
	}
	return n
}

// compactControls is true when the full controls panel would leave the grid
// fewer than three rows; the panel then collapses into one help line.
func (m *appModel) compactControls() bool {
	entries := len(m.controls())
	per := m.controlsPerLine()
	lines := (entries + per - 1) / per
	return m.height-2-(1+lines) < 3
}

func (m *appModel) controlsHeight() int {
	if m.compactControls() {
		return 1
	}
	entries := len(m.controls())
	per := m.controlsPerLine()
	return 1 + (entries+per-1)/per
}

func (m *appModel) gridHeight() int {
	return m.height - 2 - m.controlsHeight()
}

func (m *appModel) viewControls() string {
	if m.compactControls() {
		return fitLine(m.help.ShortHelpView(m.ed.Keys().ShortHelp()), m.width)
	}
	entries := m.controls()
	per := m.controlsPerLine()
	lines := []string{styleSectionTitle().Render("controls")}
	for i := 0; i < len(entries); i += per {
		var b strings.Builder
		for j := i; j < i+per && j < len(entries); j++ {
			b.WriteString(fitLine(styleMuted().Render(entries[j]), controlWidth))
		}
		lines = append(lines, fitLine(b.String(), m.width))
	}
	return strings.Join(lines, "\n")
}

func (m *appModel) viewHelp() string {
	body, _ := docs.Get("keys")
	out := docs.Render(body, m.width-2, markdownStyle())
	lines := strings.Split(out, "\n")

	h := m.height - 1
	if h < 1 {
		h = 1
	}
	if maxTop := len(lines) - h; m.helpTop > maxTop {
		m.helpTop = maxTop
	}
	if m.helpTop < 0 {
		m.helpTop = 0
	}
	end := m.helpTop + h
	if end > len(lines) {
		end = len(lines)
	}
	footer := styleMuted().Render("esc/? close " + glyphSeparator() + " j/k scroll")
	return normalizePane(strings.Join(lines[m.helpTop:end], "\n"), m.width, h) + "\n" + fitLine(footer, m.width)
}
