package editor

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists every binding the editor reacts to while idle. The TUI reuses
// it for the help bar and the controls panel.
type KeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Left           key.Binding
	Right          key.Binding
	Toggle         key.Binding
	NextFile       key.Binding
	PrevFile       key.Binding
	AddCategory    key.Binding
	AddCheckbox    key.Binding
	RenameCategory key.Binding
	RenameCheckbox key.Binding
	DeleteCategory key.Binding
	DeleteCheckbox key.Binding
	OpenViewer     key.Binding
	CopyPath       key.Binding
	Save           key.Binding
	Quit           key.Binding
	Help           key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle tag"),
		),
		NextFile: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next image"),
		),
		PrevFile: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "previous image"),
		),
		AddCategory: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "add category"),
		),
		AddCheckbox: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add checkbox"),
		),
		RenameCategory: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "rename category"),
		),
		RenameCheckbox: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename checkbox"),
		),
		DeleteCategory: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete category"),
		),
		DeleteCheckbox: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete checkbox"),
		),
		OpenViewer: key.NewBinding(
			key.WithKeys("o", "enter"),
			key.WithHelp("o", "open viewer"),
		),
		CopyPath: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy path"),
		),
		Save: key.NewBinding(
			key.WithKeys("w", "ctrl+s"),
			key.WithHelp("w", "save"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "save & quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.NextFile, k.PrevFile, k.Save, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Toggle},
		{k.NextFile, k.PrevFile, k.OpenViewer, k.CopyPath},
		{k.AddCategory, k.AddCheckbox, k.RenameCategory, k.RenameCheckbox},
		{k.DeleteCategory, k.DeleteCheckbox, k.Save, k.Quit, k.Help},
	}
}

// keyName lets a plain key string go through key.Matches.
type keyName string

func (k keyName) String() string { return string(k) }
