// Package editor holds the interactive tagging session: the store, its
// layout, the cursor, the current image and the pending-input prompt. It maps
// key strings to operations and tells the caller which side effects (save,
// quit, viewer, clipboard, help) to perform; it never does I/O itself.
package editor

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"imgctool/internal/layout"
	"imgctool/internal/model"

	"github.com/charmbracelet/bubbles/key"
)

type Action int

const (
	ActionNone Action = iota
	ActionSave
	// ActionQuit asks the caller to save and then exit.
	ActionQuit
	ActionOpenViewer
	ActionCopyPath
	ActionHelp
)

func (a Action) String() string {
	switch a {
	case ActionSave:
		return "save"
	case ActionQuit:
		return "quit"
	case ActionOpenViewer:
		return "open-viewer"
	case ActionCopyPath:
		return "copy-path"
	case ActionHelp:
		return "help"
	default:
		return "none"
	}
}

type InputKind int

const (
	InputAddCategory InputKind = iota
	InputAddCheckbox
	InputRenameCategory
	InputRenameCheckbox
	InputConfirmDeleteCategory
	InputConfirmDeleteCheckbox
)

func (k InputKind) confirm() bool {
	return k == InputConfirmDeleteCategory || k == InputConfirmDeleteCheckbox
}

// Prompt is the AwaitingInput state. Category and Checkbox are the target
// captured when the prompt opened.
type Prompt struct {
	Kind     InputKind
	Label    string
	Text     string
	Category int
	Checkbox int
}

type Editor struct {
	store *model.Store
	index *layout.Index
	keys  KeyMap
	width int

	selected int
	file     int

	// nil means Idle.
	prompt *Prompt
	status string
	dirty  bool
}

func New(st *model.Store, width int) *Editor {
	if st == nil {
		st = model.NewStore()
	}
	e := &Editor{
		store: st,
		keys:  DefaultKeyMap(),
		width: width,
	}
	e.index = layout.Build(st, width)
	return e
}

func (e *Editor) Store() *model.Store { return e.store }
func (e *Editor) Index() *layout.Index { return e.index }
func (e *Editor) Keys() KeyMap { return e.keys }
func (e *Editor) Width() int { return e.width }
func (e *Editor) Selected() int { return e.selected }
func (e *Editor) Status() string { return e.status }
func (e *Editor) SetStatus(msg string) { e.status = msg }
func (e *Editor) Dirty() bool { return e.dirty }
func (e *Editor) MarkSaved() { e.dirty = false }
func (e *Editor) Awaiting() bool { return e.prompt != nil }
func (e *Editor) CurrentFileIndex() int { return e.file }

func (e *Editor) Prompt() (Prompt, bool) {
	if e.prompt == nil {
		return Prompt{}, false
	}
	return *e.prompt, true
}

func (e *Editor) SelectedStop() layout.Stop {
	s, _ := e.index.Stop(e.selected)
	return s
}

// CurrentFile returns the image being tagged.
func (e *Editor) CurrentFile() (model.File, bool) {
	return e.store.File(e.file)
}

// rebuild recomputes the layout and puts the cursor back on target when it
// still exists, otherwise on the clamped fallback index.
func (e *Editor) rebuild(target layout.Stop, fallback int) {
	e.index = layout.Build(e.store, e.width)
	if i, ok := e.index.Find(target.Category, target.Checkbox); ok && target.Category >= 0 {
		e.selected = i
		return
	}
	if target.Category >= 0 {
		// An empty category that just gained its first checkbox loses its
		// name stop.
		if i, ok := e.index.Find(target.Category, 0); ok {
			e.selected = i
			return
		}
	}
	e.selected = e.index.Clamp(fallback)
}

func (e *Editor) Resize(width int) {
	if width == e.width {
		return
	}
	e.width = width
	e.rebuild(e.SelectedStop(), e.selected)
}

// Move moves the cursor in dir and reports whether it moved.
func (e *Editor) Move(dir layout.Direction) bool {
	next, ok := e.index.Next(e.selected, dir)
	if ok {
		e.selected = next
	}
	return ok
}

// SelectFile moves the current image by delta without wrapping.
func (e *Editor) SelectFile(delta int) bool {
	n := e.store.FileCount()
	if n == 0 {
		return false
	}
	next := e.file + delta
	if next < 0 {
		next = 0
	}
	if next >= n {
		next = n - 1
	}
	if next == e.file {
		return false
	}
	e.file = next
	return true
}

// AddFile adds path unless it is already present.
func (e *Editor) AddFile(path string) (int, bool, error) {
	i, added, err := e.store.AddFile(path)
	if err != nil {
		return -1, false, err
	}
	if added {
		e.dirty = true
	}
	return i, added, nil
}

func (e *Editor) AddCategory(name string) error {
	target, at := e.SelectedStop(), e.selected
	if _, err := e.store.AddCategory(name); err != nil {
		return err
	}
	e.dirty = true
	e.rebuild(target, at)
	return nil
}

func (e *Editor) AddCheckbox(cat int, name string) error {
	target, at := e.SelectedStop(), e.selected
	if _, err := e.store.AddCheckbox(cat, name); err != nil {
		return err
	}
	e.dirty = true
	e.rebuild(target, at)
	return nil
}

func (e *Editor) RenameCategory(cat int, name string) error {
	target, at := e.SelectedStop(), e.selected
	if err := e.store.RenameCategory(cat, name); err != nil {
		return err
	}
	e.dirty = true
	e.rebuild(target, at)
	return nil
}

func (e *Editor) RenameCheckbox(cat, box int, name string) error {
	target, at := e.SelectedStop(), e.selected
	if err := e.store.RenameCheckbox(cat, box, name); err != nil {
		return err
	}
	e.dirty = true
	e.rebuild(target, at)
	return nil
}

// DeleteCategory removes cat; the cursor lands on the stop before it.
func (e *Editor) DeleteCategory(cat int) error {
	base := e.firstStopOf(cat)
	if err := e.store.DeleteCategory(cat); err != nil {
		return err
	}
	e.dirty = true
	e.rebuild(layout.Stop{Category: -1, Checkbox: -1}, base-1)
	return nil
}

// DeleteCheckbox removes one checkbox; the cursor lands on the stop before it.
func (e *Editor) DeleteCheckbox(cat, box int) error {
	base, ok := e.index.Find(cat, box)
	if !ok {
		base = e.selected
	}
	if err := e.store.DeleteCheckbox(cat, box); err != nil {
		return err
	}
	e.dirty = true
	e.rebuild(layout.Stop{Category: -1, Checkbox: -1}, base-1)
	return nil
}

func (e *Editor) firstStopOf(cat int) int {
	for i, s := range e.index.Stops() {
		if s.Category == cat {
			return i
		}
	}
	return e.selected
}

func (e *Editor) ToggleTag(file, global int) error {
	if err := e.store.ToggleTag(file, global); err != nil {
		return err
	}
	e.dirty = true
	return nil
}

// ToggleCurrent flips the selected checkbox on the current image.
func (e *Editor) ToggleCurrent() error {
	if e.store.FileCount() == 0 {
		return ErrNoFile
	}
	s := e.SelectedStop()
	if !s.HasCheckbox() {
		return ErrNoCheckbox
	}
	return e.ToggleTag(e.file, s.Global)
}

// HandleKey applies one key press and returns the side effect the caller has
// to perform. Key strings follow bubbletea's KeyMsg.String() names.
func (e *Editor) HandleKey(k string) Action {
	if e.prompt != nil {
		e.handlePromptKey(k)
		return ActionNone
	}

	km := keyName(k)
	var err error
	switch {
	case key.Matches(km, e.keys.Up):
		e.Move(layout.Up)
	case key.Matches(km, e.keys.Down):
		e.Move(layout.Down)
	case key.Matches(km, e.keys.Left):
		e.Move(layout.Left)
	case key.Matches(km, e.keys.Right):
		e.Move(layout.Right)
	case key.Matches(km, e.keys.Toggle):
		err = e.ToggleCurrent()
	case key.Matches(km, e.keys.NextFile):
		e.SelectFile(1)
	case key.Matches(km, e.keys.PrevFile):
		e.SelectFile(-1)
	case key.Matches(km, e.keys.AddCategory):
		err = e.openPrompt(InputAddCategory)
	case key.Matches(km, e.keys.AddCheckbox):
		err = e.openPrompt(InputAddCheckbox)
	case key.Matches(km, e.keys.RenameCategory):
		err = e.openPrompt(InputRenameCategory)
	case key.Matches(km, e.keys.RenameCheckbox):
		err = e.openPrompt(InputRenameCheckbox)
	case key.Matches(km, e.keys.DeleteCategory):
		err = e.openPrompt(InputConfirmDeleteCategory)
	case key.Matches(km, e.keys.DeleteCheckbox):
		err = e.openPrompt(InputConfirmDeleteCheckbox)
	case key.Matches(km, e.keys.OpenViewer):
		if e.store.FileCount() == 0 {
			err = ErrNoFile
			break
		}
		return ActionOpenViewer
	case key.Matches(km, e.keys.CopyPath):
		if e.store.FileCount() == 0 {
			err = ErrNoFile
			break
		}
		return ActionCopyPath
	case key.Matches(km, e.keys.Save):
		return ActionSave
	case key.Matches(km, e.keys.Quit):
		return ActionQuit
	case key.Matches(km, e.keys.Help):
		return ActionHelp
	}
	if err != nil {
		e.status = err.Error()
	}
	return ActionNone
}

// InsertText appends typed text to an open prompt. Control characters are
// dropped.
func (e *Editor) InsertText(s string) {
	if e.prompt == nil {
		return
	}
	var b strings.Builder
	for _, r := range s {
		if unicode.IsPrint(r) {
			b.WriteRune(r)
		}
	}
	e.prompt.Text += b.String()
}

func (e *Editor) openPrompt(kind InputKind) error {
	s := e.SelectedStop()
	p := &Prompt{Kind: kind, Category: s.Category, Checkbox: s.Checkbox}

	var catName, boxName string
	if c, ok := e.store.Category(s.Category); ok {
		catName = c.Name
		if s.HasCheckbox() {
			boxName = c.Checkboxes[s.Checkbox]
		}
	}

	switch kind {
	case InputAddCategory:
		p.Label = "New category"
	case InputAddCheckbox:
		if s.Category < 0 {
			return ErrNoCategory
		}
		p.Label = fmt.Sprintf("New checkbox in %s", catName)
	case InputRenameCategory:
		if s.Category < 0 {
			return ErrNoCategory
		}
		p.Label = fmt.Sprintf("Rename category %s", catName)
		p.Text = catName
	case InputRenameCheckbox:
		if !s.HasCheckbox() {
			return ErrNoCheckbox
		}
		p.Label = fmt.Sprintf("Rename checkbox %s", boxName)
		p.Text = boxName
	case InputConfirmDeleteCategory:
		if s.Category < 0 {
			return ErrNoCategory
		}
		p.Label = fmt.Sprintf("Delete category %s and its checkboxes? (y/N)", catName)
	case InputConfirmDeleteCheckbox:
		if !s.HasCheckbox() {
			return ErrNoCheckbox
		}
		p.Label = fmt.Sprintf("Delete checkbox %s? (y/N)", boxName)
	}
	e.prompt = p
	e.status = ""
	return nil
}

func (e *Editor) handlePromptKey(k string) {
	switch k {
	case "esc", "ctrl+g", "ctrl+c":
		e.prompt = nil
		e.status = "Cancelled"
	case "enter":
		p := *e.prompt
		e.prompt = nil
		e.commit(p)
	case "backspace", "ctrl+h":
		if _, size := utf8.DecodeLastRuneInString(e.prompt.Text); size > 0 {
			e.prompt.Text = e.prompt.Text[:len(e.prompt.Text)-size]
		}
	case "space":
		e.InsertText(" ")
	default:
		if utf8.RuneCountInString(k) == 1 {
			e.InsertText(k)
		}
	}
}

func (e *Editor) commit(p Prompt) {
	if p.Kind.confirm() {
		if ans := strings.ToLower(strings.TrimSpace(p.Text)); ans != "y" && ans != "yes" {
			e.status = "Cancelled"
			return
		}
	}

	var err error
	var done string
	switch p.Kind {
	case InputAddCategory:
		err = e.AddCategory(p.Text)
		done = fmt.Sprintf("Added category %s", p.Text)
	case InputAddCheckbox:
		err = e.AddCheckbox(p.Category, p.Text)
		done = fmt.Sprintf("Added checkbox %s", p.Text)
	case InputRenameCategory:
		err = e.RenameCategory(p.Category, p.Text)
		done = fmt.Sprintf("Renamed category to %s", p.Text)
	case InputRenameCheckbox:
		err = e.RenameCheckbox(p.Category, p.Checkbox, p.Text)
		done = fmt.Sprintf("Renamed checkbox to %s", p.Text)
	case InputConfirmDeleteCategory:
		err = e.DeleteCategory(p.Category)
		done = "Deleted category"
	case InputConfirmDeleteCheckbox:
		err = e.DeleteCheckbox(p.Category, p.Checkbox)
		done = "Deleted checkbox"
	}
	if err != nil {
		e.status = err.Error()
		return
	}
	e.status = done
}
