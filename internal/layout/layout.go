// Package layout places category names and checkboxes on a wrapped 2D grid
// and answers directional "nearest stop" queries over it.
//
// Each category starts a new row with its name at LeftMargin. Its checkboxes
// follow on the same row, each rendered as "[x] name" plus Gap columns; a
// checkbox that would run past the viewport width wraps to a new row at
// WrapIndent. Every checkbox is one stop. A category without checkboxes gets
// a single stop on its name so it stays reachable.
package layout

import (
	"imgctool/internal/model"

	xansi "github.com/charmbracelet/x/ansi"
)

const (
	LeftMargin = 1
	WrapIndent = 4

	// Decoration is the width of "[x] " in front of a checkbox name.
	Decoration = 4
	Gap        = 2
)

type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Stop is one navigable cursor position.
type Stop struct {
	Row int
	Col int

	// Category is -1 for the placeholder stop of an empty store.
	Category int
	// Checkbox is the local position, or -1 for a name-only stop.
	Checkbox int
	// Global is the global checkbox index, or -1 for a name-only stop.
	Global int
}

func (s Stop) HasCheckbox() bool { return s.Checkbox >= 0 }

type PlacementKind int

const (
	PlaceCategory PlacementKind = iota
	PlaceCheckbox
)

// Placement is one rendered label: a category name, or a checkbox with its
// decoration starting at Col.
type Placement struct {
	Kind     PlacementKind
	Row      int
	Col      int
	Text     string
	Category int
	Checkbox int
	Global   int
	// Stop is the index of the stop anchored on this cell, or -1.
	Stop int
}

// Index is an immutable placement of one store at one viewport width. Build a
// new one after any structural change, rename or resize.
type Index struct {
	width      int
	rows       int
	stops      []Stop
	placements []Placement
}

func Build(st *model.Store, width int) *Index {
	idx := &Index{width: width}

	row := 0
	global := 0
	for ci, c := range st.Categories() {
		namePlace := Placement{
			Kind:     PlaceCategory,
			Row:      row,
			Col:      LeftMargin,
			Text:     c.Name,
			Category: ci,
			Checkbox: -1,
			Global:   -1,
			Stop:     -1,
		}
		if len(c.Checkboxes) == 0 {
			namePlace.Stop = len(idx.stops)
			idx.stops = append(idx.stops, Stop{Row: row, Col: LeftMargin, Category: ci, Checkbox: -1, Global: -1})
		}
		idx.placements = append(idx.placements, namePlace)

		col := LeftMargin + xansi.StringWidth(c.Name) + Gap
		for bi, name := range c.Checkboxes {
			w := Decoration + xansi.StringWidth(name)
			if col+w > width && col > WrapIndent {
				row++
				col = WrapIndent
			}
			idx.placements = append(idx.placements, Placement{
				Kind:     PlaceCheckbox,
				Row:      row,
				Col:      col,
				Text:     name,
				Category: ci,
				Checkbox: bi,
				Global:   global,
				Stop:     len(idx.stops),
			})
			// Anchor on the mark cell inside "[ ]".
			idx.stops = append(idx.stops, Stop{Row: row, Col: col + 1, Category: ci, Checkbox: bi, Global: global})
			col += w + Gap
			global++
		}
		row++
	}

	if len(idx.stops) == 0 {
		idx.stops = append(idx.stops, Stop{Row: 0, Col: LeftMargin, Category: -1, Checkbox: -1, Global: -1})
		row = 1
	}
	idx.rows = row
	return idx
}

func (x *Index) Width() int { return x.width }

// Rows is the number of rendered rows.
func (x *Index) Rows() int { return x.rows }

func (x *Index) Len() int { return len(x.stops) }

func (x *Index) Stop(i int) (Stop, bool) {
	if i < 0 || i >= len(x.stops) {
		return Stop{}, false
	}
	return x.stops[i], true
}

func (x *Index) Stops() []Stop { return append([]Stop(nil), x.stops...) }

func (x *Index) Placements() []Placement { return append([]Placement(nil), x.placements...) }

// Clamp maps i into [0, Len()).
func (x *Index) Clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(x.stops) {
		return len(x.stops) - 1
	}
	return i
}

// Find returns the stop for (category, checkbox); pass checkbox -1 for an
// empty category's name stop.
func (x *Index) Find(category, checkbox int) (int, bool) {
	for i, s := range x.stops {
		if s.Category == category && s.Checkbox == checkbox {
			return i, true
		}
	}
	return -1, false
}

// Next returns the nearest stop from current in direction dir. When nothing
// qualifies it returns (current, false); there is no wraparound.
//
//   - Down/Up: the closest row strictly below/above; ties broken by the
//     smallest column distance, then by stop order.
//   - Right/Left: same row, the closest column strictly right/left.
func (x *Index) Next(current int, dir Direction) (int, bool) {
	cur, ok := x.Stop(current)
	if !ok {
		return current, false
	}

	best := -1
	var bestStop Stop
	better := func(s Stop) bool {
		if best < 0 {
			return true
		}
		switch dir {
		case Down:
			if s.Row != bestStop.Row {
				return s.Row < bestStop.Row
			}
			return absInt(s.Col-cur.Col) < absInt(bestStop.Col-cur.Col)
		case Up:
			if s.Row != bestStop.Row {
				return s.Row > bestStop.Row
			}
			return absInt(s.Col-cur.Col) < absInt(bestStop.Col-cur.Col)
		case Right:
			return s.Col < bestStop.Col
		case Left:
			return s.Col > bestStop.Col
		}
		return false
	}

	for i, s := range x.stops {
		if i == current {
			continue
		}
		switch dir {
		case Down:
			if s.Row <= cur.Row {
				continue
			}
		case Up:
			if s.Row >= cur.Row {
				continue
			}
		case Right:
			if s.Row != cur.Row || s.Col <= cur.Col {
				continue
			}
		case Left:
			if s.Row != cur.Row || s.Col >= cur.Col {
				continue
			}
		default:
			continue
		}
		if better(s) {
			best = i
			bestStop = s
		}
	}

	if best < 0 {
		return current, false
	}
	return best, true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
