package layout

import (
	"testing"

	"imgctool/internal/model"
)

func mustStore(t *testing.T, cats map[string][]string, order []string) *model.Store {
	t.Helper()
	st := model.NewStore()
	for _, name := range order {
		ci, err := st.AddCategory(name)
		if err != nil {
			t.Fatalf("AddCategory(%q): %v", name, err)
		}
		for _, b := range cats[name] {
			if _, err := st.AddCheckbox(ci, b); err != nil {
				t.Fatalf("AddCheckbox(%q): %v", b, err)
			}
		}
	}
	return st
}

func TestBuild_EmptyStoreHasPlaceholderStop(t *testing.T) {
	t.Parallel()

	idx := Build(model.NewStore(), 80)
	if idx.Len() != 1 {
		t.Fatalf("expected one stop; got %d", idx.Len())
	}
	s, _ := idx.Stop(0)
	if s.Row != 0 || s.Col != LeftMargin || s.Category != -1 || s.HasCheckbox() {
		t.Fatalf("unexpected placeholder stop: %#v", s)
	}
	if idx.Rows() != 1 {
		t.Fatalf("expected one row; got %d", idx.Rows())
	}
	for _, dir := range []Direction{Up, Down, Left, Right} {
		if got, moved := idx.Next(0, dir); moved || got != 0 {
			t.Fatalf("%s: expected no movement; got (%d, %v)", dir, got, moved)
		}
	}
}

func TestBuild_PlacesCheckboxesAfterName(t *testing.T) {
	t.Parallel()

	st := mustStore(t, map[string][]string{"A": {"alpha", "beta"}, "B": nil}, []string{"A", "B"})
	idx := Build(st, 80)

	want := []Stop{
		{Row: 0, Col: 5, Category: 0, Checkbox: 0, Global: 0},
		{Row: 0, Col: 16, Category: 0, Checkbox: 1, Global: 1},
		{Row: 1, Col: LeftMargin, Category: 1, Checkbox: -1, Global: -1},
	}
	got := idx.Stops()
	if len(got) != len(want) {
		t.Fatalf("expected %d stops; got %d (%#v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stop %d: want %#v got %#v", i, want[i], got[i])
		}
	}
	if idx.Rows() != 2 {
		t.Fatalf("expected 2 rows; got %d", idx.Rows())
	}

	var names, boxes int
	for _, p := range idx.Placements() {
		switch p.Kind {
		case PlaceCategory:
			names++
		case PlaceCheckbox:
			boxes++
			if p.Col+1 != got[p.Stop].Col {
				t.Fatalf("placement %q not aligned with its stop: %#v", p.Text, p)
			}
		}
	}
	if names != 2 || boxes != 2 {
		t.Fatalf("expected 2 names and 2 checkboxes; got %d and %d", names, boxes)
	}
}

func TestBuild_WrapsAtWidth(t *testing.T) {
	t.Parallel()

	st := mustStore(t, map[string][]string{"C": {"one", "two", "three"}}, []string{"C"})
	// "C" ends at col 2; "[ ] one" at 4..10, "[ ] two" at 13..19; 20 columns
	// leaves no room for "[ ] three".
	idx := Build(st, 20)

	stops := idx.Stops()
	if stops[0].Row != 0 || stops[1].Row != 0 {
		t.Fatalf("expected first two checkboxes on row 0: %#v", stops)
	}
	if stops[2].Row != 1 || stops[2].Col != WrapIndent+1 {
		t.Fatalf("expected third checkbox wrapped to (1, %d); got %#v", WrapIndent+1, stops[2])
	}
	if idx.Rows() != 2 {
		t.Fatalf("expected 2 rows; got %d", idx.Rows())
	}
}

func TestBuild_OverlongCheckboxStillPlaced(t *testing.T) {
	t.Parallel()

	st := mustStore(t, map[string][]string{"Category": {"a-very-long-checkbox-name", "b"}}, []string{"Category"})
	idx := Build(st, 10)

	stops := idx.Stops()
	if len(stops) != 2 {
		t.Fatalf("expected 2 stops; got %d", len(stops))
	}
	if stops[0].Row != 1 || stops[1].Row != 2 {
		t.Fatalf("expected each checkbox on its own wrapped row: %#v", stops)
	}
}

func TestBuild_UsesRenderedWidth(t *testing.T) {
	t.Parallel()

	st := mustStore(t, map[string][]string{"猫": {"x"}}, []string{"猫"})
	idx := Build(st, 80)
	s, _ := idx.Stop(0)
	// Wide rune occupies two columns: 1 + 2 + gap 2 = 5, anchor 6.
	if s.Col != 6 {
		t.Fatalf("expected anchor at column 6; got %d", s.Col)
	}
}

func TestNext_Navigation(t *testing.T) {
	t.Parallel()

	st := mustStore(t, map[string][]string{"A": {"alpha", "beta"}, "B": nil}, []string{"A", "B"})
	idx := Build(st, 80)
	const alpha, beta, b = 0, 1, 2

	tests := []struct {
		from  int
		dir   Direction
		want  int
		moved bool
	}{
		{alpha, Down, b, true},
		{beta, Down, b, true},
		{b, Up, alpha, true},
		{alpha, Right, beta, true},
		{beta, Right, beta, false},
		{beta, Left, alpha, true},
		{alpha, Left, alpha, false},
		{alpha, Up, alpha, false},
		{b, Down, b, false},
		{b, Right, b, false},
	}
	for _, tt := range tests {
		got, moved := idx.Next(tt.from, tt.dir)
		if got != tt.want || moved != tt.moved {
			t.Fatalf("Next(%d, %s): want (%d, %v) got (%d, %v)", tt.from, tt.dir, tt.want, tt.moved, got, moved)
		}
	}
}

func TestNext_VerticalPrefersClosestColumn(t *testing.T) {
	t.Parallel()

	st := mustStore(t, map[string][]string{
		"A": {"left", "right"},
		"B": {"x", "y", "z", "w"},
	}, []string{"A", "B"})
	idx := Build(st, 80)

	right, _ := idx.Find(0, 1)
	rs, _ := idx.Stop(right)
	got, moved := idx.Next(right, Down)
	if !moved {
		t.Fatalf("expected movement down")
	}
	gs, _ := idx.Stop(got)
	for i, s := range idx.Stops() {
		if s.Row != gs.Row || i == got {
			continue
		}
		if absInt(s.Col-rs.Col) < absInt(gs.Col-rs.Col) {
			t.Fatalf("stop %d at col %d is closer than chosen col %d", i, s.Col, gs.Col)
		}
	}
}

func TestNext_InvalidCurrent(t *testing.T) {
	t.Parallel()

	idx := Build(model.NewStore(), 80)
	if got, moved := idx.Next(5, Down); moved || got != 5 {
		t.Fatalf("expected (5, false); got (%d, %v)", got, moved)
	}
}

func TestClampAndFind(t *testing.T) {
	t.Parallel()

	st := mustStore(t, map[string][]string{"A": {"x"}, "B": nil}, []string{"A", "B"})
	idx := Build(st, 80)

	for _, tt := range []struct{ in, want int }{{-3, 0}, {0, 0}, {1, 1}, {9, 1}} {
		if got := idx.Clamp(tt.in); got != tt.want {
			t.Fatalf("Clamp(%d): want %d got %d", tt.in, tt.want, got)
		}
	}
	if i, ok := idx.Find(1, -1); !ok || i != 1 {
		t.Fatalf("Find(1, -1): got (%d, %v)", i, ok)
	}
	if _, ok := idx.Find(0, -1); ok {
		t.Fatalf("category with checkboxes should have no name stop")
	}
}
