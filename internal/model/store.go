package model

import "fmt"

// Category is a named group of checkboxes. Checkbox order is significant: it
// determines each checkbox's global index.
type Category struct {
	Name       string   `json:"name"`
	Checkboxes []string `json:"checkboxes"`
}

// File is a tagged image path.
type File struct {
	Path string `json:"path"`
	Tags TagSet `json:"-"`
}

// Store is the complete in-memory tagging model.
//
// Every file's TagSet always has exactly TotalCheckboxes() bits. Topology
// changes go through remapTags so each surviving checkbox keeps its bit.
type Store struct {
	categories []Category
	files      []File
}

func NewStore() *Store {
	return &Store{}
}

// NewStoreFrom builds a store from decoded data. Names and paths are validated
// and a path listed twice is an error. Tag sets are resized (not remapped) to
// the resulting checkbox count since the caller supplies them already
// addressed by global index.
func NewStoreFrom(categories []Category, files []File) (*Store, error) {
	s := &Store{}
	for _, c := range categories {
		if err := ValidateName("category", c.Name); err != nil {
			return nil, err
		}
		for _, b := range c.Checkboxes {
			if err := ValidateName("checkbox", b); err != nil {
				return nil, err
			}
		}
		s.categories = append(s.categories, Category{Name: c.Name, Checkboxes: append([]string(nil), c.Checkboxes...)})
	}
	n := s.TotalCheckboxes()
	seen := map[string]bool{}
	for _, f := range files {
		if err := ValidatePath(f.Path); err != nil {
			return nil, err
		}
		if seen[f.Path] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePath, f.Path)
		}
		seen[f.Path] = true
		tags := f.Tags
		if tags.Len() != n {
			identity := make([]int, n)
			for i := range identity {
				if i < tags.Len() {
					identity[i] = i
				} else {
					identity[i] = NewSlot
				}
			}
			tags = tags.Remap(identity)
		} else {
			tags = tags.Clone()
		}
		s.files = append(s.files, File{Path: f.Path, Tags: tags})
	}
	return s, nil
}

func (s *Store) Categories() []Category {
	out := make([]Category, len(s.categories))
	for i, c := range s.categories {
		out[i] = Category{Name: c.Name, Checkboxes: append([]string(nil), c.Checkboxes...)}
	}
	return out
}

func (s *Store) CategoryCount() int { return len(s.categories) }

func (s *Store) Category(i int) (Category, bool) {
	if i < 0 || i >= len(s.categories) {
		return Category{}, false
	}
	c := s.categories[i]
	return Category{Name: c.Name, Checkboxes: append([]string(nil), c.Checkboxes...)}, true
}

func (s *Store) Files() []File {
	out := make([]File, len(s.files))
	for i, f := range s.files {
		out[i] = File{Path: f.Path, Tags: f.Tags.Clone()}
	}
	return out
}

func (s *Store) FileCount() int { return len(s.files) }

func (s *Store) File(i int) (File, bool) {
	if i < 0 || i >= len(s.files) {
		return File{}, false
	}
	f := s.files[i]
	return File{Path: f.Path, Tags: f.Tags.Clone()}, true
}

// FileIndex returns the index of path, or -1.
func (s *Store) FileIndex(path string) int {
	for i, f := range s.files {
		if f.Path == path {
			return i
		}
	}
	return -1
}

func (s *Store) TotalCheckboxes() int {
	n := 0
	for _, c := range s.categories {
		n += len(c.Checkboxes)
	}
	return n
}

// offset returns the global index of the first checkbox of category cat.
func (s *Store) offset(cat int) int {
	n := 0
	for i := 0; i < cat && i < len(s.categories); i++ {
		n += len(s.categories[i].Checkboxes)
	}
	return n
}

// GlobalIndex converts (category, local position) to a global checkbox index.
func (s *Store) GlobalIndex(cat, box int) (int, bool) {
	if cat < 0 || cat >= len(s.categories) {
		return -1, false
	}
	if box < 0 || box >= len(s.categories[cat].Checkboxes) {
		return -1, false
	}
	return s.offset(cat) + box, true
}

// Locate converts a global checkbox index back to (category, local position).
func (s *Store) Locate(global int) (cat int, box int, ok bool) {
	if global < 0 {
		return -1, -1, false
	}
	for i, c := range s.categories {
		if global < len(c.Checkboxes) {
			return i, global, true
		}
		global -= len(c.Checkboxes)
	}
	return -1, -1, false
}

// CheckboxName returns "category/checkbox" for a global index.
func (s *Store) CheckboxName(global int) (category string, checkbox string, ok bool) {
	cat, box, ok := s.Locate(global)
	if !ok {
		return "", "", false
	}
	return s.categories[cat].Name, s.categories[cat].Checkboxes[box], true
}

func (s *Store) AddCategory(name string) (int, error) {
	if err := ValidateName("category", name); err != nil {
		return -1, err
	}
	s.categories = append(s.categories, Category{Name: name})
	return len(s.categories) - 1, nil
}

// AddCheckbox appends a checkbox to category cat and returns its local position.
func (s *Store) AddCheckbox(cat int, name string) (int, error) {
	if cat < 0 || cat >= len(s.categories) {
		return -1, outOfRange("category", cat, len(s.categories))
	}
	pos := len(s.categories[cat].Checkboxes)
	if err := s.InsertCheckbox(cat, pos, name); err != nil {
		return -1, err
	}
	return pos, nil
}

// InsertCheckbox inserts a checkbox at local position pos of category cat.
// Every file gets a zero bit for it; all other bits follow their checkbox.
func (s *Store) InsertCheckbox(cat, pos int, name string) error {
	if cat < 0 || cat >= len(s.categories) {
		return outOfRange("category", cat, len(s.categories))
	}
	boxes := s.categories[cat].Checkboxes
	if pos < 0 || pos > len(boxes) {
		return outOfRange("checkbox position", pos, len(boxes))
	}
	if err := ValidateName("checkbox", name); err != nil {
		return err
	}

	oldN := s.TotalCheckboxes()
	at := s.offset(cat) + pos
	sources := make([]int, oldN+1)
	for j := range sources {
		switch {
		case j < at:
			sources[j] = j
		case j == at:
			sources[j] = NewSlot
		default:
			sources[j] = j - 1
		}
	}

	next := make([]string, 0, len(boxes)+1)
	next = append(next, boxes[:pos]...)
	next = append(next, name)
	next = append(next, boxes[pos:]...)
	s.categories[cat].Checkboxes = next

	s.remapTags(sources)
	return nil
}

// DeleteCheckbox removes one checkbox and drops its bit from every file.
func (s *Store) DeleteCheckbox(cat, box int) error {
	g, ok := s.GlobalIndex(cat, box)
	if !ok {
		if cat < 0 || cat >= len(s.categories) {
			return outOfRange("category", cat, len(s.categories))
		}
		return outOfRange("checkbox", box, len(s.categories[cat].Checkboxes))
	}
	oldN := s.TotalCheckboxes()
	sources := make([]int, 0, oldN-1)
	for j := 0; j < oldN; j++ {
		if j != g {
			sources = append(sources, j)
		}
	}

	boxes := s.categories[cat].Checkboxes
	next := make([]string, 0, len(boxes)-1)
	next = append(next, boxes[:box]...)
	next = append(next, boxes[box+1:]...)
	s.categories[cat].Checkboxes = next

	s.remapTags(sources)
	return nil
}

// DeleteCategory removes a category with all its checkboxes.
func (s *Store) DeleteCategory(cat int) error {
	if cat < 0 || cat >= len(s.categories) {
		return outOfRange("category", cat, len(s.categories))
	}
	oldN := s.TotalCheckboxes()
	start := s.offset(cat)
	end := start + len(s.categories[cat].Checkboxes)
	sources := make([]int, 0, oldN-(end-start))
	for j := 0; j < oldN; j++ {
		if j < start || j >= end {
			sources = append(sources, j)
		}
	}

	next := make([]Category, 0, len(s.categories)-1)
	next = append(next, s.categories[:cat]...)
	next = append(next, s.categories[cat+1:]...)
	s.categories = next

	s.remapTags(sources)
	return nil
}

func (s *Store) RenameCategory(cat int, name string) error {
	if cat < 0 || cat >= len(s.categories) {
		return outOfRange("category", cat, len(s.categories))
	}
	if err := ValidateName("category", name); err != nil {
		return err
	}
	s.categories[cat].Name = name
	return nil
}

func (s *Store) RenameCheckbox(cat, box int, name string) error {
	if _, ok := s.GlobalIndex(cat, box); !ok {
		if cat < 0 || cat >= len(s.categories) {
			return outOfRange("category", cat, len(s.categories))
		}
		return outOfRange("checkbox", box, len(s.categories[cat].Checkboxes))
	}
	if err := ValidateName("checkbox", name); err != nil {
		return err
	}
	s.categories[cat].Checkboxes[box] = name
	return nil
}

// AddFile appends path with an all-false tag set. Adding a path that already
// exists is a no-op that returns the existing index with added=false.
func (s *Store) AddFile(path string) (index int, added bool, err error) {
	if err := ValidatePath(path); err != nil {
		return -1, false, err
	}
	if i := s.FileIndex(path); i >= 0 {
		return i, false, nil
	}
	s.files = append(s.files, File{Path: path, Tags: NewTagSet(s.TotalCheckboxes())})
	return len(s.files) - 1, true, nil
}

func (s *Store) Tag(file, global int) (bool, error) {
	if err := s.checkTag(file, global); err != nil {
		return false, err
	}
	return s.files[file].Tags.Get(global), nil
}

func (s *Store) SetTag(file, global int, v bool) error {
	if err := s.checkTag(file, global); err != nil {
		return err
	}
	s.files[file].Tags.Set(global, v)
	return nil
}

func (s *Store) ToggleTag(file, global int) error {
	if err := s.checkTag(file, global); err != nil {
		return err
	}
	s.files[file].Tags.Toggle(global)
	return nil
}

func (s *Store) checkTag(file, global int) error {
	if file < 0 || file >= len(s.files) {
		return outOfRange("file", file, len(s.files))
	}
	if n := s.TotalCheckboxes(); global < 0 || global >= n {
		return outOfRange("checkbox", global, n)
	}
	return nil
}

// remapTags rewrites every file's tag set: new bit j comes from old bit
// sources[j], or is zero for NewSlot.
func (s *Store) remapTags(sources []int) {
	for i := range s.files {
		s.files[i].Tags = s.files[i].Tags.Remap(sources)
	}
}

func (s *Store) Clone() *Store {
	return &Store{categories: s.Categories(), files: s.Files()}
}

// Equal reports whether both stores hold the same categories, files and tags.
func (s *Store) Equal(o *Store) bool {
	if s == nil || o == nil {
		return s == o
	}
	if len(s.categories) != len(o.categories) || len(s.files) != len(o.files) {
		return false
	}
	for i, c := range s.categories {
		oc := o.categories[i]
		if c.Name != oc.Name || len(c.Checkboxes) != len(oc.Checkboxes) {
			return false
		}
		for j := range c.Checkboxes {
			if c.Checkboxes[j] != oc.Checkboxes[j] {
				return false
			}
		}
	}
	for i, f := range s.files {
		if f.Path != o.files[i].Path || !f.Tags.Equal(o.files[i].Tags) {
			return false
		}
	}
	return true
}
