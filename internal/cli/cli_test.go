package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"imgctool/internal/config"
	"imgctool/internal/model"
	"imgctool/internal/store"
	"imgctool/internal/tui"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// isolate keeps user config and environment out of the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("IMG_VIEWER", "")
	t.Setenv("IMGCTOOL_VIEWER", "")
	t.Setenv("IMGCTOOL_CONFIG", "")
	t.Setenv("IMGCTOOL_FORMAT", "")
	t.Setenv("IMGCTOOL_SAVE_FILE", "")
	return dir
}

// seedSaveFile writes colors{red,green} and mood{happy} with three images.
func seedSaveFile(t *testing.T, dir string) string {
	t.Helper()

	st := model.NewStore()
	colors, err := st.AddCategory("colors")
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	mood, err := st.AddCategory("mood")
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if _, err := st.AddCheckbox(colors, "red"); err != nil {
		t.Fatalf("AddCheckbox: %v", err)
	}
	if _, err := st.AddCheckbox(colors, "green"); err != nil {
		t.Fatalf("AddCheckbox: %v", err)
	}
	if _, err := st.AddCheckbox(mood, "happy"); err != nil {
		t.Fatalf("AddCheckbox: %v", err)
	}
	for _, p := range []string{"a.png", "b.png", "c.png"} {
		if _, _, err := st.AddFile(p); err != nil {
			t.Fatalf("AddFile: %v", err)
		}
	}
	// a: red+happy, b: red, c: green
	for _, tag := range [][2]int{{0, 0}, {0, 2}, {1, 0}, {2, 1}} {
		if err := st.SetTag(tag[0], tag[1], true); err != nil {
			t.Fatalf("SetTag: %v", err)
		}
	}

	path := filepath.Join(dir, "tags.imgctool")
	if err := (store.Store{Path: path}).Save(st); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return path
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("img"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func decodeData(t *testing.T, out []byte) map[string]any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("invalid json output: %v\n%s", err, string(out))
	}
	data, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data envelope; got %v", env)
	}
	return data
}

func strs(v any) []string {
	xs, _ := v.([]any)
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		s, _ := x.(string)
		out = append(out, s)
	}
	return out
}

func TestTag_NoImagesIsUsageError(t *testing.T) {
	dir := isolate(t)

	_, stderr, err := runCLI(t, []string{"--file", filepath.Join(dir, "s"), "--viewer", "sh"})
	var ue *UsageError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UsageError; got %v", err)
	}
	if !strings.Contains(string(stderr), "usage:") {
		t.Fatalf("expected usage on stderr; got %q", string(stderr))
	}
}

func TestTag_MissingViewerIsUsageError(t *testing.T) {
	dir := isolate(t)
	img := filepath.Join(dir, "a.png")
	touch(t, img)

	_, stderr, err := runCLI(t, []string{"--file", filepath.Join(dir, "s"), "--viewer", "imgctool-no-such-viewer --fit", img})
	var ue *UsageError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UsageError; got %v", err)
	}
	if !strings.Contains(string(stderr), "image viewer `imgctool-no-such-viewer' does not exist") {
		t.Fatalf("unexpected stderr: %q", string(stderr))
	}
}

func TestTag_ViewerFromEnvironment(t *testing.T) {
	dir := isolate(t)
	img := filepath.Join(dir, "a.png")
	touch(t, img)
	t.Setenv("IMG_VIEWER", "imgctool-env-viewer")

	_, stderr, err := runCLI(t, []string{"--file", filepath.Join(dir, "s"), img})
	if err == nil || !strings.Contains(string(stderr), "imgctool-env-viewer") {
		t.Fatalf("expected IMG_VIEWER to be checked; err=%v stderr=%q", err, string(stderr))
	}
}

func TestTag_ReportsEveryUnreadableFile(t *testing.T) {
	dir := isolate(t)
	ok := filepath.Join(dir, "ok.png")
	touch(t, ok)
	missing1 := filepath.Join(dir, "missing1.png")
	missing2 := filepath.Join(dir, "missing2.png")

	_, stderr, err := runCLI(t, []string{"--file", filepath.Join(dir, "s"), "--viewer", "sh", missing1, ok, missing2, dir})
	var fe *FileAccessError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FileAccessError; got %v", err)
	}
	var got []string
	for _, p := range fe.Paths {
		got = append(got, p.Path)
	}
	if want := []string{missing1, missing2, dir}; !reflect.DeepEqual(got, want) {
		t.Fatalf("paths=%v, want %v", got, want)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error")
	}
	if !strings.Contains(string(stderr), missing2+": cannot read file") {
		t.Fatalf("unexpected stderr: %q", string(stderr))
	}
}

func TestTag_RejectsPathsTheSaveFileCannotHold(t *testing.T) {
	dir := isolate(t)
	img := filepath.Join(dir, "shot1.png")
	touch(t, img)

	_, _, err := runCLI(t, []string{"--file", filepath.Join(dir, "s"), "--viewer", "sh", img})
	var ue *UsageError
	if !errors.As(err, &ue) || !errors.Is(err, model.ErrInvalidName) {
		t.Fatalf("expected UsageError wrapping ErrInvalidName; got %v", err)
	}
}

func TestTag_StartsSessionWithRestoredStore(t *testing.T) {
	dir := isolate(t)
	save := seedSaveFile(t, dir)
	// Temp dirs contain '0' and '1', which image paths may not.
	t.Chdir(dir)
	img := "new.png"
	touch(t, img)

	var got tui.Options
	prev := runTUI
	runTUI = func(opts tui.Options) error {
		got = opts
		return nil
	}
	t.Cleanup(func() { runTUI = prev })

	_, stderr, err := runCLI(t, []string{"--file", save, "--viewer", "sh -c true", img, img})
	if err != nil {
		t.Fatalf("run: %v\n%s", err, string(stderr))
	}
	if !strings.Contains(string(stderr), "Using image viewer `sh -c true'") {
		t.Fatalf("expected viewer banner; got %q", string(stderr))
	}
	if got.Editor == nil || got.Saver == nil {
		t.Fatalf("expected editor and saver")
	}
	st := got.Editor.Store()
	if st.FileCount() != 4 || st.CategoryCount() != 2 {
		t.Fatalf("expected restored store plus one new image; files=%d cats=%d", st.FileCount(), st.CategoryCount())
	}
	if st.FileIndex(img) != 3 {
		t.Fatalf("new image should be appended once; index=%d", st.FileIndex(img))
	}
	if got.Viewer != "sh -c true" || got.SavePath != save {
		t.Fatalf("unexpected options: viewer=%q save=%q", got.Viewer, got.SavePath)
	}
}

func TestShow_ListsTagsByName(t *testing.T) {
	dir := isolate(t)
	save := seedSaveFile(t, dir)

	out, stderr, err := runCLI(t, []string{"--file", save, "show"})
	if err != nil {
		t.Fatalf("show: %v\n%s", err, string(stderr))
	}
	data := decodeData(t, out)
	files, _ := data["files"].([]any)
	if len(files) != 3 {
		t.Fatalf("expected 3 files; got %v", data["files"])
	}
	first, _ := files[0].(map[string]any)
	if first["path"] != "a.png" {
		t.Fatalf("unexpected first file: %v", first)
	}
	if tags := strs(first["tags"]); !reflect.DeepEqual(tags, []string{"colors/red", "mood/happy"}) {
		t.Fatalf("tags=%v", tags)
	}
	cats, _ := data["categories"].([]any)
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories; got %v", data["categories"])
	}
}

func TestShow_MissingSaveFileIsEmpty(t *testing.T) {
	dir := isolate(t)

	out, _, err := runCLI(t, []string{"--file", filepath.Join(dir, "none"), "show", "--format", "yaml"})
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(string(out), "categories: []") || !strings.Contains(string(out), "files: []") {
		t.Fatalf("unexpected yaml:\n%s", string(out))
	}
}

func TestFind_MatchesAllOrAny(t *testing.T) {
	dir := isolate(t)
	save := seedSaveFile(t, dir)

	out, _, err := runCLI(t, []string{"--file", save, "find", "--tag", "colors/red", "--tag", "mood/happy"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got := strs(decodeData(t, out)["files"]); !reflect.DeepEqual(got, []string{"a.png"}) {
		t.Fatalf("all: got %v", got)
	}

	out, _, err = runCLI(t, []string{"--file", save, "find", "--any", "--tag", "colors/green", "--tag", "mood/happy"})
	if err != nil {
		t.Fatalf("find --any: %v", err)
	}
	data := decodeData(t, out)
	if got := strs(data["files"]); !reflect.DeepEqual(got, []string{"a.png", "c.png"}) {
		t.Fatalf("any: got %v", got)
	}
	if data["match"] != "any" {
		t.Fatalf("match=%v", data["match"])
	}
}

func TestFind_RejectsBadTags(t *testing.T) {
	dir := isolate(t)
	save := seedSaveFile(t, dir)

	if _, _, err := runCLI(t, []string{"--file", save, "find"}); err == nil {
		t.Fatalf("expected error without --tag")
	}
	if _, _, err := runCLI(t, []string{"--file", save, "find", "--tag", "colors"}); err == nil {
		t.Fatalf("expected error for a tag without '/'")
	}
	_, stderr, err := runCLI(t, []string{"--file", save, "find", "--tag", "colors/blue"})
	if err == nil || !strings.Contains(string(stderr), `unknown tag "colors/blue"`) {
		t.Fatalf("expected unknown tag; err=%v stderr=%q", err, string(stderr))
	}
}

func TestResolveTag_SlashInNames(t *testing.T) {
	st := model.NewStore()
	c, err := st.AddCategory("size/aspect")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.AddCheckbox(c, "4/3"); err != nil {
		t.Fatal(err)
	}

	ref, err := resolveTag(st, "size/aspect/4/3")
	if err != nil {
		t.Fatalf("resolveTag: %v", err)
	}
	if ref.Category != "size/aspect" || ref.Checkbox != "4/3" || ref.Global != 0 {
		t.Fatalf("unexpected ref: %#v", ref)
	}
}

func TestExportSQLite_ThenFindInDatabase(t *testing.T) {
	dir := isolate(t)
	save := seedSaveFile(t, dir)
	db := filepath.Join(dir, "out", "tags.db")

	out, stderr, err := runCLI(t, []string{"--file", save, "export", "sqlite", db})
	if err != nil {
		t.Fatalf("export: %v\n%s", err, string(stderr))
	}
	stats, _ := decodeData(t, out)["stats"].(map[string]any)
	want := map[string]any{"categories": float64(2), "checkboxes": float64(3), "files": float64(3), "tags": float64(4)}
	if !reflect.DeepEqual(stats, want) {
		t.Fatalf("stats=%v, want %v", stats, want)
	}

	out, _, err = runCLI(t, []string{"--file", save, "find", "--db", db, "--tag", "colors/red"})
	if err != nil {
		t.Fatalf("find --db: %v", err)
	}
	if got := strs(decodeData(t, out)["files"]); !reflect.DeepEqual(got, []string{"a.png", "b.png"}) {
		t.Fatalf("db find: got %v", got)
	}
}

func TestCheck_ReportsIntactAndCorruptFiles(t *testing.T) {
	dir := isolate(t)
	save := seedSaveFile(t, dir)

	out, _, err := runCLI(t, []string{"--file", save, "check"})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	data := decodeData(t, out)
	if data["ok"] != true || data["exists"] != true || data["files"] != float64(3) || data["tags"] != float64(4) {
		t.Fatalf("unexpected check output: %v", data)
	}

	bad := filepath.Join(dir, "bad.imgctool")
	if err := os.WriteFile(bad, []byte("not a save file"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, _, err = runCLI(t, []string{"--file", bad, "check"})
	if !errors.Is(err, store.ErrHeaderInvalid) {
		t.Fatalf("expected ErrHeaderInvalid; got %v", err)
	}
	data = decodeData(t, out)
	if data["ok"] != false || data["phase"] != store.PhaseHeader || data["kind"] != store.ErrHeaderInvalid.Error() {
		t.Fatalf("unexpected check output: %v", data)
	}
}

func TestRoot_RejectsUnknownFormat(t *testing.T) {
	isolate(t)

	_, _, err := runCLI(t, []string{"--format", "xml", "show"})
	var ue *UsageError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UsageError; got %v", err)
	}
}

func TestRoot_RejectsUnknownLogLevel(t *testing.T) {
	isolate(t)

	_, _, err := runCLI(t, []string{"--log-level", "loud", "show"})
	if !errors.Is(err, config.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue; got %v", err)
	}
	if _, _, err := runCLI(t, []string{"--log-level", "DEBUG", "show"}); err != nil {
		t.Fatalf("expected upper-case level to be accepted; got %v", err)
	}
}

func TestDocs_TopicsAndRaw(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, []string{"docs"})
	if err != nil {
		t.Fatalf("docs: %v", err)
	}
	if got := strs(decodeData(t, out)["topics"]); !reflect.DeepEqual(got, []string{"commands", "config", "format", "keys"}) {
		t.Fatalf("topics=%v", got)
	}

	out, _, err = runCLI(t, []string{"docs", "keys", "--raw"})
	if err != nil {
		t.Fatalf("docs keys --raw: %v", err)
	}
	if !strings.HasPrefix(string(out), "#") {
		t.Fatalf("expected raw markdown; got %q", string(out))
	}

	out, _, err = runCLI(t, []string{"docs", "keys"})
	if err != nil {
		t.Fatalf("docs keys: %v", err)
	}
	if !strings.Contains(string(out), "Keys") {
		t.Fatalf("expected rendered keys topic; got %q", string(out))
	}

	if _, _, err := runCLI(t, []string{"docs", "../keys"}); err == nil {
		t.Fatalf("expected error for unknown topic")
	}
}
