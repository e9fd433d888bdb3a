package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"imgctool/internal/editor"
	"imgctool/internal/model"
	"imgctool/internal/tui"

	"github.com/spf13/cobra"
)

// runTUI is swapped out in tests.
var runTUI = tui.Run

// defaultWidth sizes the layout until the first window-size message arrives.
const defaultWidth = 80

func runTag(cmd *cobra.Command, app *App, args []string) error {
	if len(args) == 0 {
		return writeErr(cmd, usageErr("usage: %s [IMAGES...]", cmd.Root().Name()))
	}

	viewer := app.cfg.Viewer
	if err := checkViewer(viewer); err != nil {
		return writeErr(cmd, err)
	}
	if err := checkReadable(args); err != nil {
		return writeErr(cmd, err)
	}
	for _, p := range args {
		if err := model.ValidatePath(p); err != nil {
			return writeErr(cmd, &UsageError{Msg: "cannot tag " + p, Err: err})
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(),
		"Using image viewer `%s'. To change, set IMG_VIEWER or pass --viewer.\n", viewer)

	sf := app.saveFile()
	st, err := sf.Load()
	if err != nil {
		app.log.Errorw("restore failed", "path", app.cfg.SaveFile, "error", err)
		return writeErr(cmd, err)
	}

	ed := editor.New(st, defaultWidth)
	added := 0
	for _, p := range args {
		_, ok, err := ed.AddFile(p)
		if err != nil {
			return writeErr(cmd, err)
		}
		if ok {
			added++
		}
	}
	app.log.Debugw("session ready",
		"save_file", app.cfg.SaveFile,
		"files", st.FileCount(),
		"added", added,
		"categories", st.CategoryCount(),
	)

	if err := runTUI(tui.Options{
		Editor:   ed,
		Saver:    sf,
		SavePath: app.cfg.SaveFile,
		Viewer:   viewer,
		Logger:   app.log,
		Glyphs:   app.cfg.TUI.Glyphs,
		Theme:    app.cfg.TUI.Theme,
	}); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

// checkViewer makes sure the program the viewer command runs is on PATH.
func checkViewer(viewer string) error {
	prog := tui.ViewerProgram(viewer)
	if prog == "" {
		return usageErr("no image viewer configured")
	}
	if _, err := exec.LookPath(prog); err != nil {
		return &UsageError{Msg: fmt.Sprintf("image viewer `%s' does not exist", prog), Err: err}
	}
	return nil
}

// checkReadable opens every path and reports all failures at once.
func checkReadable(paths []string) error {
	var bad []PathError
	for _, p := range paths {
		f, err := os.Open(p)
		if err == nil {
			var info os.FileInfo
			info, err = f.Stat()
			_ = f.Close()
			if err == nil && info.IsDir() {
				err = errors.New("is a directory")
			}
		}
		if err != nil {
			bad = append(bad, PathError{Path: p, Err: err})
		}
	}
	if len(bad) > 0 {
		return &FileAccessError{Paths: bad}
	}
	return nil
}
