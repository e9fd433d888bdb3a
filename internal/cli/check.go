package cli

import (
	"errors"

	"imgctool/internal/store"

	"github.com/spf13/cobra"
)

type checkOut struct {
	Path       string `json:"path"`
	Exists     bool   `json:"exists"`
	OK         bool   `json:"ok"`
	Categories int    `json:"categories"`
	Checkboxes int    `json:"checkboxes"`
	Files      int    `json:"files"`
	Tags       int    `json:"tags"`
	Phase      string `json:"phase,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Error      string `json:"error,omitempty"`
}

func newCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Decode the save file and report whether it is intact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sf := app.saveFile()
			out := checkOut{Path: app.cfg.SaveFile, Exists: sf.Exists()}

			st, err := sf.Load()
			if err != nil {
				out.Error = err.Error()
				var pe *store.PersistenceError
				if errors.As(err, &pe) {
					out.Phase = pe.Phase
					out.Kind = pe.Kind.Error()
				}
				if werr := writeOut(cmd, app, map[string]any{"data": out}); werr != nil {
					return werr
				}
				return writeErr(cmd, err)
			}

			out.OK = true
			out.Categories = st.CategoryCount()
			out.Checkboxes = st.TotalCheckboxes()
			out.Files = st.FileCount()
			for _, f := range st.Files() {
				out.Tags += len(f.Tags.Indices())
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
}
