package cli

import (
	"imgctool/internal/model"

	"github.com/spf13/cobra"
)

type categoryOut struct {
	Name       string   `json:"name"`
	Checkboxes []string `json:"checkboxes"`
}

type fileOut struct {
	Path string   `json:"path"`
	Tags []string `json:"tags"`
}

type showOut struct {
	SaveFile   string        `json:"save_file"`
	Categories []categoryOut `json:"categories"`
	Files      []fileOut     `json:"files"`
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print categories, images and their tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.saveFile().Load()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": describe(st, app.cfg.SaveFile)})
		},
	}
}

func describe(st *model.Store, saveFile string) showOut {
	out := showOut{
		SaveFile:   saveFile,
		Categories: []categoryOut{},
		Files:      []fileOut{},
	}
	for _, c := range st.Categories() {
		boxes := c.Checkboxes
		if boxes == nil {
			boxes = []string{}
		}
		out.Categories = append(out.Categories, categoryOut{Name: c.Name, Checkboxes: boxes})
	}
	for _, f := range st.Files() {
		out.Files = append(out.Files, fileOut{Path: f.Path, Tags: tagNames(st, f)})
	}
	return out
}

// tagNames lists "category/checkbox" for every tag f carries.
func tagNames(st *model.Store, f model.File) []string {
	names := []string{}
	for _, g := range f.Tags.Indices() {
		cat, box, ok := st.CheckboxName(g)
		if ok {
			names = append(names, cat+"/"+box)
		}
	}
	return names
}
