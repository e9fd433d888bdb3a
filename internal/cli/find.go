package cli

import (
	"context"
	"fmt"
	"strings"

	"imgctool/internal/model"
	"imgctool/internal/store"

	"github.com/spf13/cobra"
)

type tagRef struct {
	Category string
	Checkbox string
	Global   int
}

func newFindCmd(app *App) *cobra.Command {
	var tags []string
	var matchAny bool
	var dbPath string

	cmd := &cobra.Command{
		Use:   "find --tag CATEGORY/CHECKBOX [--tag ...]",
		Short: "List images carrying the given tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(tags) == 0 {
				return writeErr(cmd, usageErr("at least one --tag is required"))
			}

			var paths []string
			var err error
			if strings.TrimSpace(dbPath) != "" {
				paths, err = findInSQLite(cmd.Context(), dbPath, tags, matchAny)
			} else {
				paths, err = findInSaveFile(app, tags, matchAny)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"tags":  tags,
				"match": matchMode(matchAny),
				"files": paths,
			}})
		},
	}

	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag as CATEGORY/CHECKBOX (repeatable)")
	cmd.Flags().BoolVar(&matchAny, "any", false, "Match images carrying any of the tags instead of all")
	cmd.Flags().StringVar(&dbPath, "db", "", "Query a database written by `export sqlite` instead of the save file")

	return cmd
}

func matchMode(matchAny bool) string {
	if matchAny {
		return "any"
	}
	return "all"
}

func findInSaveFile(app *App, tags []string, matchAny bool) ([]string, error) {
	st, err := app.saveFile().Load()
	if err != nil {
		return nil, err
	}
	refs := make([]tagRef, 0, len(tags))
	for _, t := range tags {
		ref, err := resolveTag(st, t)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	paths := []string{}
	for _, f := range st.Files() {
		hits := 0
		for _, r := range refs {
			if f.Tags.Get(r.Global) {
				hits++
			}
		}
		if (matchAny && hits > 0) || (!matchAny && hits == len(refs)) {
			paths = append(paths, f.Path)
		}
	}
	return paths, nil
}

func findInSQLite(ctx context.Context, dbPath string, tags []string, matchAny bool) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	counts := map[string]int{}
	var order []string
	for _, t := range tags {
		cat, box, err := splitTag(t)
		if err != nil {
			return nil, err
		}
		found, err := store.TaggedPathsSQLite(ctx, dbPath, cat, box)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			if counts[p] == 0 {
				order = append(order, p)
			}
			counts[p]++
		}
	}

	paths := []string{}
	for _, p := range order {
		if matchAny || counts[p] == len(tags) {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

func splitTag(t string) (string, string, error) {
	cat, box, ok := strings.Cut(t, "/")
	if !ok || cat == "" || box == "" {
		return "", "", usageErr("tag %q must look like CATEGORY/CHECKBOX", t)
	}
	return cat, box, nil
}

// resolveTag finds the checkbox named by "category/checkbox". Names may
// themselves contain '/', so every split point is tried.
func resolveTag(st *model.Store, t string) (tagRef, error) {
	for i := strings.Index(t, "/"); i >= 0; {
		cat, box := t[:i], t[i+1:]
		for ci, c := range st.Categories() {
			if c.Name != cat {
				continue
			}
			for bi, b := range c.Checkboxes {
				if b == box {
					g, _ := st.GlobalIndex(ci, bi)
					return tagRef{Category: cat, Checkbox: box, Global: g}, nil
				}
			}
		}
		next := strings.Index(t[i+1:], "/")
		if next < 0 {
			break
		}
		i += next + 1
	}
	if _, _, err := splitTag(t); err != nil {
		return tagRef{}, err
	}
	return tagRef{}, fmt.Errorf("unknown tag %q", t)
}
