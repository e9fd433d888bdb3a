package cli

import (
	"fmt"

	"imgctool/internal/docs"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw bool
	var width int

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"topics": docs.Topics()}})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, usageErr("unknown docs topic: %q (run `imgctool docs` to list topics)", topic))
			}

			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}

			out := cmd.OutOrStdout()
			_, err := fmt.Fprintln(out, docs.Render(body, width, docsStyle(termenv.NewOutput(out))))
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap rendered output at this width")

	return cmd
}

// docsStyle picks a glamour style for the destination: plain text when it is
// not a color terminal.
func docsStyle(o *termenv.Output) string {
	if o.Profile == termenv.Ascii {
		return "notty"
	}
	if o.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
