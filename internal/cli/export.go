package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newExportCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write a JSONL snapshot of every table",
		Long:  "Write one <table>.jsonl file per table into dir. Files are replaced atomically.",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(ctx context.Context, a *app, args []string) error {
			dir := args[0]
			if err := a.backend.Export(ctx, dir); err != nil {
				return &systemError{err}
			}
			return a.print(map[string]string{"dir": dir}, func(w io.Writer) {
				fmt.Fprintf(w, "Exported to %s\n", dir)
			})
		}),
	}
}
