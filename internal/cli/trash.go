package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbin/pkg/types"
)

func newTrashCmd(flags *rootFlags) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Show trashed entities and when they expire",
		Long: "Show everything in the trash of the projects you own, or the trash of one\n" +
			"project you can view with --project. Each entry shows when its retention\n" +
			"window ends.",
		Args: cobra.NoArgs,
		RunE: withApp(flags, func(ctx context.Context, a *app, args []string) error {
			var items []types.TrashItem
			var err error
			if projectID != "" {
				items, err = a.trash.ProjectTrash(ctx, projectID, a.actor)
			} else {
				items, err = a.trash.GlobalTrash(ctx, a.actor)
			}
			if err != nil {
				return err
			}
			return a.print(items, func(w io.Writer) {
				if len(items) == 0 {
					fmt.Fprintln(w, "Trash is empty")
					return
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "REF\tNAME\tSTATE\tDELETED\tRETAIN UNTIL")
				for _, it := range items {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						it.Ref, it.Name, stateLabel(it.State),
						it.DeletedAt.Local().Format(time.DateTime),
						it.RetainUntil.Local().Format(time.DateTime))
				}
				tw.Flush()
			})
		}),
	}
	cmd.Flags().StringVar(&projectID, "project", "", "show only this project's trash")
	return cmd
}

func stateLabel(s types.TrashState) string {
	if s.Status == types.StatusTrashedCascaded {
		return "with " + s.Origin.String()
	}
	return "deleted"
}
