package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbin/pkg/types"
)

// opResult is the --json output of the lifecycle commands.
type opResult struct {
	Operation string       `json:"operation"`
	Ref       string       `json:"ref,omitempty"`
	Scope     *types.Scope `json:"scope,omitempty"`
	Affected  int          `json:"affected"`
}

// refOpFunc is the shape of the engine's single-entity operations.
type refOpFunc func(ctx context.Context, ref types.EntityRef, actor string) (int, error)

// refOp builds a command that applies op to one "kind/id" reference.
func refOp(flags *rootFlags, use, short, verb string, op func(*app) refOpFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <kind/id>",
		Short: short,
		Long:  short + ".\nEntities are named as project/<id>, list/<id> or task/<id>.",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(ctx context.Context, a *app, args []string) error {
			ref, err := types.ParseRef(args[0])
			if err != nil {
				return err
			}
			n, err := op(a)(ctx, ref, a.actor)
			if err != nil {
				return err
			}
			return a.print(opResult{Operation: use, Ref: ref.String(), Affected: n}, func(w io.Writer) {
				fmt.Fprintf(w, "%s %s (%d affected)\n", verb, ref, n)
			})
		}),
	}
}

func newDeleteCmd(flags *rootFlags) *cobra.Command {
	return refOp(flags, "delete", "Move an entity and everything under it to the trash", "Trashed",
		func(a *app) refOpFunc { return a.engine.SoftDelete })
}

func newRestoreCmd(flags *rootFlags) *cobra.Command {
	return refOp(flags, "restore", "Restore a trashed entity and what was trashed with it", "Restored",
		func(a *app) refOpFunc { return a.engine.Restore })
}

func newPurgeCmd(flags *rootFlags) *cobra.Command {
	return refOp(flags, "purge", "Permanently delete a trashed entity and everything under it", "Purged",
		func(a *app) refOpFunc { return a.engine.ForceDelete })
}

func newEmptyTrashCmd(flags *rootFlags) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "empty-trash",
		Short: "Permanently delete everything in your trash",
		Long: "Permanently delete every trashed entity in the projects you own, or only\n" +
			"in one project with --project. Shared projects you do not own are never touched.",
		Args: cobra.NoArgs,
		RunE: withApp(flags, func(ctx context.Context, a *app, args []string) error {
			scope := types.GlobalScope()
			if projectID != "" {
				scope = types.ProjectScope(projectID)
			}
			n, err := a.engine.EmptyTrash(ctx, a.actor, scope)
			if err != nil {
				if n > 0 {
					fmt.Fprintf(a.out, "Purged %d entities before failing\n", n)
				}
				return err
			}
			return a.print(opResult{Operation: "empty-trash", Scope: &scope, Affected: n}, func(w io.Writer) {
				fmt.Fprintf(w, "Purged %d entities\n", n)
			})
		}),
	}
	cmd.Flags().StringVar(&projectID, "project", "", "only empty the trash of this project")
	return cmd
}
