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

// requireRole gates creation commands, which the Authorizer does not cover.
// Strangers get ErrNotFound; members below min get ErrForbidden.
func requireRole(tx types.Reader, projectID, actor string, min types.Role) error {
	role, err := tx.MemberRole(projectID, actor)
	if err != nil {
		return err
	}
	if role == types.RoleNone {
		return fmt.Errorf("project/%s: %w", projectID, types.ErrNotFound)
	}
	if !role.AtLeast(min) {
		return fmt.Errorf("project/%s requires role %s: %w", projectID, min, types.ErrForbidden)
	}
	return nil
}

func newProjectCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Create and list projects",
	}

	var color, icon string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project owned by the acting user",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(ctx context.Context, a *app, args []string) error {
			p := &types.Project{OwnerID: a.actor, Name: args[0], Color: color, Icon: icon}
			err := a.backend.Update(ctx, func(tx types.Tx) error {
				_, err := tx.CreateProject(p)
				return err
			})
			if err != nil {
				return err
			}
			return a.print(p, func(w io.Writer) {
				fmt.Fprintf(w, "Created project %s (%s)\n", p.ProjectID, p.Name)
			})
		}),
	}
	create.Flags().StringVar(&color, "color", "", "display color")
	create.Flags().StringVar(&icon, "icon", "", "display icon")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the active projects owned by the acting user",
		Args:  cobra.NoArgs,
		RunE: withApp(flags, func(ctx context.Context, a *app, args []string) error {
			var projects []*types.Project
			err := a.backend.View(ctx, func(tx types.Reader) error {
				var err error
				projects, err = tx.ProjectsOwnedBy(a.actor, types.ActiveOnly)
				return err
			})
			if err != nil {
				return err
			}
			return a.print(projects, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tCREATED")
				for _, p := range projects {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ProjectID, p.Name, p.CreatedAt.Format(time.DateTime))
				}
				tw.Flush()
			})
		}),
	}

	cmd.AddCommand(create, list)
	return cmd
}

func newListCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage task lists",
	}

	var position int
	create := &cobra.Command{
		Use:   "create <project-id> <name>",
		Short: "Create a task list in a project",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(flags, func(ctx context.Context, a *app, args []string) error {
			l := &types.List{ProjectID: args[0], Name: args[1], Position: position}
			err := a.backend.Update(ctx, func(tx types.Tx) error {
				if err := requireRole(tx, l.ProjectID, a.actor, types.RoleEditor); err != nil {
					return err
				}
				_, err := tx.CreateList(l)
				return err
			})
			if err != nil {
				return err
			}
			return a.print(l, func(w io.Writer) {
				fmt.Fprintf(w, "Created list %s (%s)\n", l.ListID, l.Name)
			})
		}),
	}
	create.Flags().IntVar(&position, "position", 0, "ordering position (default: after the last list)")

	cmd.AddCommand(create)
	return cmd
}

func newTaskCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	var assignee, priority, due string
	create := &cobra.Command{
		Use:   "create <list-id> <title>",
		Short: "Create a task in a list",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(flags, func(ctx context.Context, a *app, args []string) error {
			t := &types.Task{
				ListID:     args[0],
				Title:      args[1],
				AssigneeID: assignee,
				Priority:   priority,
				CreatorID:  a.actor,
			}
			if due != "" {
				d, err := time.Parse(time.DateOnly, due)
				if err != nil {
					return fmt.Errorf("%w: due date %q is not YYYY-MM-DD", types.ErrInvalidData, due)
				}
				t.DueDate = &d
			}
			err := a.backend.Update(ctx, func(tx types.Tx) error {
				l, err := tx.GetList(t.ListID, types.ActiveOnly)
				if err != nil {
					return err
				}
				if err := requireRole(tx, l.ProjectID, a.actor, types.RoleEditor); err != nil {
					return err
				}
				_, err = tx.CreateTask(t)
				return err
			})
			if err != nil {
				return err
			}
			return a.print(t, func(w io.Writer) {
				fmt.Fprintf(w, "Created task %s (%s)\n", t.TaskID, t.Title)
			})
		}),
	}
	create.Flags().StringVar(&assignee, "assignee", "", "assigned user")
	create.Flags().StringVar(&priority, "priority", "", "priority label")
	create.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")

	cmd.AddCommand(create)
	return cmd
}

func newMemberCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage project membership",
	}

	add := &cobra.Command{
		Use:   "add <project-id> <user> <viewer|editor>",
		Short: "Grant a user a role on a project you own",
		Args:  cobra.ExactArgs(3),
		RunE: withApp(flags, func(ctx context.Context, a *app, args []string) error {
			projectID, userID, role := args[0], args[1], types.Role(args[2])
			err := a.backend.Update(ctx, func(tx types.Tx) error {
				if err := requireRole(tx, projectID, a.actor, types.RoleOwner); err != nil {
					return err
				}
				return tx.AddMember(projectID, userID, role)
			})
			if err != nil {
				return err
			}
			result := map[string]string{"project_id": projectID, "user_id": userID, "role": string(role)}
			return a.print(result, func(w io.Writer) {
				fmt.Fprintf(w, "Added %s to project %s as %s\n", userID, projectID, role)
			})
		}),
	}

	cmd.AddCommand(add)
	return cmd
}
