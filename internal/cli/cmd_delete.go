package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/tudu/internal/display"
	"github.com/nhle/tudu/internal/store"
)

func newDeleteCommand(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm"},
		Short:   "Delete a project or a todo",
	}
	cmd.AddCommand(
		newDeleteProjectCommand(deps),
		newDeleteTodoCommand(deps),
	)
	return cmd
}

func newDeleteProjectCommand(deps *commandDeps) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "project [ID|NAME]",
		Short: "Delete a project and all of its todos",
		Args:  maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, deps, func(ctx context.Context, rt *session) error {
				p, err := resolveProject(ctx, rt, optionalArg(args))
				if err != nil {
					return err
				}
				if !yes {
					count, err := rt.store.CountTodos(ctx, store.TodoFilter{ProjectID: &p.ID})
					if err != nil {
						return err
					}
					ok, err := askConfirm(deps,
						fmt.Sprintf("Delete project %q?", p.Name),
						fmt.Sprintf("This also removes its %s.", describeCount(count, "todo")))
					if err != nil || !ok {
						return abortUnless(rt, err)
					}
				}

				removed, err := rt.store.DeleteProject(ctx, p.ID)
				if err != nil {
					return err
				}
				rt.printer.Success(display.PrefixDeleted, "project #%d %s and %s",
					p.ID, p.Name, describeCount(removed, "todo"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newDeleteTodoCommand(deps *commandDeps) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "todo <ID>",
		Short: "Delete a todo and its subtasks",
		Args:  exactArgs(1, "a todo ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("todo", args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, deps, func(ctx context.Context, rt *session) error {
				t, err := rt.store.GetTodo(ctx, id)
				if err != nil {
					return err
				}
				if !yes {
					ok, err := askConfirm(deps,
						fmt.Sprintf("Delete todo #%d %q?", t.ID, t.Title),
						"Its subtasks are deleted too.")
					if err != nil || !ok {
						return abortUnless(rt, err)
					}
				}

				removed, err := rt.store.DeleteTodo(ctx, id)
				if err != nil {
					return err
				}
				rt.printer.Success(display.PrefixDeleted, "todo #%d %s (%s removed)",
					t.ID, t.Title, describeCount(removed, "todo"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func abortUnless(rt *session, err error) error {
	if err != nil {
		return err
	}
	rt.printer.Info("Aborted.")
	return nil
}
