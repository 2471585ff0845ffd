package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nhle/tudu/internal/display"
	"github.com/nhle/tudu/internal/model"
)

func newCloseCommand(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "close",
		Aliases: []string{"done"},
		Short:   "Close a project or a todo",
	}
	cmd.AddCommand(
		newCloseProjectCommand(deps),
		newCloseTodoCommand(deps),
	)
	return cmd
}

func newCloseProjectCommand(deps *commandDeps) *cobra.Command {
	var cancel bool

	cmd := &cobra.Command{
		Use:   "project [ID|NAME]",
		Short: "Close every open todo of a project",
		Long: "Close every open todo of a project. Todos are marked done, or cancelled with --cancel.\n" +
			"Todos that are already closed keep their status.",
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolution := model.StatusDone
			if cancel {
				resolution = model.StatusCancelled
			}
			return withStore(cmd, deps, func(ctx context.Context, rt *session) error {
				p, err := resolveProject(ctx, rt, optionalArg(args))
				if err != nil {
					return err
				}
				closed, err := rt.store.CloseProject(ctx, p.ID, resolution)
				if err != nil {
					return err
				}
				rt.printer.Project(display.PrefixClosed, *p)
				rt.printer.Info("%s marked %s", describeCount(closed, "todo"), resolution)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&cancel, "cancel", false, "Mark open todos cancelled instead of done")
	return cmd
}

func newCloseTodoCommand(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "todo <ID>",
		Short: "Mark a todo done",
		Args:  exactArgs(1, "a todo ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("todo", args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, deps, func(ctx context.Context, rt *session) error {
				t, err := rt.store.CloseTodo(ctx, id)
				if err != nil {
					return err
				}
				rt.printer.Todo(display.PrefixClosed, *t)
				return nil
			})
		},
	}
}
