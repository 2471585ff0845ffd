package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nhle/tudu/internal/display"
	"github.com/nhle/tudu/internal/store"
)

func newViewCommand(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "view",
		Aliases: []string{"show"},
		Short:   "Show a project or a todo in detail",
	}
	cmd.AddCommand(
		newViewProjectCommand(deps),
		newViewTodoCommand(deps),
	)
	return cmd
}

func newViewProjectCommand(deps *commandDeps) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "project [ID|NAME]",
		Short: "Show a project and its open todos",
		Args:  maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, deps, func(ctx context.Context, rt *session) error {
				p, err := resolveProject(ctx, rt, optionalArg(args))
				if err != nil {
					return err
				}
				todos, err := rt.store.ListTodos(ctx, store.TodoFilter{
					ProjectID: &p.ID,
					OpenOnly:  !all,
				})
				if err != nil {
					return err
				}

				rt.printer.ProjectDetail(display.PrefixNone, *p)
				rt.printer.Blank()
				if all {
					rt.printer.Heading("Todos")
				} else {
					rt.printer.Heading("Open todos")
				}
				rt.printer.TodoTree(todos)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include done and cancelled todos")
	return cmd
}

func newViewTodoCommand(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "todo <ID>",
		Short: "Show a todo with its project and subtasks",
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
				p, err := rt.store.GetProject(ctx, t.ProjectID)
				if err != nil {
					return err
				}
				children, err := rt.store.ListChildren(ctx, id)
				if err != nil {
					return err
				}

				rt.printer.Project(display.PrefixNone, *p)
				rt.printer.TodoDetail(display.PrefixNone, *t)
				if len(children) > 0 {
					rt.printer.Blank()
					rt.printer.Heading("Subtasks")
					rt.printer.Todos(children)
				}
				return nil
			})
		},
	}
}
