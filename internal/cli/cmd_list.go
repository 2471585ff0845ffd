package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/tudu/internal/display"
	"github.com/nhle/tudu/internal/model"
	"github.com/nhle/tudu/internal/store"
)

func newListCommand(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects or todos",
	}
	cmd.AddCommand(
		newListProjectCommand(deps),
		newListTodoCommand(deps),
	)
	return cmd
}

func newListProjectCommand(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "List all projects",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, deps, func(ctx context.Context, rt *session) error {
				projects, err := rt.store.ListProjects(ctx)
				if err != nil {
					return err
				}
				rt.printer.Projects(projects)
				return nil
			})
		},
	}
}

func newListTodoCommand(deps *commandDeps) *cobra.Command {
	var (
		project     string
		statuses    []string
		minPriority string
		includeDone bool
		allProjects bool
		sortBy      string
		tree        bool
		limit       int
	)

	cmd := &cobra.Command{
		Use:     "todo",
		Aliases: []string{"todos"},
		Short:   "List todos",
		Long: "List todos. Without --project the pinned project is used, or every project\n" +
			"when nothing is pinned. Closed todos are hidden unless --include-done or --status is given.",
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := store.TodoFilter{Limit: limit}
			for _, raw := range statuses {
				st, err := parseStatus(raw)
				if err != nil {
					return err
				}
				filter.Statuses = append(filter.Statuses, st)
			}
			filter.OpenOnly = len(filter.Statuses) == 0 && !includeDone
			if cmd.Flags().Changed("min-priority") {
				p, err := parsePriority(minPriority)
				if err != nil {
					return err
				}
				filter.MinPriority = &p
			}
			switch s := store.TodoSort(strings.ToLower(sortBy)); s {
			case store.SortByID, store.SortByPriority, store.SortByDueDate:
				filter.SortBy = s
			default:
				return usageErrorf("unknown --sort %q; use id, priority or due", sortBy)
			}
			if limit < 0 {
				return usageErrorf("--limit must not be negative")
			}

			return withStore(cmd, deps, func(ctx context.Context, rt *session) error {
				var heading *model.Project
				switch {
				case strings.TrimSpace(project) != "":
					p, err := resolveProject(ctx, rt, project)
					if err != nil {
						return err
					}
					heading = p
				case !allProjects:
					pinned, err := pinnedProjectID(rt)
					if err != nil {
						return err
					}
					if pinned != nil {
						p, err := rt.store.GetProject(ctx, *pinned)
						if err != nil {
							return err
						}
						heading = p
					}
				}
				if heading != nil {
					filter.ProjectID = &heading.ID
				}

				todos, err := rt.store.ListTodos(ctx, filter)
				if err != nil {
					return err
				}
				total, err := rt.store.CountTodos(ctx, filter)
				if err != nil {
					return err
				}

				if heading != nil {
					rt.printer.Project(display.PrefixNone, *heading)
				}
				if tree {
					rt.printer.TodoTree(todos)
				} else {
					rt.printer.Todos(todos)
				}
				if len(todos) < total {
					rt.printer.Info("showing %d of %s", len(todos), describeCount(total, "todo"))
				}
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&project, "project", "p", "", "Project id or name (default: pinned project)")
	flags.StringSliceVarP(&statuses, "status", "s", nil, "Only these statuses (repeatable): pending, in_progress, done, cancelled")
	flags.StringVar(&minPriority, "min-priority", "", "Only todos at or above this priority")
	flags.BoolVarP(&includeDone, "include-done", "a", false, "Include done and cancelled todos")
	flags.BoolVar(&allProjects, "all-projects", false, "Ignore the pinned project")
	flags.StringVar(&sortBy, "sort", string(store.SortByID), "Sort by id, priority or due")
	flags.BoolVarP(&tree, "tree", "t", false, "Nest subtasks under their parents")
	flags.IntVarP(&limit, "limit", "n", 0, "Show at most this many todos")
	return cmd
}
