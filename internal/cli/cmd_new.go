package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/tudu/internal/display"
	"github.com/nhle/tudu/internal/model"
)

func newNewCommand(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a project or a todo",
	}
	cmd.AddCommand(
		newNewProjectCommand(deps),
		newNewTodoCommand(deps),
	)
	return cmd
}

func newNewProjectCommand(deps *commandDeps) *cobra.Command {
	var (
		description string
		color       string
	)

	cmd := &cobra.Command{
		Use:   "project <NAME>",
		Short: "Create a project",
		Args:  exactArgs(1, "a project NAME"),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.NewProject{Name: strings.TrimSpace(args[0])}
			if in.Name == "" {
				return usageErrorf("project name must not be empty")
			}
			if cmd.Flags().Changed("description") {
				in.Description = stringPtr(description)
			}
			if cmd.Flags().Changed("color") {
				c, err := parseColor(color)
				if err != nil {
					return err
				}
				in.Color = &c
			}

			return withStore(cmd, deps, func(ctx context.Context, rt *session) error {
				p, err := rt.store.CreateProject(ctx, in)
				if err != nil {
					return err
				}
				rt.printer.ProjectDetail(display.PrefixNew, *p)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Notes about the project")
	cmd.Flags().StringVarP(&color, "color", "c", "", "Hex color such as #ff0000")
	return cmd
}

func newNewTodoCommand(deps *commandDeps) *cobra.Command {
	var (
		project     string
		parent      string
		description string
		priority    string
		due         string
		estimate    int
		location    string
		link        string
	)

	cmd := &cobra.Command{
		Use:   "todo <TITLE>",
		Short: "Create a todo",
		Long: "Create a todo. The project defaults to the one pinned by the nearest .tudu file;\n" +
			"with --parent and no project, the parent's project is used.",
		Args: exactArgs(1, "a todo TITLE"),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			in := model.NewTodo{Title: strings.TrimSpace(args[0])}
			if in.Title == "" {
				return usageErrorf("todo title must not be empty")
			}

			var parentID *int64
			if flags.Changed("parent") {
				id, err := parseID("parent todo", parent)
				if err != nil {
					return err
				}
				parentID = &id
				in.ParentID = parentID
			}
			if flags.Changed("description") {
				in.Description = stringPtr(description)
			}
			if flags.Changed("priority") {
				p, err := parsePriority(priority)
				if err != nil {
					return err
				}
				in.Priority = &p
			}
			if flags.Changed("due") {
				d, err := parseDate(due)
				if err != nil {
					return err
				}
				in.DueDate = &d
			}
			if flags.Changed("estimate") {
				m, err := parseEstimate(estimate)
				if err != nil {
					return err
				}
				in.EstimatedMinutes = &m
			}
			if flags.Changed("location") {
				in.Location = stringPtr(location)
			}
			if flags.Changed("url") {
				u, err := parseURL(link)
				if err != nil {
					return err
				}
				in.URL = &u
			}

			return withStore(cmd, deps, func(ctx context.Context, rt *session) error {
				projectID, err := todoProjectID(ctx, rt, project, parentID)
				if err != nil {
					return err
				}
				in.ProjectID = projectID

				t, err := rt.store.CreateTodo(ctx, in)
				if err != nil {
					return err
				}
				rt.printer.Todo(display.PrefixNew, *t)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&project, "project", "p", "", "Project id or name (default: pinned project)")
	flags.StringVar(&parent, "parent", "", "Parent todo id, for a subtask")
	flags.StringVarP(&description, "description", "d", "", "Notes about the todo")
	flags.StringVarP(&priority, "priority", "P", "", "low, medium, high, urgent or a number (default medium)")
	flags.StringVar(&due, "due", "", "Due date, e.g. 2025-07-01 or \"2025-07-01 17:00\"")
	flags.IntVarP(&estimate, "estimate", "e", 0, "Estimated minutes")
	flags.StringVarP(&location, "location", "l", "", "Where the todo happens")
	flags.StringVarP(&link, "url", "u", "", "Related link")
	return cmd
}

// todoProjectID picks the project for a new todo: the explicit reference,
// then the parent's project, then the pinned project.
func todoProjectID(ctx context.Context, rt *session, ref string, parentID *int64) (int64, error) {
	if strings.TrimSpace(ref) == "" && parentID != nil {
		pinned, err := pinnedProjectID(rt)
		if err != nil {
			return 0, err
		}
		if pinned == nil {
			parent, err := rt.store.GetTodo(ctx, *parentID)
			if err != nil {
				return 0, err
			}
			return parent.ProjectID, nil
		}
	}
	p, err := resolveProject(ctx, rt, ref)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}
