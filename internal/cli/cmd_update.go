package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/tudu/internal/display"
	"github.com/nhle/tudu/internal/model"
)

func newUpdateCommand(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "update",
		Aliases: []string{"edit"},
		Short:   "Change a project or a todo",
	}
	cmd.AddCommand(
		newUpdateProjectCommand(deps),
		newUpdateTodoCommand(deps),
	)
	return cmd
}

func newUpdateProjectCommand(deps *commandDeps) *cobra.Command {
	var (
		name             string
		description      string
		color            string
		clearDescription bool
		clearColor       bool
	)

	cmd := &cobra.Command{
		Use:   "project [ID|NAME]",
		Short: "Change a project's name, description or color",
		Args:  maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			patch := model.ProjectPatch{
				ClearDescription: clearDescription,
				ClearColor:       clearColor,
			}
			if flags.Changed("name") {
				if strings.TrimSpace(name) == "" {
					return usageErrorf("project name must not be empty")
				}
				patch.Name = stringPtr(name)
			}
			if flags.Changed("description") {
				patch.Description = stringPtr(description)
			}
			if flags.Changed("color") {
				c, err := parseColor(color)
				if err != nil {
					return err
				}
				patch.Color = &c
			}
			if patch.IsEmpty() {
				return usageErrorf("nothing to update; pass --name, --description or --color")
			}

			return withStore(cmd, deps, func(ctx context.Context, rt *session) error {
				p, err := resolveProject(ctx, rt, optionalArg(args))
				if err != nil {
					return err
				}
				updated, err := rt.store.UpdateProject(ctx, p.ID, patch)
				if err != nil {
					return err
				}
				rt.printer.ProjectDetail(display.PrefixUpdated, *updated)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "New project name")
	flags.StringVarP(&description, "description", "d", "", "New description")
	flags.StringVarP(&color, "color", "c", "", "New hex color")
	flags.BoolVar(&clearDescription, "clear-description", false, "Remove the description")
	flags.BoolVar(&clearColor, "clear-color", false, "Remove the color")
	cmd.MarkFlagsMutuallyExclusive("description", "clear-description")
	cmd.MarkFlagsMutuallyExclusive("color", "clear-color")
	return cmd
}

func newUpdateTodoCommand(deps *commandDeps) *cobra.Command {
	var (
		title       string
		description string
		status      string
		priority    string
		due         string
		estimate    int
		location    string
		link        string
		project     string
		parent      string
		noParent    bool

		clearDescription bool
		clearDue         bool
		clearEstimate    bool
		clearLocation    bool
		clearURL         bool
	)

	cmd := &cobra.Command{
		Use:   "todo <ID>",
		Short: "Change a todo",
		Long: "Change a todo. Moving it to another project with --project takes its subtasks along\n" +
			"and detaches it from its parent unless --parent names one in the new project.",
		Args: exactArgs(1, "a todo ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("todo", args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			patch := model.TodoPatch{
				ClearParent:           noParent,
				ClearDescription:      clearDescription,
				ClearDueDate:          clearDue,
				ClearEstimatedMinutes: clearEstimate,
				ClearLocation:         clearLocation,
				ClearURL:              clearURL,
			}
			if flags.Changed("title") {
				if strings.TrimSpace(title) == "" {
					return usageErrorf("todo title must not be empty")
				}
				patch.Title = stringPtr(title)
			}
			if flags.Changed("description") {
				patch.Description = stringPtr(description)
			}
			if flags.Changed("status") {
				st, err := parseStatus(status)
				if err != nil {
					return err
				}
				patch.Status = &st
			}
			if flags.Changed("priority") {
				p, err := parsePriority(priority)
				if err != nil {
					return err
				}
				patch.Priority = &p
			}
			if flags.Changed("due") {
				d, err := parseDate(due)
				if err != nil {
					return err
				}
				patch.DueDate = &d
			}
			if flags.Changed("estimate") {
				m, err := parseEstimate(estimate)
				if err != nil {
					return err
				}
				patch.EstimatedMinutes = &m
			}
			if flags.Changed("location") {
				patch.Location = stringPtr(location)
			}
			if flags.Changed("url") {
				u, err := parseURL(link)
				if err != nil {
					return err
				}
				patch.URL = &u
			}
			if flags.Changed("parent") {
				pid, err := parseID("parent todo", parent)
				if err != nil {
					return err
				}
				patch.ParentID = &pid
			}
			if !flags.Changed("project") && patch.IsEmpty() {
				return usageErrorf("nothing to update; see tudu update todo --help")
			}

			return withStore(cmd, deps, func(ctx context.Context, rt *session) error {
				if flags.Changed("project") {
					p, err := resolveProject(ctx, rt, project)
					if err != nil {
						return err
					}
					patch.ProjectID = &p.ID
				}
				t, err := rt.store.UpdateTodo(ctx, id, patch)
				if err != nil {
					return err
				}
				rt.printer.TodoDetail(display.PrefixUpdated, *t)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&title, "title", "", "New title")
	flags.StringVarP(&description, "description", "d", "", "New description")
	flags.StringVarP(&status, "status", "s", "", "pending, in_progress, done or cancelled")
	flags.StringVarP(&priority, "priority", "P", "", "low, medium, high, urgent or a number")
	flags.StringVar(&due, "due", "", "New due date")
	flags.IntVarP(&estimate, "estimate", "e", 0, "Estimated minutes")
	flags.StringVarP(&location, "location", "l", "", "New location")
	flags.StringVarP(&link, "url", "u", "", "New related link")
	flags.StringVarP(&project, "project", "p", "", "Move to this project (id or name)")
	flags.StringVar(&parent, "parent", "", "Nest under this todo")
	flags.BoolVar(&noParent, "no-parent", false, "Make this a top-level todo")
	flags.BoolVar(&clearDescription, "clear-description", false, "Remove the description")
	flags.BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	flags.BoolVar(&clearEstimate, "clear-estimate", false, "Remove the estimate")
	flags.BoolVar(&clearLocation, "clear-location", false, "Remove the location")
	flags.BoolVar(&clearURL, "clear-url", false, "Remove the link")
	cmd.MarkFlagsMutuallyExclusive("parent", "no-parent")
	cmd.MarkFlagsMutuallyExclusive("description", "clear-description")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")
	cmd.MarkFlagsMutuallyExclusive("estimate", "clear-estimate")
	cmd.MarkFlagsMutuallyExclusive("location", "clear-location")
	cmd.MarkFlagsMutuallyExclusive("url", "clear-url")
	return cmd
}
