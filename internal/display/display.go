// Package display renders projects and todos for the terminal.
package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tudu/internal/model"
	"github.com/nhle/tudu/internal/theme"
)

// DefaultDateFormat renders e.g. "Mon Jan 2, 2006 3:04pm".
const DefaultDateFormat = "Mon Jan 2, 2006 3:04pm"

// Prefix labels the action a rendered entity is the result of.
type Prefix string

// Action prefixes. PrefixNone renders no label line.
const (
	PrefixNone    Prefix = ""
	PrefixNew     Prefix = "New"
	PrefixUpdated Prefix = "Updated"
	PrefixClosed  Prefix = "Closed"
	PrefixDeleted Prefix = "Deleted"
)

const indentWidth = 4

// Printer writes styled output to a single writer. Colors are only emitted
// when the writer is a terminal.
type Printer struct {
	w          io.Writer
	styles     *theme.Styles
	dateFormat string
	now        func() time.Time
}

// NewPrinter returns a Printer for w. An empty dateFormat selects
// DefaultDateFormat.
func NewPrinter(w io.Writer, dateFormat string) *Printer {
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}
	return &Printer{
		w:          w,
		styles:     theme.New(lipgloss.NewRenderer(w)),
		dateFormat: dateFormat,
		now:        time.Now,
	}
}

// Project prints a one-line project summary.
func (p *Printer) Project(prefix Prefix, project model.Project) {
	p.prefix(prefix)
	p.println(p.projectLine(project))
}

// ProjectDetail prints a project with its description.
func (p *Printer) ProjectDetail(prefix Prefix, project model.Project) {
	p.prefix(prefix)
	p.println(p.projectLine(project))
	if project.Description != nil && *project.Description != "" {
		p.println(*project.Description)
	}
	p.println(p.styles.Muted.Render(strings.Join([]string{
		p.date("Created", project.CreatedAt),
		p.date("Updated", project.UpdatedAt),
	}, " • ")))
}

// Projects prints one line per project, or a hint when there are none.
func (p *Printer) Projects(projects []model.Project) {
	if len(projects) == 0 {
		p.Info("No projects yet. Create one with: tudu new project <NAME>")
		return
	}
	for _, project := range projects {
		p.println(p.projectLine(project))
	}
}

// Todo prints a one-line todo summary.
func (p *Printer) Todo(prefix Prefix, todo model.Todo) {
	p.prefix(prefix)
	p.println(p.todoLine(todo))
}

// TodoDetail prints a todo with every populated field.
func (p *Printer) TodoDetail(prefix Prefix, todo model.Todo) {
	p.prefix(prefix)
	p.println(p.todoLine(todo))
	for _, line := range p.detailLines(todo) {
		p.println(line)
	}
}

// Todos prints a flat list of todos, or a hint when there are none.
func (p *Printer) Todos(todos []model.Todo) {
	if len(todos) == 0 {
		p.Info("No todos found.")
		return
	}
	for _, todo := range todos {
		p.println(p.todoLine(todo))
	}
}

// TodoTree prints todos nested under their parents.
func (p *Printer) TodoTree(todos []model.Todo) {
	if len(todos) == 0 {
		p.Info("No todos found.")
		return
	}
	for _, row := range model.Flatten(model.BuildTree(todos)) {
		p.println(strings.Repeat(" ", row.Depth*indentWidth) + p.todoLine(row.Todo))
	}
}

// Heading prints a section heading.
func (p *Printer) Heading(text string) {
	p.println(p.styles.Heading.Render(text))
}

// Info prints a muted informational line.
func (p *Printer) Info(format string, args ...any) {
	p.println(p.styles.Muted.Render(fmt.Sprintf(format, args...)))
}

// Success prints a labelled confirmation line such as "Deleted project #3".
func (p *Printer) Success(prefix Prefix, format string, args ...any) {
	p.println(p.styles.Label.Render(string(prefix)) + " " + fmt.Sprintf(format, args...))
}

// Error prints a failure line followed by an optional hint.
func (p *Printer) Error(kind, message, hint string) {
	p.println(p.styles.Error.Render("✖ "+kind+":") + " " + message)
	if hint != "" {
		p.println(p.styles.Hint.Render("  " + hint))
	}
}

// Blank prints an empty line.
func (p *Printer) Blank() {
	fmt.Fprintln(p.w)
}

func (p *Printer) prefix(prefix Prefix) {
	if prefix == PrefixNone {
		return
	}
	p.println(p.styles.Label.Render(string(prefix)))
}

func (p *Printer) projectLine(project model.Project) string {
	id := fmt.Sprintf("%-5s", "#"+strconv.FormatInt(project.ID, 10))
	return p.styles.ID.Render(id) + " " + p.styles.ProjectStyle(project.Color).Render(project.Name)
}

func (p *Printer) todoLine(todo model.Todo) string {
	id := fmt.Sprintf("%-5s", "#"+strconv.FormatInt(todo.ID, 10))
	priority := fmt.Sprintf("[P%d]", todo.Priority)
	status := fmt.Sprintf("%-14s", "["+todo.Status.String()+"]")

	parts := []string{
		p.styles.ID.Render(id),
		p.styles.PriorityStyle(todo.Priority).Render(priority),
		p.styles.StatusStyle(todo.Status).Render(status),
		todo.Title,
	}
	if todo.DueDate != nil {
		due := p.date("Due", *todo.DueDate)
		if todo.IsOverdue(p.now()) {
			due = p.styles.Overdue.Render(due)
		} else {
			due = p.styles.Muted.Render(due)
		}
		parts = append(parts, due)
	}
	return strings.Join(parts, " ")
}

func (p *Printer) detailLines(todo model.Todo) []string {
	var lines []string
	if todo.Description != nil && *todo.Description != "" {
		lines = append(lines, *todo.Description)
	}

	var details []string
	if todo.ParentID != nil {
		details = append(details, p.field("Parent", "#"+strconv.FormatInt(*todo.ParentID, 10)))
	}
	if todo.Location != nil {
		details = append(details, p.field("Location", *todo.Location))
	}
	if todo.URL != nil {
		details = append(details, p.field("URL", *todo.URL))
	}
	if todo.EstimatedMinutes != nil {
		details = append(details, p.field("Estimate", strconv.Itoa(*todo.EstimatedMinutes)+"min"))
	}
	details = append(details, p.field("Priority", model.PriorityName(todo.Priority)))
	lines = append(lines, strings.Join(details, " • "))

	stamps := []string{
		p.date("Created", todo.CreatedAt),
		p.date("Updated", todo.UpdatedAt),
	}
	if todo.CompletedAt != nil {
		stamps = append(stamps, p.date("Completed", *todo.CompletedAt))
	}
	lines = append(lines, p.styles.Muted.Render(strings.Join(stamps, " • ")))
	return lines
}

func (p *Printer) field(name, value string) string {
	return p.styles.Field.Render(name+":") + " " + value
}

func (p *Printer) date(label string, t time.Time) string {
	return label + ": " + t.Local().Format(p.dateFormat)
}

func (p *Printer) println(s string) {
	fmt.Fprintln(p.w, s)
}
