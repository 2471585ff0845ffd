package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nhle/tudu/internal/model"
)

func ptr[T any](v T) *T { return &v }

func newTestPrinter() (*Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, "2006-01-02")
	p.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return p, &buf
}

func TestTodoLine(t *testing.T) {
	t.Parallel()
	p, buf := newTestPrinter()

	p.Todo(PrefixNew, model.Todo{
		ID:       7,
		Title:    "Finish README",
		Priority: 2,
		Status:   model.StatusInProgress,
		DueDate:  ptr(time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)),
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "New", lines[0])
	require.Contains(t, lines[1], "#7")
	require.Contains(t, lines[1], "[P2]")
	require.Contains(t, lines[1], "[in_progress]")
	require.Contains(t, lines[1], "Finish README")
	require.Contains(t, lines[1], "Finish README Due: 2025-07-0")
	require.NotContains(t, buf.String(), "\x1b[")
}

func TestTodoDetail(t *testing.T) {
	t.Parallel()
	p, buf := newTestPrinter()

	created := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	p.TodoDetail(PrefixNone, model.Todo{
		ID:               3,
		ParentID:         ptr(int64(1)),
		Title:            "Write docs",
		Description:      ptr("the long version"),
		Status:           model.StatusDone,
		Priority:         model.PriorityUrgent,
		EstimatedMinutes: ptr(45),
		Location:         ptr("office"),
		URL:              ptr("https://example.com"),
		CreatedAt:        created,
		UpdatedAt:        created,
		CompletedAt:      &created,
	})

	out := buf.String()
	require.Contains(t, out, "the long version")
	require.Contains(t, out, "Parent: #1")
	require.Contains(t, out, "Location: office")
	require.Contains(t, out, "URL: https://example.com")
	require.Contains(t, out, "Estimate: 45min")
	require.Contains(t, out, "Priority: urgent")
	require.Contains(t, out, "Completed: ")
}

func TestTodoTreeIndentsChildren(t *testing.T) {
	t.Parallel()
	p, buf := newTestPrinter()

	p.TodoTree([]model.Todo{
		{ID: 1, Title: "parent", Priority: 1},
		{ID: 2, Title: "child", Priority: 1, ParentID: ptr(int64(1))},
		{ID: 3, Title: "grandchild", Priority: 1, ParentID: ptr(int64(2))},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "#1"))
	require.True(t, strings.HasPrefix(lines[1], "    #2"))
	require.True(t, strings.HasPrefix(lines[2], "        #3"))
}

func TestProjectDetail(t *testing.T) {
	t.Parallel()
	p, buf := newTestPrinter()

	p.ProjectDetail(PrefixUpdated, model.Project{
		ID:          1,
		Name:        "Tudu Project",
		Description: ptr("cli tool"),
		Color:       ptr("#ff0000"),
	})

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "Updated\n"))
	require.Contains(t, out, "#1")
	require.Contains(t, out, "Tudu Project")
	require.Contains(t, out, "cli tool")
}

func TestEmptyListsPrintHints(t *testing.T) {
	t.Parallel()
	p, buf := newTestPrinter()

	p.Projects(nil)
	p.Todos(nil)

	require.Contains(t, buf.String(), "No projects yet")
	require.Contains(t, buf.String(), "No todos found.")
}

func TestError(t *testing.T) {
	t.Parallel()
	p, buf := newTestPrinter()

	p.Error("Not found", "todo 9", "list todos with: tudu list todo")

	require.Equal(t, "✖ Not found: todo 9\n  list todos with: tudu list todo\n", buf.String())
}
