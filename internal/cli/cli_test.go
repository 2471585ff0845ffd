package cli

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/tudu/internal/model"
	"github.com/nhle/tudu/internal/store"
)

type cliEnv struct {
	t       *testing.T
	dir     string
	confirm func(title, description string) (bool, error)
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	return &cliEnv{
		t:       t,
		dir:     t.TempDir(),
		confirm: func(string, string) (bool, error) { return true, nil },
	}
}

func (e *cliEnv) configPath() string { return filepath.Join(e.dir, "config.yaml") }
func (e *cliEnv) dbPath() string     { return filepath.Join(e.dir, "tudu.db") }

func (e *cliEnv) run(args ...string) (string, error) {
	e.t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCommand(&commandDeps{
		out:     &out,
		confirm: e.confirm,
		workdir: func() (string, error) { return e.dir, nil },
	}, BuildInfo{Version: "1.2.3", Commit: "abc123", BuildTime: "2025-01-01T00:00:00Z"})
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", e.configPath(), "--db", e.dbPath()}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()

	out, err := e.run(args...)
	require.NoErrorf(e.t, err, "tudu %s", strings.Join(args, " "))
	return out
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()
	env := newCLIEnv(t)

	out := env.mustRun("version")
	require.Equal(t, "version=1.2.3 commit=abc123 build_time=2025-01-01T00:00:00Z\n", out)

	out = env.mustRun("version", "--json")
	require.Contains(t, out, `"version": "1.2.3"`)
	require.Contains(t, out, `"commit": "abc123"`)
}

func TestMigrationsCommand(t *testing.T) {
	t.Parallel()
	env := newCLIEnv(t)

	out := env.mustRun("migrations")
	require.Contains(t, out, fmt.Sprintf("applied %d migrations; schema is at version %d",
		len(store.Migrations()), store.CurrentSchemaVersion()))
	require.FileExists(t, env.dbPath())

	out = env.mustRun("migrations", "--list")
	require.Contains(t, out, fmt.Sprintf("Schema is up to date (version %d).", store.CurrentSchemaVersion()))
	require.Contains(t, out, "v1  create projects and todos  applied")
}

func TestProjectAndTodoFlow(t *testing.T) {
	t.Parallel()
	env := newCLIEnv(t)

	out := env.mustRun("new", "project", "Tudu Project", "-d", "the todo app", "-c", "#ff8800")
	require.Contains(t, out, "New\n")
	require.Contains(t, out, "#1")
	require.Contains(t, out, "Tudu Project")
	require.Contains(t, out, "the todo app")

	out = env.mustRun("new", "todo", "Finish README", "-p", "Tudu Project", "-P", "high", "--due", "2030-01-02")
	require.Contains(t, out, "#1")
	require.Contains(t, out, "[P2]")
	require.Contains(t, out, "[pending]")
	require.Contains(t, out, "Finish README")

	out = env.mustRun("new", "todo", "Write intro", "--parent", "1", "-e", "30", "-u", "https://example.com/readme")
	require.Contains(t, out, "#2")
	require.Contains(t, out, "Write intro")

	out = env.mustRun("list", "todo", "-p", "1")
	require.Contains(t, out, "Tudu Project")
	require.Contains(t, out, "Finish README")
	require.Contains(t, out, "Write intro")

	out = env.mustRun("list", "todo", "-p", "1", "--tree")
	require.Contains(t, out, "\n    #2")

	out = env.mustRun("view", "todo", "2")
	require.Contains(t, out, "Parent: #1")
	require.Contains(t, out, "Estimate: 30min")
	require.Contains(t, out, "URL: https://example.com/readme")

	out = env.mustRun("view", "todo", "1")
	require.Contains(t, out, "Subtasks")
	require.Contains(t, out, "Write intro")

	out = env.mustRun("update", "todo", "2", "--title", "Write the intro", "-s", "in_progress")
	require.Contains(t, out, "Updated\n")
	require.Contains(t, out, "Write the intro")
	require.Contains(t, out, "[in_progress]")

	out = env.mustRun("close", "todo", "2")
	require.Contains(t, out, "Closed\n")
	require.Contains(t, out, "[done]")

	out = env.mustRun("list", "todo", "-p", "1")
	require.Contains(t, out, "Finish README")
	require.NotContains(t, out, "Write the intro")

	out = env.mustRun("list", "todo", "-p", "1", "--include-done")
	require.Contains(t, out, "Write the intro")

	out = env.mustRun("list", "todo", "-p", "1", "-s", "done")
	require.Contains(t, out, "Write the intro")
	require.NotContains(t, out, "Finish README")

	out = env.mustRun("close", "project", "1")
	require.Contains(t, out, "1 todo marked done")

	out = env.mustRun("view", "project", "1", "--all")
	require.Contains(t, out, "Todos")
	require.Contains(t, out, "[done]")

	out = env.mustRun("update", "project", "1", "--name", "Tudu")
	require.Contains(t, out, "Updated\n")
	require.Contains(t, out, "Tudu")

	out = env.mustRun("delete", "project", "Tudu")
	require.Contains(t, out, "Deleted project #1 Tudu and 2 todos")

	out = env.mustRun("list", "project")
	require.Contains(t, out, "No projects yet.")
}

func TestListTodoLimit(t *testing.T) {
	t.Parallel()
	env := newCLIEnv(t)

	env.mustRun("new", "project", "p")
	for i := 0; i < 3; i++ {
		env.mustRun("new", "todo", fmt.Sprintf("task %d", i), "-p", "p")
	}

	out := env.mustRun("list", "todo", "-p", "p", "-n", "2")
	require.Contains(t, out, "task 0")
	require.Contains(t, out, "task 1")
	require.NotContains(t, out, "task 2")
	require.Contains(t, out, "showing 2 of 3 todos")

	out = env.mustRun("list", "todo", "-p", "p", "--sort", "priority")
	require.Contains(t, out, "task 2")
}

func TestDeleteTodoRemovesSubtasks(t *testing.T) {
	t.Parallel()
	env := newCLIEnv(t)

	env.mustRun("new", "project", "p")
	env.mustRun("new", "todo", "parent", "-p", "p")
	env.mustRun("new", "todo", "child", "--parent", "1")
	env.mustRun("new", "todo", "other", "-p", "p")

	out := env.mustRun("delete", "todo", "1", "--yes")
	require.Contains(t, out, "Deleted todo #1 parent (2 todos removed)")

	out = env.mustRun("list", "todo", "-p", "p")
	require.NotContains(t, out, "child")
	require.Contains(t, out, "other")
}

func TestDeleteDeclined(t *testing.T) {
	t.Parallel()
	env := newCLIEnv(t)
	var asked string
	env.confirm = func(title, _ string) (bool, error) {
		asked = title
		return false, nil
	}

	env.mustRun("new", "project", "keep me")
	out := env.mustRun("delete", "project", "keep me")
	require.Contains(t, out, "Aborted.")
	require.Equal(t, `Delete project "keep me"?`, asked)

	out = env.mustRun("list", "project")
	require.Contains(t, out, "keep me")
}

func TestDeleteConfirmFailureIsUsageError(t *testing.T) {
	t.Parallel()
	env := newCLIEnv(t)
	env.confirm = func(string, string) (bool, error) { return false, errors.New("no tty") }

	env.mustRun("new", "project", "p")
	_, err := env.run("delete", "project", "p")
	require.Error(t, err)
	require.Equal(t, ExitCodeUsage, ExitCodeFor(err))
	require.Contains(t, err.Error(), "--yes")
}

func TestPinnedProject(t *testing.T) {
	t.Parallel()
	env := newCLIEnv(t)

	env.mustRun("new", "project", "first")
	env.mustRun("new", "project", "second")

	_, err := env.run("new", "todo", "orphan")
	require.Error(t, err)
	require.Equal(t, ExitCodeUsage, ExitCodeFor(err))

	out := env.mustRun("pin", "second")
	require.Contains(t, out, "Pinned project #2 second in "+filepath.Join(env.dir, model.WorkspaceFileName))

	id, ok, err := model.WorkspaceProjectID(env.dir)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(2), id)

	env.mustRun("new", "todo", "pinned task")
	env.mustRun("new", "todo", "first task", "-p", "first")

	out = env.mustRun("list", "todo")
	require.Contains(t, out, "second")
	require.Contains(t, out, "pinned task")
	require.NotContains(t, out, "first task")

	out = env.mustRun("list", "todo", "--all-projects")
	require.Contains(t, out, "pinned task")
	require.Contains(t, out, "first task")

	out = env.mustRun("view", "project")
	require.Contains(t, out, "Open todos")
	require.Contains(t, out, "pinned task")
}

func TestExitCodes(t *testing.T) {
	t.Parallel()
	env := newCLIEnv(t)
	env.mustRun("new", "project", "p")

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"bad date", []string{"new", "todo", "x", "-p", "p", "--due", "next week"}, ExitCodeUsage},
		{"bad color", []string{"new", "project", "q", "-c", "red"}, ExitCodeUsage},
		{"bad url", []string{"new", "todo", "x", "-p", "p", "-u", "not a url"}, ExitCodeUsage},
		{"bad priority", []string{"new", "todo", "x", "-p", "p", "-P", "soon"}, ExitCodeUsage},
		{"negative estimate", []string{"new", "todo", "x", "-p", "p", "-e", "-5"}, ExitCodeUsage},
		{"unknown flag", []string{"list", "todo", "--bogus"}, ExitCodeUsage},
		{"bad status", []string{"list", "todo", "-s", "finished"}, ExitCodeUsage},
		{"bad sort", []string{"list", "todo", "--sort", "title"}, ExitCodeUsage},
		{"bad id", []string{"view", "todo", "abc"}, ExitCodeUsage},
		{"missing arg", []string{"close", "todo"}, ExitCodeUsage},
		{"empty update", []string{"update", "project", "p"}, ExitCodeUsage},
		{"bad log level", []string{"--log-level", "loud", "list", "project"}, ExitCodeUsage},
		{"missing todo", []string{"view", "todo", "99"}, ExitCodeNotFound},
		{"missing project", []string{"view", "project", "nope"}, ExitCodeNotFound},
		{"missing parent", []string{"new", "todo", "x", "-p", "p", "--parent", "42"}, ExitCodeNotFound},
		{"close missing", []string{"close", "todo", "7"}, ExitCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(tt.args...)
			require.Error(t, err)
			require.Equal(t, tt.code, ExitCodeFor(err), "error: %v", err)
		})
	}
}

func TestSelfParentIsUsageError(t *testing.T) {
	t.Parallel()
	env := newCLIEnv(t)
	env.mustRun("new", "project", "p")
	env.mustRun("new", "todo", "a", "-p", "p")

	_, err := env.run("update", "todo", "1", "--parent", "1")
	require.Error(t, err)
	require.Equal(t, ExitCodeUsage, ExitCodeFor(err))
	require.ErrorIs(t, err, store.ErrValidation)
}

func TestPromptIsRejected(t *testing.T) {
	t.Parallel()
	env := newCLIEnv(t)

	_, err := env.run("--prompt", "add milk to groceries", "list", "project")
	require.Error(t, err)
	require.Equal(t, ExitCodeGeneric, ExitCodeFor(err))
}

func TestConfigInitAndShow(t *testing.T) {
	t.Parallel()
	env := newCLIEnv(t)

	out := env.mustRun("config", "init")
	require.Equal(t, "wrote "+env.configPath()+"\n", out)
	require.FileExists(t, env.configPath())

	_, err := env.run("config", "init")
	require.Error(t, err)
	require.Equal(t, ExitCodeUsage, ExitCodeFor(err))

	env.mustRun("config", "init", "--force")

	out = env.mustRun("config", "show")
	require.True(t, strings.HasPrefix(out, "# "+env.configPath()+"\n"))
	require.Contains(t, out, "database:")
	require.Contains(t, out, "path: "+env.dbPath())
	require.Contains(t, out, "auto_migrate: true")

	data, err := os.ReadFile(env.configPath())
	require.NoError(t, err)
	require.Contains(t, string(data), env.dbPath())
}

func TestMapCommandError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("x: %w", store.ErrValidation), ExitCodeUsage},
		{fmt.Errorf("x: %w", model.ErrInvalidStatus), ExitCodeUsage},
		{fmt.Errorf("todo 1: %w", store.ErrNotFound), ExitCodeNotFound},
		{fmt.Errorf("x: %w", store.ErrStorage), ExitCodeStorage},
		{fmt.Errorf("x: %w", store.ErrMigration), ExitCodeMigration},
		{errors.New("boom"), ExitCodeGeneric},
		{usageErrorf("bad"), ExitCodeUsage},
		{fmt.Errorf("resolving project: %w", usageErrorf("bad")), ExitCodeUsage},
		{fmt.Errorf("outer: %w", &ExitError{Code: ExitCodeStorage, Err: store.ErrValidation}), ExitCodeStorage},
	}
	for _, tt := range tests {
		require.Equal(t, tt.code, ExitCodeFor(tt.err), "error: %v", tt.err)
	}
	require.Equal(t, ExitCodeSuccess, ExitCodeFor(nil))
	require.NoError(t, mapCommandError(nil))
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	RenderError(&buf, fmt.Errorf("todo 9: %w", store.ErrNotFound))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "✖ Not found: todo 9: not found", lines[0])
	require.Equal(t, "  List existing entries with: tudu list project | tudu list todo", lines[1])
}

func TestMigrationsFailOnConflictingSchema(t *testing.T) {
	t.Parallel()
	env := newCLIEnv(t)

	db, err := sql.Open("sqlite", env.dbPath())
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE projects (id INTEGER PRIMARY KEY, title TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = env.run("migrations")
	require.Error(t, err)
	require.Equal(t, ExitCodeMigration, ExitCodeFor(err))
	require.ErrorIs(t, err, store.ErrMigration)

	_, err = env.run("list", "project")
	require.Equal(t, ExitCodeMigration, ExitCodeFor(err))
}
