package store

import (
	"context"

	"github.com/nhle/tudu/internal/model"
)

// TodoSort selects the ordering of todo queries.
type TodoSort string

// Supported todo orderings. The zero value sorts by id.
const (
	SortByID       TodoSort = "id"
	SortByPriority TodoSort = "priority"
	SortByDueDate  TodoSort = "due"
)

// TodoFilter controls filtering, sorting, and pagination for todo queries.
type TodoFilter struct {
	ProjectID   *int64
	ParentID    *int64             // direct children of this todo
	Statuses    []model.TodoStatus // any of these statuses (OR logic)
	OpenOnly    bool               // pending and in_progress only
	MinPriority *int               // priority >= MinPriority
	SortBy      TodoSort           // "id" (default), "priority", "due"
	Limit       int
	Offset      int
}

// Store defines the persistence interface for projects and todos. Every
// method runs in its own transaction.
type Store interface {
	// === Schema ===

	ApplyMigrations(ctx context.Context) (int, error)
	SchemaVersion(ctx context.Context) (int, error)

	// === Project CRUD ===

	CreateProject(ctx context.Context, in model.NewProject) (*model.Project, error)
	GetProject(ctx context.Context, id int64) (*model.Project, error)
	FindProjectByName(ctx context.Context, name string) (*model.Project, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	UpdateProject(ctx context.Context, id int64, patch model.ProjectPatch) (*model.Project, error)
	CloseProject(ctx context.Context, id int64, resolution model.TodoStatus) (int, error)
	DeleteProject(ctx context.Context, id int64) (int, error)

	// === Todo CRUD ===

	CreateTodo(ctx context.Context, in model.NewTodo) (*model.Todo, error)
	GetTodo(ctx context.Context, id int64) (*model.Todo, error)
	ListTodos(ctx context.Context, filter TodoFilter) ([]model.Todo, error)
	ListChildren(ctx context.Context, parentID int64) ([]model.Todo, error)
	CountTodos(ctx context.Context, filter TodoFilter) (int, error)
	UpdateTodo(ctx context.Context, id int64, patch model.TodoPatch) (*model.Todo, error)
	CloseTodo(ctx context.Context, id int64) (*model.Todo, error)
	DeleteTodo(ctx context.Context, id int64) (int, error)

	Close() error
}

var _ Store = (*SQLiteStore)(nil)
