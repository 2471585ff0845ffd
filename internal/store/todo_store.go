package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/tudu/internal/model"
)

const todoColumns = `id, project_id, parent_id, title, description, status, priority,
	due_date, estimated_minutes, location, url, created_at, updated_at, completed_at`

// subtreeCTE selects the todo bound to the first parameter and all of its
// descendants.
const subtreeCTE = `WITH RECURSIVE subtree(id) AS (
		SELECT id FROM todos WHERE id = ?
		UNION
		SELECT t.id FROM todos t JOIN subtree s ON t.parent_id = s.id
	)`

// todoRow mirrors the todos table. Status is kept raw so that out-of-range
// values surface as validation errors instead of scan failures.
type todoRow struct {
	ID               int64      `db:"id"`
	ProjectID        int64      `db:"project_id"`
	ParentID         *int64     `db:"parent_id"`
	Title            string     `db:"title"`
	Description      *string    `db:"description"`
	Status           int64      `db:"status"`
	Priority         int        `db:"priority"`
	DueDate          *time.Time `db:"due_date"`
	EstimatedMinutes *int       `db:"estimated_minutes"`
	Location         *string    `db:"location"`
	URL              *string    `db:"url"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
	CompletedAt      *time.Time `db:"completed_at"`
}

func (r todoRow) toModel() (model.Todo, error) {
	status, err := model.ParseStatus(r.Status)
	if err != nil {
		return model.Todo{}, fmt.Errorf("%w: todo %d: %w", ErrValidation, r.ID, err)
	}
	return model.Todo{
		ID:               r.ID,
		ProjectID:        r.ProjectID,
		ParentID:         r.ParentID,
		Title:            r.Title,
		Description:      r.Description,
		Status:           status,
		Priority:         r.Priority,
		DueDate:          r.DueDate,
		EstimatedMinutes: r.EstimatedMinutes,
		Location:         r.Location,
		URL:              r.URL,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		CompletedAt:      r.CompletedAt,
	}, nil
}

// CreateTodo inserts a pending todo into an existing project.
func (s *SQLiteStore) CreateTodo(ctx context.Context, in model.NewTodo) (*model.Todo, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalidf("todo title must not be empty")
	}
	priority := model.PriorityMedium
	if in.Priority != nil {
		priority = *in.Priority
	}
	if err := validatePriority(priority); err != nil {
		return nil, err
	}
	if err := validateEstimate(in.EstimatedMinutes); err != nil {
		return nil, err
	}

	var created *model.Todo
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := getProject(ctx, tx, in.ProjectID); err != nil {
			return err
		}
		if in.ParentID != nil {
			parent, err := getTodo(ctx, tx, *in.ParentID)
			if err != nil {
				return err
			}
			if parent.ProjectID != in.ProjectID {
				return invalidf("parent todo %d belongs to project %d, not %d",
					parent.ID, parent.ProjectID, in.ProjectID)
			}
		}

		now := s.stamp(time.Time{})
		result, err := tx.ExecContext(ctx, `
			INSERT INTO todos (
				project_id, parent_id, title, description, status, priority,
				due_date, estimated_minutes, location, url,
				created_at, updated_at, completed_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)`,
			in.ProjectID, in.ParentID, in.Title, in.Description, int(model.StatusPending), priority,
			utcPtr(in.DueDate), in.EstimatedMinutes, in.Location, in.URL,
			now, now,
		)
		if err != nil {
			return storageErr("creating todo", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return storageErr("creating todo", err)
		}
		created, err = getTodo(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("created todo", "id", created.ID, "project", created.ProjectID)
	return created, nil
}

// GetTodo retrieves a todo by ID.
func (s *SQLiteStore) GetTodo(ctx context.Context, id int64) (*model.Todo, error) {
	var t *model.Todo
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		t, err = getTodo(ctx, tx, id)
		return err
	})
	return t, err
}

// ListTodos retrieves todos matching the filter.
func (s *SQLiteStore) ListTodos(ctx context.Context, filter TodoFilter) ([]model.Todo, error) {
	order, err := todoOrder(filter.SortBy)
	if err != nil {
		return nil, err
	}

	var todos []model.Todo
	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		where, args := buildTodoQuery(filter)
		query := "SELECT " + todoColumns + " FROM todos" + where + " ORDER BY " + order
		if filter.Limit > 0 {
			query += " LIMIT ? OFFSET ?"
			args = append(args, filter.Limit, filter.Offset)
		} else if filter.Offset > 0 {
			query += " LIMIT -1 OFFSET ?"
			args = append(args, filter.Offset)
		}
		todos, err = selectTodos(ctx, tx, query, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return todos, nil
}

// ListChildren returns the direct subtasks of a todo in id order.
func (s *SQLiteStore) ListChildren(ctx context.Context, parentID int64) ([]model.Todo, error) {
	var todos []model.Todo
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := getTodo(ctx, tx, parentID); err != nil {
			return err
		}
		var err error
		todos, err = selectTodos(ctx, tx,
			"SELECT "+todoColumns+" FROM todos WHERE parent_id = ? ORDER BY id", parentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return todos, nil
}

// CountTodos returns the number of todos matching the filter. Sorting and
// pagination fields are ignored.
func (s *SQLiteStore) CountTodos(ctx context.Context, filter TodoFilter) (int, error) {
	var count int
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		where, args := buildTodoQuery(filter)
		if err := sqlx.GetContext(ctx, tx, &count, "SELECT COUNT(*) FROM todos"+where, args...); err != nil {
			return storageErr("counting todos", err)
		}
		return nil
	})
	return count, err
}

// UpdateTodo applies a partial update. Moving a todo to another project
// takes its whole subtree along; a parent assignment never creates a cycle.
func (s *SQLiteStore) UpdateTodo(ctx context.Context, id int64, patch model.TodoPatch) (*model.Todo, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	var updated *model.Todo
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		cur, err := getTodo(ctx, tx, id)
		if err != nil {
			return err
		}
		next := *cur

		moving := patch.ProjectID != nil && *patch.ProjectID != cur.ProjectID
		if moving {
			if _, err := getProject(ctx, tx, *patch.ProjectID); err != nil {
				return err
			}
			next.ProjectID = *patch.ProjectID
		}

		switch {
		case patch.ClearParent:
			next.ParentID = nil
		case patch.ParentID != nil:
			parentID := *patch.ParentID
			next.ParentID = &parentID
		case moving:
			next.ParentID = nil
		}
		if next.ParentID != nil && (moving || !sameID(cur.ParentID, next.ParentID)) {
			if err := checkParent(ctx, tx, id, *next.ParentID, next.ProjectID); err != nil {
				return err
			}
		}

		now := s.stamp(cur.UpdatedAt)
		applyTodoPatch(&next, patch)
		if patch.Status != nil {
			switch {
			case !next.Status.IsTerminal():
				next.CompletedAt = nil
			case next.Status != cur.Status || next.CompletedAt == nil:
				next.CompletedAt = &now
			}
		}
		next.UpdatedAt = now

		_, err = tx.ExecContext(ctx, `
			UPDATE todos SET
				project_id = ?, parent_id = ?, title = ?, description = ?,
				status = ?, priority = ?, due_date = ?, estimated_minutes = ?,
				location = ?, url = ?, updated_at = ?, completed_at = ?
			WHERE id = ?`,
			next.ProjectID, next.ParentID, next.Title, next.Description,
			int(next.Status), next.Priority, utcPtr(next.DueDate), next.EstimatedMinutes,
			next.Location, next.URL, next.UpdatedAt, next.CompletedAt,
			id,
		)
		if err != nil {
			return storageErr(fmt.Sprintf("updating todo %d", id), err)
		}

		if moving {
			if err := s.moveDescendants(ctx, tx, id, next.ProjectID); err != nil {
				return err
			}
		}

		updated, err = getTodo(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("updated todo", "id", id)
	return updated, nil
}

// CloseTodo marks a todo done. Closing an already closed todo refreshes its
// completion time.
func (s *SQLiteStore) CloseTodo(ctx context.Context, id int64) (*model.Todo, error) {
	var closed *model.Todo
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		cur, err := getTodo(ctx, tx, id)
		if err != nil {
			return err
		}
		now := s.stamp(cur.UpdatedAt)
		_, err = tx.ExecContext(ctx,
			"UPDATE todos SET status = ?, completed_at = ?, updated_at = ? WHERE id = ?",
			int(model.StatusDone), now, now, id,
		)
		if err != nil {
			return storageErr(fmt.Sprintf("closing todo %d", id), err)
		}
		closed, err = getTodo(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("closed todo", "id", id)
	return closed, nil
}

// DeleteTodo removes a todo and all of its subtasks. It returns the number
// of todos removed.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id int64) (int, error) {
	removed := 0
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var ids []int64
		if err := sqlx.SelectContext(ctx, tx, &ids, subtreeCTE+" SELECT id FROM subtree", id); err != nil {
			return storageErr(fmt.Sprintf("collecting subtree of todo %d", id), err)
		}
		if len(ids) == 0 {
			return notFoundf("todo %d", id)
		}

		query, args, err := sqlx.In("DELETE FROM todos WHERE id IN (?)", ids)
		if err != nil {
			return storageErr(fmt.Sprintf("deleting todo %d", id), err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return storageErr(fmt.Sprintf("deleting todo %d", id), err)
		}
		removed = len(ids)
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Debug("deleted todo", "id", id, "removed", removed)
	return removed, nil
}

// moveDescendants re-homes every descendant of root into projectID.
func (s *SQLiteStore) moveDescendants(ctx context.Context, tx *sqlx.Tx, root, projectID int64) error {
	var rows []struct {
		ID        int64     `db:"id"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	err := sqlx.SelectContext(ctx, tx, &rows, subtreeCTE+`
		SELECT t.id, t.updated_at FROM todos t JOIN subtree s ON t.id = s.id
		WHERE t.id <> ?`, root, root)
	if err != nil {
		return storageErr(fmt.Sprintf("collecting subtree of todo %d", root), err)
	}
	for _, row := range rows {
		_, err := tx.ExecContext(ctx,
			"UPDATE todos SET project_id = ?, updated_at = ? WHERE id = ?",
			projectID, s.stamp(row.UpdatedAt), row.ID,
		)
		if err != nil {
			return storageErr(fmt.Sprintf("moving todo %d", row.ID), err)
		}
	}
	return nil
}

// checkParent verifies that parentID can become the parent of id inside
// projectID.
func checkParent(ctx context.Context, tx *sqlx.Tx, id, parentID, projectID int64) error {
	if parentID == id {
		return invalidf("todo %d cannot be its own parent", id)
	}
	parent, err := getTodo(ctx, tx, parentID)
	if err != nil {
		return err
	}
	if parent.ProjectID != projectID {
		return invalidf("parent todo %d belongs to project %d, not %d",
			parentID, parent.ProjectID, projectID)
	}
	return ensureNoCycle(ctx, tx, id, parentID)
}

// ensureNoCycle walks the parent chain upward from parentID and fails if it
// reaches id or loops.
func ensureNoCycle(ctx context.Context, tx *sqlx.Tx, id, parentID int64) error {
	seen := map[int64]bool{}
	cur := parentID
	for {
		if cur == id {
			return invalidf("todo %d cannot be nested under its own descendant %d", id, parentID)
		}
		if seen[cur] {
			return invalidf("parent chain of todo %d contains a cycle", parentID)
		}
		seen[cur] = true

		var next *int64
		err := sqlx.GetContext(ctx, tx, &next, "SELECT parent_id FROM todos WHERE id = ?", cur)
		if err != nil {
			return lookupErr("todo", cur, err)
		}
		if next == nil {
			return nil
		}
		cur = *next
	}
}

func applyTodoPatch(t *model.Todo, p model.TodoPatch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}

	switch {
	case p.ClearDescription:
		t.Description = nil
	case p.Description != nil:
		t.Description = p.Description
	}
	switch {
	case p.ClearDueDate:
		t.DueDate = nil
	case p.DueDate != nil:
		t.DueDate = p.DueDate
	}
	switch {
	case p.ClearEstimatedMinutes:
		t.EstimatedMinutes = nil
	case p.EstimatedMinutes != nil:
		t.EstimatedMinutes = p.EstimatedMinutes
	}
	switch {
	case p.ClearLocation:
		t.Location = nil
	case p.Location != nil:
		t.Location = p.Location
	}
	switch {
	case p.ClearURL:
		t.URL = nil
	case p.URL != nil:
		t.URL = p.URL
	}
}

func validatePatch(p model.TodoPatch) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return invalidf("todo title must not be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: %w: code %d", ErrValidation, model.ErrInvalidStatus, int(*p.Status))
	}
	if p.Priority != nil {
		if err := validatePriority(*p.Priority); err != nil {
			return err
		}
	}
	if p.ClearParent && p.ParentID != nil {
		return invalidf("cannot set and clear the parent at once")
	}
	return validateEstimate(p.EstimatedMinutes)
}

func validatePriority(p int) error {
	if p < 0 {
		return invalidf("priority must not be negative, got %d", p)
	}
	return nil
}

func validateEstimate(minutes *int) error {
	if minutes != nil && *minutes < 0 {
		return invalidf("estimated minutes must not be negative, got %d", *minutes)
	}
	return nil
}

func getTodo(ctx context.Context, q sqlx.QueryerContext, id int64) (*model.Todo, error) {
	var row todoRow
	err := sqlx.GetContext(ctx, q, &row, "SELECT "+todoColumns+" FROM todos WHERE id = ?", id)
	if err != nil {
		return nil, lookupErr("todo", id, err)
	}
	t, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func selectTodos(ctx context.Context, q sqlx.QueryerContext, query string, args ...any) ([]model.Todo, error) {
	var rows []todoRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, storageErr("querying todos", err)
	}
	todos := make([]model.Todo, 0, len(rows))
	for _, r := range rows {
		t, err := r.toModel()
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, nil
}

// buildTodoQuery constructs the WHERE clause and args for a TodoFilter.
func buildTodoQuery(filter TodoFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.ProjectID != nil {
		conditions = append(conditions, "project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.ParentID != nil {
		conditions = append(conditions, "parent_id = ?")
		args = append(args, *filter.ParentID)
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			placeholders[i] = "?"
			args = append(args, int(st))
		}
		conditions = append(conditions, "status IN ("+strings.Join(placeholders, ", ")+")")
	}
	if filter.OpenOnly {
		conditions = append(conditions, "status IN (?, ?)")
		args = append(args, int(model.StatusPending), int(model.StatusInProgress))
	}
	if filter.MinPriority != nil {
		conditions = append(conditions, "priority >= ?")
		args = append(args, *filter.MinPriority)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func todoOrder(sort TodoSort) (string, error) {
	switch sort {
	case "", SortByID:
		return "id ASC", nil
	case SortByPriority:
		return "priority DESC, id ASC", nil
	case SortByDueDate:
		return "due_date IS NULL, due_date ASC, id ASC", nil
	}
	return "", invalidf("unknown sort order %q", sort)
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
