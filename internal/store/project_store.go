package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/tudu/internal/model"
)

const projectColumns = `id, name, description, color, created_at, updated_at`

// CreateProject inserts a new project and returns it as stored.
func (s *SQLiteStore) CreateProject(ctx context.Context, in model.NewProject) (*model.Project, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalidf("project name must not be empty")
	}

	var created *model.Project
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		now := s.stamp(time.Time{})
		result, err := tx.ExecContext(ctx, `
			INSERT INTO projects (name, description, color, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			in.Name, in.Description, in.Color, now, now,
		)
		if err != nil {
			return storageErr("creating project", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return storageErr("creating project", err)
		}
		created, err = getProject(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("created project", "id", created.ID, "name", created.Name)
	return created, nil
}

// GetProject retrieves a project by ID.
func (s *SQLiteStore) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	var p *model.Project
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		p, err = getProject(ctx, tx, id)
		return err
	})
	return p, err
}

// FindProjectByName returns the oldest project whose name matches exactly.
func (s *SQLiteStore) FindProjectByName(ctx context.Context, name string) (*model.Project, error) {
	var p model.Project
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		err := sqlx.GetContext(ctx, tx, &p,
			"SELECT "+projectColumns+" FROM projects WHERE name = ? ORDER BY id LIMIT 1", name)
		if err != nil {
			if isNoRows(err) {
				return notFoundf("project %q", name)
			}
			return storageErr("finding project", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects returns all projects ordered by id.
func (s *SQLiteStore) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		err := sqlx.SelectContext(ctx, tx, &projects,
			"SELECT "+projectColumns+" FROM projects ORDER BY id")
		if err != nil {
			return storageErr("listing projects", err)
		}
		return nil
	})
	return projects, err
}

// UpdateProject applies the non-nil fields of patch to a project.
func (s *SQLiteStore) UpdateProject(
	ctx context.Context,
	id int64,
	patch model.ProjectPatch,
) (*model.Project, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, invalidf("project name must not be empty")
	}

	var updated *model.Project
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		p, err := getProject(ctx, tx, id)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			p.Name = *patch.Name
		}
		switch {
		case patch.ClearDescription:
			p.Description = nil
		case patch.Description != nil:
			p.Description = patch.Description
		}
		switch {
		case patch.ClearColor:
			p.Color = nil
		case patch.Color != nil:
			p.Color = patch.Color
		}
		p.UpdatedAt = s.stamp(p.UpdatedAt)

		_, err = tx.ExecContext(ctx, `
			UPDATE projects SET name = ?, description = ?, color = ?, updated_at = ?
			WHERE id = ?`,
			p.Name, p.Description, p.Color, p.UpdatedAt, id,
		)
		if err != nil {
			return storageErr(fmt.Sprintf("updating project %d", id), err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("updated project", "id", id)
	return updated, nil
}

// CloseProject moves every open todo of the project to resolution, which
// must be done or cancelled. Todos already closed keep their status and
// timestamps. It returns the number of todos closed.
func (s *SQLiteStore) CloseProject(
	ctx context.Context,
	id int64,
	resolution model.TodoStatus,
) (int, error) {
	if !resolution.IsTerminal() {
		return 0, invalidf("project resolution must be done or cancelled, got %s", resolution)
	}

	closed := 0
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		p, err := getProject(ctx, tx, id)
		if err != nil {
			return err
		}

		var open []struct {
			ID        int64     `db:"id"`
			UpdatedAt time.Time `db:"updated_at"`
		}
		err = sqlx.SelectContext(ctx, tx, &open, `
			SELECT id, updated_at FROM todos
			WHERE project_id = ? AND status NOT IN (?, ?)
			ORDER BY id`,
			id, int(model.StatusDone), int(model.StatusCancelled),
		)
		if err != nil {
			return storageErr(fmt.Sprintf("listing open todos of project %d", id), err)
		}

		for _, row := range open {
			now := s.stamp(row.UpdatedAt)
			_, err := tx.ExecContext(ctx,
				"UPDATE todos SET status = ?, completed_at = ?, updated_at = ? WHERE id = ?",
				int(resolution), now, now, row.ID,
			)
			if err != nil {
				return storageErr(fmt.Sprintf("closing todo %d", row.ID), err)
			}
		}

		_, err = tx.ExecContext(ctx, "UPDATE projects SET updated_at = ? WHERE id = ?",
			s.stamp(p.UpdatedAt), id)
		if err != nil {
			return storageErr(fmt.Sprintf("closing project %d", id), err)
		}
		closed = len(open)
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Debug("closed project", "id", id, "resolution", resolution, "todos", closed)
	return closed, nil
}

// DeleteProject removes a project together with all of its todos and
// returns how many todos went with it.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id int64) (int, error) {
	removed := 0
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := getProject(ctx, tx, id); err != nil {
			return err
		}
		err := sqlx.GetContext(ctx, tx, &removed,
			"SELECT COUNT(*) FROM todos WHERE project_id = ?", id)
		if err != nil {
			return storageErr(fmt.Sprintf("counting todos of project %d", id), err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id); err != nil {
			return storageErr(fmt.Sprintf("deleting project %d", id), err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Debug("deleted project", "id", id, "todos", removed)
	return removed, nil
}

func getProject(ctx context.Context, q sqlx.QueryerContext, id int64) (*model.Project, error) {
	var p model.Project
	err := sqlx.GetContext(ctx, q, &p,
		"SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	if err != nil {
		return nil, lookupErr("project", id, err)
	}
	return &p, nil
}
