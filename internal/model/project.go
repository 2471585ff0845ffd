package model

import "time"

// Project is a named grouping container for todos.
type Project struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Color       *string   `json:"color,omitempty" db:"color"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NewProject carries the fields accepted when creating a project.
type NewProject struct {
	Name        string
	Description *string
	Color       *string
}

// ProjectPatch describes a partial project update. Nil fields are left
// untouched; the Clear flags reset optional columns to NULL.
type ProjectPatch struct {
	Name        *string
	Description *string
	Color       *string

	ClearDescription bool
	ClearColor       bool
}

// IsEmpty reports whether the patch changes nothing.
func (p ProjectPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Color == nil &&
		!p.ClearDescription && !p.ClearColor
}
