package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidStatus is returned when a status code or name is outside the
// four known values.
var ErrInvalidStatus = errors.New("invalid todo status")

// ErrInvalidPriority is returned for unknown priority names or negative values.
var ErrInvalidPriority = errors.New("invalid todo priority")

// TodoStatus is the lifecycle state of a todo. It is persisted as an integer.
type TodoStatus int

// Todo status values. The numeric codes are part of the on-disk format.
const (
	StatusPending    TodoStatus = 0
	StatusInProgress TodoStatus = 1
	StatusDone       TodoStatus = 2
	StatusCancelled  TodoStatus = 3
)

var statusNames = map[TodoStatus]string{
	StatusPending:    "pending",
	StatusInProgress: "in_progress",
	StatusDone:       "done",
	StatusCancelled:  "cancelled",
}

// String returns the canonical lower-case name of the status.
func (s TodoStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Valid reports whether s is one of the four known statuses.
func (s TodoStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// IsTerminal reports whether s is a closed state (done or cancelled).
func (s TodoStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// ParseStatus decodes a stored status code.
func ParseStatus(code int64) (TodoStatus, error) {
	s := TodoStatus(code)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: code %d", ErrInvalidStatus, code)
	}
	return s, nil
}

// ParseStatusName decodes a user-facing status name. Numeric codes are
// accepted too.
func ParseStatusName(name string) (TodoStatus, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pending", "todo", "to-do", "open":
		return StatusPending, nil
	case "in_progress", "in-progress", "inprogress", "doing":
		return StatusInProgress, nil
	case "done", "complete", "completed":
		return StatusDone, nil
	case "cancelled", "canceled":
		return StatusCancelled, nil
	}
	if code, err := strconv.ParseInt(strings.TrimSpace(name), 10, 64); err == nil {
		return ParseStatus(code)
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, name)
}

// Named priority levels. Any non-negative integer is a valid priority;
// these are the values the CLI offers by name.
const (
	PriorityLow    = 0
	PriorityMedium = 1
	PriorityHigh   = 2
	PriorityUrgent = 3
)

// ParsePriority accepts low, medium, high, urgent or a non-negative integer.
func ParsePriority(raw string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return PriorityLow, nil
	case "medium", "med":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "urgent":
		return PriorityUrgent, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
	return n, nil
}

// PriorityName returns the name of a priority level, or P<n> above urgent.
func PriorityName(p int) string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityUrgent:
		return "urgent"
	}
	return "P" + strconv.Itoa(p)
}

// Todo is a single task. It always belongs to one project and may be nested
// under a parent todo of the same project.
type Todo struct {
	ID               int64      `json:"id" db:"id"`
	ProjectID        int64      `json:"project_id" db:"project_id"`
	ParentID         *int64     `json:"parent_id,omitempty" db:"parent_id"`
	Title            string     `json:"title" db:"title"`
	Description      *string    `json:"description,omitempty" db:"description"`
	Status           TodoStatus `json:"status" db:"status"`
	Priority         int        `json:"priority" db:"priority"`
	DueDate          *time.Time `json:"due_date,omitempty" db:"due_date"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty" db:"estimated_minutes"`
	Location         *string    `json:"location,omitempty" db:"location"`
	URL              *string    `json:"url,omitempty" db:"url"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// IsClosed reports whether the todo has reached a terminal status.
func (t Todo) IsClosed() bool { return t.Status.IsTerminal() }

// IsOverdue reports whether an open todo is past its due date.
func (t Todo) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.IsClosed()
}

// NewTodo carries the fields accepted when creating a todo. A nil Priority
// defaults to PriorityMedium.
type NewTodo struct {
	ProjectID        int64
	ParentID         *int64
	Title            string
	Description      *string
	Priority         *int
	DueDate          *time.Time
	EstimatedMinutes *int
	Location         *string
	URL              *string
}

// TodoPatch describes a partial todo update. Nil fields are left untouched.
type TodoPatch struct {
	ProjectID        *int64
	ParentID         *int64
	Title            *string
	Description      *string
	Status           *TodoStatus
	Priority         *int
	DueDate          *time.Time
	EstimatedMinutes *int
	Location         *string
	URL              *string

	ClearParent           bool
	ClearDescription      bool
	ClearDueDate          bool
	ClearEstimatedMinutes bool
	ClearLocation         bool
	ClearURL              bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TodoPatch) IsEmpty() bool {
	return p.ProjectID == nil && p.ParentID == nil && p.Title == nil &&
		p.Description == nil && p.Status == nil && p.Priority == nil &&
		p.DueDate == nil && p.EstimatedMinutes == nil && p.Location == nil &&
		p.URL == nil && !p.ClearParent && !p.ClearDescription && !p.ClearDueDate &&
		!p.ClearEstimatedMinutes && !p.ClearLocation && !p.ClearURL
}
