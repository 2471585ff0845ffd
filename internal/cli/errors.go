package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/nhle/tudu/internal/display"
	"github.com/nhle/tudu/internal/model"
	"github.com/nhle/tudu/internal/store"
)

const (
	ExitCodeSuccess   = 0
	ExitCodeGeneric   = 1
	ExitCodeUsage     = 2
	ExitCodeNotFound  = 3
	ExitCodeStorage   = 4
	ExitCodeMigration = 5
)

// ExitError carries the process exit status of a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }
func (e *ExitError) ExitCode() int { return e.Code }

type exitCoder interface{ ExitCode() int }

// exitCodeOf reports the code already attached to err, if any.
func exitCodeOf(err error) (int, bool) {
	var ec exitCoder
	if !errors.As(err, &ec) {
		return 0, false
	}
	return ec.ExitCode(), true
}

// mapCommandError attaches an exit code to err based on the store error
// kind it wraps. Errors that already carry a code pass through.
func mapCommandError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := exitCodeOf(err); ok {
		return err
	}

	code := ExitCodeGeneric
	switch {
	case errors.Is(err, store.ErrValidation),
		errors.Is(err, model.ErrInvalidStatus),
		errors.Is(err, model.ErrInvalidPriority):
		code = ExitCodeUsage
	case errors.Is(err, store.ErrNotFound):
		code = ExitCodeNotFound
	case errors.Is(err, store.ErrMigration):
		code = ExitCodeMigration
	case errors.Is(err, store.ErrStorage):
		code = ExitCodeStorage
	}
	return &ExitError{Code: code, Err: err}
}

func usageErrorf(format string, args ...any) error {
	return &ExitError{
		Code: ExitCodeUsage,
		Err:  fmt.Errorf(format, args...),
	}
}

// ExitCodeFor returns the process exit status for err.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	code, _ := exitCodeOf(mapCommandError(err))
	return code
}

// RenderError writes a one-line description of err and a hint to w.
func RenderError(w io.Writer, err error) {
	if err == nil {
		return
	}
	kind, hint := describeError(ExitCodeFor(err))
	display.NewPrinter(w, "").Error(kind, err.Error(), hint)
}

func describeError(code int) (kind, hint string) {
	switch code {
	case ExitCodeUsage:
		return "Invalid input", "Run with --help to see accepted arguments."
	case ExitCodeNotFound:
		return "Not found", "List existing entries with: tudu list project | tudu list todo"
	case ExitCodeStorage:
		return "Storage error", "Check the database path and that no other process holds a lock."
	case ExitCodeMigration:
		return "Migration failed", "Run: tudu migrations"
	}
	return "Error", ""
}
