package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// Error kinds returned by the store. Callers match them with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid input")
	ErrMigration  = errors.New("migration failed")
	ErrStorage    = errors.New("storage error")
)

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storageErr tags a driver error as ErrStorage unless it already carries
// one of the store's error kinds.
func storageErr(op string, err error) error {
	if isKnown(err) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// lookupErr maps sql.ErrNoRows to ErrNotFound for the named entity.
func lookupErr(entity string, id int64, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFoundf("%s %d", entity, id)
	}
	return storageErr(fmt.Sprintf("getting %s %d", entity, id), err)
}

func isKnown(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrMigration) ||
		errors.Is(err, ErrStorage)
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
