package repositories

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ConflictError is a persistence-layer failure (uniqueness, foreign-key,
// type or length violation) converted into a plain message. Callers check
// for it with errors.As and map it to a 400 response.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string {
	return e.Msg
}

// convertDBError folds integrity and data errors into a ConflictError.
// Anything unrecognized is returned unchanged.
func convertDBError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case pgErr.Code == "23505":
		return &ConflictError{Msg: "Value already exists."}
	case pgErr.Code == "23503":
		return &ConflictError{Msg: "Invalid owner reference."}
	case strings.HasPrefix(pgErr.Code, "22"):
		return &ConflictError{Msg: "Invalid data passed."}
	case strings.HasPrefix(pgErr.Code, "23"):
		return &ConflictError{Msg: "Database integrity error."}
	}
	return err
}
