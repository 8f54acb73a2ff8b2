package services

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/soniarr234/fitlover-back/internal/repository"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrStorageUnavailable = errors.New("storage service is not configured")
	ErrStorageFailure     = errors.New("storage failure")
)

func isUniqueViolation(err error) bool {
	return hasPgCode(err, repository.UniqueViolation)
}

func isForeignKeyViolation(err error) bool {
	return hasPgCode(err, repository.ForeignKeyViolation)
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// translateStoreError maps store errors onto the service sentinels. Errors
// that already carry a sentinel pass through untouched.
func translateStoreError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrStorageFailure), errors.Is(err, ErrStorageUnavailable):
		return err
	case errors.Is(err, pgx.ErrNoRows), isForeignKeyViolation(err):
		return ErrNotFound
	case isUniqueViolation(err):
		return ErrConflict
	default:
		return fmt.Errorf("%s: %w", op, errors.Join(ErrStorageFailure, err))
	}
}

// outcome is the metrics label for an operation result.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	default:
		return "error"
	}
}
