package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Storage error kinds. Repositories translate driver errors into these so the
// orchestrator can distinguish a lost uniqueness race (Conflict, re-issue and
// retry) from an outage (Unavailable, retryable with backoff).
var (
	// ErrConflict means a uniqueness constraint rejected the write.
	ErrConflict = errors.New("storage conflict")
	// ErrNotFound means a conditional write matched no live row.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable means the storage layer failed (connectivity, timeout).
	ErrUnavailable = errors.New("storage unavailable")
)

// uniqueViolation is the Postgres error code for unique_violation.
const uniqueViolation = "23505"

// Classify maps a driver error to ErrConflict or ErrUnavailable, preserving
// the original error in the chain. nil stays nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return errors.Join(ErrConflict, err)
	}
	return errors.Join(ErrUnavailable, err)
}
