package db

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassify(t *testing.T) {
	if Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}

	unique := &pgconn.PgError{Code: "23505", ConstraintName: "sessions_refresh_jti_live_key"}
	if got := Classify(unique); !errors.Is(got, ErrConflict) {
		t.Errorf("unique violation should classify as ErrConflict, got %v", got)
	}

	other := errors.New("connection refused")
	got := Classify(other)
	if !errors.Is(got, ErrUnavailable) {
		t.Errorf("driver error should classify as ErrUnavailable, got %v", got)
	}
	if !errors.Is(got, other) {
		t.Error("original error must stay in the chain")
	}
}
