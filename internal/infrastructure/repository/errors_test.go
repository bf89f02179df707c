package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	domain "github.com/mohammadpnp/roster-import/internal/domain/roster"
)

func TestClassifyConstraintViolations(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		constraint string
	}{
		{"unique", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "guardians_phone_key"}, "guardians_phone_key"},
		{"check", &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "students_gender_check"}, "students_gender_check"},
		{"foreign key", &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "fk_students_guardian"}, "fk_students_guardian"},
		{"not null", &pgconn.PgError{Code: pgNotNullViolation, ColumnName: "contact"}, "contact"},
		{"wrapped", fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "accounts_email_key"}), "accounts_email_key"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := classify("create", "guardian", tc.err)
			if !errors.Is(err, domain.ErrConstraintViolation) {
				t.Fatalf("expected ErrConstraintViolation, got %v", err)
			}
			var constraintErr *domain.PersistenceConstraintError
			if !errors.As(err, &constraintErr) {
				t.Fatalf("expected PersistenceConstraintError, got %T", err)
			}
			if constraintErr.Constraint != tc.constraint {
				t.Fatalf("unexpected constraint: %s", constraintErr.Constraint)
			}
			if constraintErr.Entity != "guardian" {
				t.Fatalf("unexpected entity: %s", constraintErr.Entity)
			}
		})
	}
}

func TestClassifyOtherErrors(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := classify("create", "group", cause)
	if errors.Is(err, domain.ErrConstraintViolation) {
		t.Fatalf("did not expect a constraint violation: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be wrapped, got %v", err)
	}
	if err.Error() != "create group: connection refused" {
		t.Fatalf("unexpected message: %s", err.Error())
	}

	serialization := &pgconn.PgError{Code: "40001"}
	if errors.Is(classify("create", "group", serialization), domain.ErrConstraintViolation) {
		t.Fatal("serialization failures are not constraint violations")
	}
}

func TestRawRowJSON(t *testing.T) {
	t.Parallel()

	if got := string(rawRowJSON(`["a","b"]`)); got != `["a","b"]` {
		t.Fatalf("unexpected json: %s", got)
	}
	if got := string(rawRowJSON("a\tb")); got != `"a\tb"` {
		t.Fatalf("unexpected json: %s", got)
	}
}
