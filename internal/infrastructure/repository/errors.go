package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	domain "github.com/mohammadpnp/roster-import/internal/domain/roster"
)

// Postgres SQLSTATE codes for integrity violations.
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// classify turns integrity violations into PersistenceConstraintError and
// wraps everything else with the failed operation.
func classify(op, entity string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgNotNullViolation, pgForeignKeyViolation, pgUniqueViolation, pgCheckViolation:
			constraint := pgErr.ConstraintName
			if constraint == "" {
				constraint = pgErr.ColumnName
			}
			return &domain.PersistenceConstraintError{Entity: entity, Constraint: constraint, Err: err}
		}
	}
	return fmt.Errorf("%s %s: %w", op, entity, err)
}
