// Package postgres contains PostgreSQL implementations of repository interfaces.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/and161185/perfume-catalog/internal/errs"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the statement surface shared by the pool and an open transaction.
type Querier interface {
	// Exec executes a SQL command and returns the command tag.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	// Query executes a SELECT and returns a rows iterator.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	// QueryRow executes a query expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgxPool is a minimal abstraction over a Postgres connection pool,
// used by repositories. It is implemented by *pgxpool.Pool and pgxmock.PgxPoolIface.
type PgxPool interface {
	Querier
	// BeginTx starts a transaction with the provided options.
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	// Ping checks connectivity.
	Ping(ctx context.Context) error
	// Close shuts down the pool and frees resources.
	Close()
}

// DB wraps pgxpool.Pool to satisfy repository constructors and allow testing.
type DB struct{ Pool PgxPool }

// New creates a new connection pool for the given DSN.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &DB{Pool: pool}, nil
}

// Close closes the underlying pool.
func (db *DB) Close() { db.Pool.Close() }

// Named constraints from migrations/00001_catalog.sql.
var constraintMessages = map[string]string{
	"concentrations_name_uq":         "concentration name already exists",
	"concentrations_display_name_uq": "concentration display name already exists",
	"notes_name_uq":                  "note name already exists",
	"perfumes_name_concentration_uq": "perfume with this name and concentration already exists",
	"perfume_notes_pair_uq":          "note already attached to perfume",
	"users_email_uq":                 "email already registered",
	"user_favorites_pair_uq":         "perfume already in favorites",
}

// translate maps driver errors onto catalog error kinds. deleting selects how a
// foreign key violation reads: a delete blocked by references is a conflict, a write
// pointing at a missing record is a validation failure.
func translate(err error, op, entity string, id uuid.UUID, deleting bool) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if id == uuid.Nil {
			return errs.NotFoundf("%s", entity)
		}
		return errs.NotFoundf("%s %s", entity, id)
	}
	var pg *pgconn.PgError
	if errors.As(err, &pg) {
		switch pg.Code {
		case "23505":
			if msg, ok := constraintMessages[pg.ConstraintName]; ok {
				return fmt.Errorf("%w: %s", errs.ErrConflict, msg)
			}
			return errs.Conflictf("%s: unique constraint %s", entity, pg.ConstraintName)
		case "23503":
			if deleting {
				return errs.Conflictf("%s is still referenced (%s)", entity, pg.ConstraintName)
			}
			return errs.Validationf("%s references a missing record (%s)", entity, pg.ConstraintName)
		case "23514", "22P02":
			return errs.Validationf("%s: %s", entity, pg.Message)
		}
	}
	idStr := ""
	if id != uuid.Nil {
		idStr = id.String()
	}
	return errs.Store(op, entity, idStr, err)
}

// setList accumulates "col=$n" assignments for partial updates.
type setList struct {
	cols []string
	args []any
}

func (s *setList) add(col string, v any) {
	s.args = append(s.args, v)
	s.cols = append(s.cols, fmt.Sprintf("%s=$%d", col, len(s.args)))
}

func (s *setList) empty() bool { return len(s.cols) == 0 }

// next returns the placeholder for the argument appended after the assignments.
func (s *setList) next(v any) string {
	s.args = append(s.args, v)
	return fmt.Sprintf("$%d", len(s.args))
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
