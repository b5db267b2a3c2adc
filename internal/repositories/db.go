package repositories

import (
	"context"
	"errors"
	"fmt"

	"stagebook/internal/common"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgreSQL error codes mapped onto domain errors
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// translateError maps driver errors onto the common sentinel errors.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return common.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", common.ErrConflict, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", common.ErrReferenceViolation, pgErr.ConstraintName)
		case pgCheckViolation, pgNotNullViolation:
			return fmt.Errorf("%w: %s", common.ErrInvalidInput, pgErr.ConstraintName)
		}
	}
	return err
}

// expectAffected turns a zero-row update or delete into ErrNotFound
func expectAffected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// inTx runs fn inside a transaction on db, committing on success.
func inTx(ctx context.Context, db DBTX, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return translateError(err)
	}
	return nil
}

// searchBuilder accumulates AND conditions with positional arguments
type searchBuilder struct {
	query string
	args  []any
}

func newSearchBuilder(base string, args ...any) *searchBuilder {
	return &searchBuilder{query: base, args: args}
}

// next returns the placeholder for the argument about to be added
func (b *searchBuilder) next(arg any) string {
	b.args = append(b.args, arg)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *searchBuilder) where(format string, arg any) {
	b.query += fmt.Sprintf(" AND "+format, b.next(arg))
}

func (b *searchBuilder) page(orderBy string, limit, offset int) (string, []any) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	q := b.query + " ORDER BY " + orderBy
	q += " LIMIT " + b.next(limit)
	q += " OFFSET " + b.next(offset)
	return q, b.args
}

func likePattern(q string) string {
	return "%" + q + "%"
}
