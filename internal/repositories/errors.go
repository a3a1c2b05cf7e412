package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq" // For pq.Error
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It can be used to wrap more specific driver errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

	// ErrForeignKey is returned when a write points at a missing parent row
	// or a delete would orphan child rows.
	ErrForeignKey = errors.New("foreign key constraint violated")
)

// SQLExecutor defines an interface that can be satisfied by *sqlx.DB or *sqlx.Tx.
// This allows repository methods to be used within transactions or with a direct DB connection.
type SQLExecutor interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// wrapDBError classifies driver errors from either engine into the repository error set.
func wrapDBError(err error, format string, args ...interface{}) error {
	what := fmt.Sprintf(format, args...)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return fmt.Errorf("%w: %s: %s (constraint: %s)", ErrDuplicateKey, what, pqErr.Message, pqErr.Constraint)
		case "foreign_key_violation":
			return fmt.Errorf("%w: %s (constraint: %s)", ErrForeignKey, what, pqErr.Constraint)
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %s: %v", ErrDuplicateKey, what, liteErr)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %s", ErrForeignKey, what)
		}
	}

	return fmt.Errorf("%w: %s: %v", ErrDatabaseError, what, err)
}

// getOne runs a single-row query, mapping sql.ErrNoRows to ErrNotFound.
func getOne(ctx context.Context, ex SQLExecutor, dest interface{}, what, query string, args ...interface{}) error {
	if err := ex.GetContext(ctx, dest, ex.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return wrapDBError(err, "%s", what)
	}
	return nil
}

func selectAll(ctx context.Context, ex SQLExecutor, dest interface{}, what, query string, args ...interface{}) error {
	if err := ex.SelectContext(ctx, dest, ex.Rebind(query), args...); err != nil {
		return wrapDBError(err, "%s", what)
	}
	return nil
}

// insertReturningID runs an INSERT and returns the generated id. Both engines support RETURNING.
func insertReturningID(ctx context.Context, ex SQLExecutor, what, query string, args ...interface{}) (int64, error) {
	var id int64
	if err := ex.QueryRowxContext(ctx, ex.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
		return 0, wrapDBError(err, "%s", what)
	}
	return id, nil
}

// execAffecting runs a write that must touch at least one row.
func execAffecting(ctx context.Context, ex SQLExecutor, what, query string, args ...interface{}) error {
	n, err := execCount(ctx, ex, what, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func execCount(ctx context.Context, ex SQLExecutor, what, query string, args ...interface{}) (int64, error) {
	result, err := ex.ExecContext(ctx, ex.Rebind(query), args...)
	if err != nil {
		return 0, wrapDBError(err, "%s", what)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for %s: %v", ErrDatabaseError, what, err)
	}
	return n, nil
}

func scalarInt(ctx context.Context, ex SQLExecutor, what, query string, args ...interface{}) (int64, error) {
	var v int64
	if err := getOne(ctx, ex, &v, what, query, args...); err != nil {
		return 0, err
	}
	return v, nil
}

func scalarFloat(ctx context.Context, ex SQLExecutor, what, query string, args ...interface{}) (float64, error) {
	var v float64
	if err := getOne(ctx, ex, &v, what, query, args...); err != nil {
		return 0, err
	}
	return v, nil
}
