package pgstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned by Repo lookups that match no row.
var ErrNotFound = errors.New("record not found")

// identPattern limits table and column names to plain lowercase identifiers.
// Identifiers are interpolated into SQL, so anything else is rejected up
// front; values always travel as bind parameters.
var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Repo is a generic CRUD accessor for a single table. T's exported fields map
// to columns by their db struct tags (pgx RowToStructByName rules). Repo
// covers the simple tables around the credential store; anything with joins or
// nontrivial queries gets its own store type.
type Repo[T any] struct {
	pool  *pgxpool.Pool
	table string
}

// NewRepo builds a Repo over table. The table name must be a plain lowercase
// identifier.
func NewRepo[T any](pool *pgxpool.Pool, table string) (*Repo[T], error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Repo[T]{pool: pool, table: table}, nil
}

// FindByID returns the row with the given id, or [ErrNotFound].
func (r *Repo[T]) FindByID(ctx context.Context, id any) (*T, error) {
	return r.FindOneBy(ctx, "id", id)
}

// FindOneBy returns the first row where column equals value, or [ErrNotFound].
func (r *Repo[T]) FindOneBy(ctx context.Context, column string, value any) (*T, error) {
	if !identPattern.MatchString(column) {
		return nil, fmt.Errorf("invalid column name %q", column)
	}
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT * FROM %s WHERE %s = $1 LIMIT 1`, r.table, column), value)
	if err != nil {
		return nil, err
	}
	rec, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// FindAllBy returns every row where column equals value. No rows is an empty
// slice, not an error.
func (r *Repo[T]) FindAllBy(ctx context.Context, column string, value any) ([]T, error) {
	if !identPattern.MatchString(column) {
		return nil, fmt.Errorf("invalid column name %q", column)
	}
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT * FROM %s WHERE %s = $1`, r.table, column), value)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[T])
}

// UpdateByID sets column to value on the row with the given id. Updating an
// absent row returns [ErrNotFound].
func (r *Repo[T]) UpdateByID(ctx context.Context, id any, column string, value any) error {
	if !identPattern.MatchString(column) {
		return fmt.Errorf("invalid column name %q", column)
	}
	tag, err := r.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE id = $2`, r.table, column), value, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByID removes the row with the given id. Deleting an absent row is not
// an error.
func (r *Repo[T]) DeleteByID(ctx context.Context, id any) error {
	_, err := r.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table), id)
	return err
}

// Count returns the number of rows in the table.
func (r *Repo[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.table)).Scan(&n)
	return n, err
}
