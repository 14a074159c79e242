package pgstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avykov/authgate"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

const userColumns = "id, username, email, password_hash, created_at"

// Store implements [authgate.UserStore] over a pgx connection pool. The pool
// is owned by the caller; Store never closes it.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store over pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// FindByUsername returns the user with the given username, or
// [authgate.ErrUserNotFound].
func (s *Store) FindByUsername(ctx context.Context, username string) (*authgate.User, error) {
	return s.findBy(ctx, "username", username)
}

// FindByID returns the user with the given id, or [authgate.ErrUserNotFound].
func (s *Store) FindByID(ctx context.Context, id string) (*authgate.User, error) {
	return s.findBy(ctx, "id", id)
}

func (s *Store) findBy(ctx context.Context, column, value string) (*authgate.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value)
	return scanUser(row)
}

// Create inserts a new user. Unique constraint hits on username or email map
// to [authgate.ErrUserExists]; the caller cannot tell which field collided.
func (s *Store) Create(ctx context.Context, input authgate.CreateUserInput) (*authgate.User, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, username, email, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		input.ID, input.Username, input.Email, input.PasswordHash)

	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, authgate.ErrUserExists
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (*authgate.User, error) {
	var u authgate.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, authgate.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
