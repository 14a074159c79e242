package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when no record exists for the user.
var ErrSessionNotFound = errors.New("session not found")

// ErrRotateMismatch is returned when the presented refresh token id does not
// match the last-issued one. The record is deleted before returning.
var ErrRotateMismatch = errors.New("refresh rotation mismatch")

// ErrRedisUnavailable wraps Redis transport failures.
var ErrRedisUnavailable = errors.New("redis unavailable")

const (
	fieldUserID    = "user_id"
	fieldRefreshID = "refresh_id"
	fieldCreatedAt = "created_at"
)

const (
	rotateStatusNotFound int64 = 0
	rotateStatusMismatch int64 = 2
	rotateStatusRotated  int64 = 3
)

// rotateRefreshScript compares the stored refresh token id against the one the
// caller presents. On match it swaps in the next id and extends the TTL in the
// same step; on mismatch it deletes the record so a replayed token revokes the
// session instead of racing it.
const rotateRefreshScript = `
local current = redis.call("HGET", KEYS[1], "refresh_id")
if not current then
  return 0
end
if current ~= ARGV[1] then
  redis.call("DEL", KEYS[1])
  return 2
end
redis.call("HSET", KEYS[1], "refresh_id", ARGV[2])
redis.call("PEXPIRE", KEYS[1], ARGV[3])
return 3
`

var rotateRefreshLua = redis.NewScript(rotateRefreshScript)

// Record is the server-side session state for one user.
type Record struct {
	UserID    string
	RefreshID string
	CreatedAt int64
}

// Store is the Redis-backed session store. Each operation is a single atomic
// round trip; no in-process state is shared across requests.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a session [Store] backed by the given Redis client. prefix
// sets the key namespace; keys are shaped as <prefix>:<user_id>.
func NewStore(redis redis.UniversalClient, prefix string) *Store {
	return &Store{
		redis:  redis,
		prefix: prefix,
	}
}

func (s *Store) key(userID string) string {
	return s.prefix + ":" + userID
}

// Save persists a [Record] with the given TTL, replacing any existing record
// for the same user (last-writer-wins).
func (s *Store) Save(ctx context.Context, rec Record, ttl time.Duration) error {
	if rec.UserID == "" || rec.RefreshID == "" {
		return errors.New("session record requires user and refresh ids")
	}
	key := s.key(rec.UserID)

	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldUserID, rec.UserID,
			fieldRefreshID, rec.RefreshID,
			fieldCreatedAt, rec.CreatedAt,
		)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Get retrieves the session record for userID, or [ErrSessionNotFound] if the
// record is absent or expired.
func (s *Store) Get(ctx context.Context, userID string) (*Record, error) {
	fields, err := s.redis.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, ErrSessionNotFound
	}

	createdAt, _ := strconv.ParseInt(fields[fieldCreatedAt], 10, 64)
	return &Record{
		UserID:    fields[fieldUserID],
		RefreshID: fields[fieldRefreshID],
		CreatedAt: createdAt,
	}, nil
}

// Delete removes the session record. Deleting an absent record is not an
// error; logout stays idempotent.
func (s *Store) Delete(ctx context.Context, userID string) error {
	if err := s.redis.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Rotate atomically swaps the stored refresh token id from currentID to nextID
// and extends the record TTL. Returns [ErrSessionNotFound] when no record
// exists and [ErrRotateMismatch] when currentID was already rotated out; in
// the mismatch case the record is deleted as a replay defense.
func (s *Store) Rotate(ctx context.Context, userID, currentID, nextID string, ttl time.Duration) error {
	status, err := rotateRefreshLua.Run(ctx, s.redis,
		[]string{s.key(userID)},
		currentID, nextID, ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	switch status {
	case rotateStatusRotated:
		return nil
	case rotateStatusNotFound:
		return ErrSessionNotFound
	case rotateStatusMismatch:
		return ErrRotateMismatch
	default:
		return fmt.Errorf("%w: unexpected rotate status %d", ErrRedisUnavailable, status)
	}
}
