package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newStoreTest(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewStore(rdb, "session"), mr
}

func TestSaveGetRoundTrip(t *testing.T) {
	store, mr := newStoreTest(t)
	ctx := context.Background()

	rec := Record{UserID: "u-1", RefreshID: "jti-1", CreatedAt: time.Now().Unix()}
	if err := store.Save(ctx, rec, time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, "u-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID != rec.UserID || got.RefreshID != rec.RefreshID || got.CreatedAt != rec.CreatedAt {
		t.Fatalf("record mismatch: got %+v want %+v", got, rec)
	}

	if ttl := mr.TTL("session:u-1"); ttl <= 0 || ttl > time.Hour {
		t.Fatalf("expected TTL in (0, 1h], got %v", ttl)
	}
}

func TestGetMissingSession(t *testing.T) {
	store, _ := newStoreTest(t)

	if _, err := store.Get(context.Background(), "nobody"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	store, _ := newStoreTest(t)
	ctx := context.Background()

	rec := Record{UserID: "u-1", RefreshID: "jti-1"}
	if err := store.Save(ctx, rec, time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, "u-1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := store.Delete(ctx, "u-1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := store.Get(ctx, "u-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestRotateSwapsRefreshIDAndExtendsTTL(t *testing.T) {
	store, mr := newStoreTest(t)
	ctx := context.Background()

	if err := store.Save(ctx, Record{UserID: "u-1", RefreshID: "jti-1"}, time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Rotate(ctx, "u-1", "jti-1", "jti-2", time.Hour); err != nil {
		t.Fatalf("rotate: %v", err)
	}

	got, err := store.Get(ctx, "u-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RefreshID != "jti-2" {
		t.Fatalf("expected rotated refresh id jti-2, got %q", got.RefreshID)
	}
	if ttl := mr.TTL("session:u-1"); ttl <= time.Minute {
		t.Fatalf("expected extended TTL, got %v", ttl)
	}
}

func TestRotateMismatchRevokesSession(t *testing.T) {
	store, _ := newStoreTest(t)
	ctx := context.Background()

	if err := store.Save(ctx, Record{UserID: "u-1", RefreshID: "jti-2"}, time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}

	// jti-1 was rotated out earlier; replaying it must revoke the session.
	if err := store.Rotate(ctx, "u-1", "jti-1", "jti-3", time.Hour); !errors.Is(err, ErrRotateMismatch) {
		t.Fatalf("expected ErrRotateMismatch, got %v", err)
	}
	if _, err := store.Get(ctx, "u-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session deleted after mismatch, got %v", err)
	}
}

func TestRotateMissingSession(t *testing.T) {
	store, _ := newStoreTest(t)

	err := store.Rotate(context.Background(), "nobody", "jti-1", "jti-2", time.Hour)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestExpiredRecordIsGone(t *testing.T) {
	store, mr := newStoreTest(t)
	ctx := context.Background()

	if err := store.Save(ctx, Record{UserID: "u-1", RefreshID: "jti-1"}, time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, "u-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after expiry, got %v", err)
	}
	if err := store.Rotate(ctx, "u-1", "jti-1", "jti-2", time.Hour); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected rotate to miss after expiry, got %v", err)
	}
}
