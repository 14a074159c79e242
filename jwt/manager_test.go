package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
	"time"
)

func newTestManager(t *testing.T, clock func() time.Time) *Manager {
	t.Helper()
	mgr, err := NewManager(Config{
		AccessTTL:     5 * time.Minute,
		RefreshTTL:    time.Hour,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("0123456789abcdef0123456789abcdef"),
		Issuer:        "test",
		Clock:         clock,
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return mgr
}

func TestAccessRoundTrip(t *testing.T) {
	mgr := newTestManager(t, nil)

	token, err := mgr.CreateAccess("user-1")
	if err != nil {
		t.Fatalf("create access: %v", err)
	}
	claims, err := mgr.ParseAccess(token)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject user-1, got %q", claims.Subject)
	}
	if claims.Kind != string(KindAccess) {
		t.Fatalf("expected access kind, got %q", claims.Kind)
	}
}

func TestRefreshCarriesRotationID(t *testing.T) {
	mgr := newTestManager(t, nil)

	token, jti, err := mgr.CreateRefresh("user-1")
	if err != nil {
		t.Fatalf("create refresh: %v", err)
	}
	if jti == "" {
		t.Fatal("expected non-empty jti")
	}
	claims, err := mgr.ParseRefresh(token)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if claims.ID != jti {
		t.Fatalf("expected jti %q in claims, got %q", jti, claims.ID)
	}
}

func TestExpiredAccessToken(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	mgr := newTestManager(t, func() time.Time { return clock() })

	token, err := mgr.CreateAccess("user-1")
	if err != nil {
		t.Fatalf("create access: %v", err)
	}

	clock = func() time.Time { return now.Add(10 * time.Minute) }
	if _, err := mgr.ParseAccess(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestSignatureMismatch(t *testing.T) {
	mgr := newTestManager(t, nil)
	other, err := NewManager(Config{
		AccessTTL:     5 * time.Minute,
		RefreshTTL:    time.Hour,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("another-secret-another-secret-xx"),
		Issuer:        "test",
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, err := other.CreateAccess("user-1")
	if err != nil {
		t.Fatalf("create access: %v", err)
	}
	if _, err := mgr.ParseAccess(token); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestMalformedToken(t *testing.T) {
	mgr := newTestManager(t, nil)
	for _, input := range []string{"", "not.a.jwt", "eyJhbGciOiJIUzI1NiJ9.broken"} {
		if _, err := mgr.ParseAccess(input); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("input %q: expected ErrTokenMalformed, got %v", input, err)
		}
	}
}

func TestWrongTokenKind(t *testing.T) {
	mgr := newTestManager(t, nil)

	refresh, _, err := mgr.CreateRefresh("user-1")
	if err != nil {
		t.Fatalf("create refresh: %v", err)
	}
	if _, err := mgr.ParseAccess(refresh); !errors.Is(err, ErrWrongTokenKind) {
		t.Fatalf("expected ErrWrongTokenKind, got %v", err)
	}

	access, err := mgr.CreateAccess("user-1")
	if err != nil {
		t.Fatalf("create access: %v", err)
	}
	if _, err := mgr.ParseRefresh(access); !errors.Is(err, ErrWrongTokenKind) {
		t.Fatalf("expected ErrWrongTokenKind, got %v", err)
	}
}

func TestEd25519RoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	mgr, err := NewManager(Config{
		AccessTTL:     5 * time.Minute,
		RefreshTTL:    time.Hour,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		PublicKey:     pub,
		Issuer:        "test",
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, err := mgr.CreateAccess("user-1")
	if err != nil {
		t.Fatalf("create access: %v", err)
	}
	claims, err := mgr.ParseAccess(token)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject user-1, got %q", claims.Subject)
	}
}

func TestManagerConfigRejected(t *testing.T) {
	cases := []Config{
		{AccessTTL: 0, RefreshTTL: time.Hour, SigningMethod: MethodHS256, PrivateKey: []byte("k")},
		{AccessTTL: time.Minute, RefreshTTL: time.Hour, SigningMethod: MethodHS256},
		{AccessTTL: time.Minute, RefreshTTL: time.Hour, SigningMethod: "rs256", PrivateKey: []byte("k")},
		{AccessTTL: time.Minute, RefreshTTL: time.Hour, SigningMethod: MethodEd25519, PrivateKey: []byte("short")},
	}
	for i, cfg := range cases {
		if _, err := NewManager(cfg); err == nil {
			t.Fatalf("case %d: expected config error", i)
		}
	}
}
