package password

import (
	"strings"
	"testing"
)

func testConfig() Config {
	return Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	}
}

func TestHashVerifyRoundTrip(t *testing.T) {
	hasher, err := NewArgon2(testConfig())
	if err != nil {
		t.Fatalf("new argon2: %v", err)
	}

	encoded, err := hasher.Hash("correct-horse-battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("expected PHC prefix, got %q", encoded)
	}

	ok, err := hasher.Verify("correct-horse-battery", encoded)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("expected matching password to verify")
	}

	ok, err = hasher.Verify("wrong-password", encoded)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("expected mismatching password to fail")
	}
}

func TestHashesAreSalted(t *testing.T) {
	hasher, err := NewArgon2(testConfig())
	if err != nil {
		t.Fatalf("new argon2: %v", err)
	}

	first, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct salts to produce distinct hashes")
	}
}

func TestShortPasswordRejected(t *testing.T) {
	hasher, err := NewArgon2(testConfig())
	if err != nil {
		t.Fatalf("new argon2: %v", err)
	}
	if _, err := hasher.Hash("short"); err == nil {
		t.Fatal("expected short password to be rejected")
	}
}

func TestTamperedHashRejected(t *testing.T) {
	hasher, err := NewArgon2(testConfig())
	if err != nil {
		t.Fatalf("new argon2: %v", err)
	}

	for _, encoded := range []string{
		"",
		"$argon2id$v=19$m=8192,t=1,p=1$notbase64!$notbase64!",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
	} {
		if _, err := hasher.Verify("whatever-password", encoded); err == nil {
			t.Fatalf("expected parse error for %q", encoded)
		}
	}
}

func TestConfigMinimaEnforced(t *testing.T) {
	cases := []Config{
		{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 16},
		{Memory: 8 * 1024, Time: 0, Parallelism: 1, SaltLength: 16, KeyLength: 16},
		{Memory: 8 * 1024, Time: 1, Parallelism: 0, SaltLength: 16, KeyLength: 16},
		{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16},
		{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 8},
	}
	for i, cfg := range cases {
		if _, err := NewArgon2(cfg); err == nil {
			t.Fatalf("case %d: expected config error", i)
		}
	}
}
