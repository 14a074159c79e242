package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
	minPassBytes          = 8
	algorithmID           = "argon2id"
)

// Config carries argon2id cost parameters. Values below the enforced minima
// are rejected at construction.
type Config struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Argon2 hashes and verifies passwords. Immutable after construction.
type Argon2 struct {
	config Config
	// dummyHash is a valid PHC string for an unknowable password. Verify is
	// run against it when the user does not exist so that login latency does
	// not reveal account existence.
	dummyHash string
}

type parsedPHC struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	hash        []byte
	keyLength   uint32
}

// NewArgon2 validates cfg and returns a ready hasher.
func NewArgon2(cfg Config) (*Argon2, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	a := &Argon2{config: cfg}

	nonce := make([]byte, 24)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	dummy, err := a.Hash("decoy:" + base64.StdEncoding.EncodeToString(nonce))
	if err != nil {
		return nil, err
	}
	a.dummyHash = dummy

	return a, nil
}

// Hash derives an argon2id key from password and returns it as a PHC string.
// Password bytes are used exactly as provided (no Unicode normalization).
func (a *Argon2) Hash(password string) (string, error) {
	if len(password) < minPassBytes {
		return "", fmt.Errorf("password must be at least %d bytes", minPassBytes)
	}

	salt := make([]byte, a.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey(
		[]byte(password),
		salt,
		a.config.Time,
		a.config.Memory,
		a.config.Parallelism,
		a.config.KeyLength,
	)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		a.config.Memory,
		a.config.Time,
		a.config.Parallelism,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(hash),
	), nil
}

// Verify recomputes the key from the parameters stored in encodedHash and
// compares in constant time.
func (a *Argon2) Verify(password string, encodedHash string) (bool, error) {
	parsed, err := parsePHC(encodedHash)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey(
		[]byte(password),
		parsed.salt,
		parsed.time,
		parsed.memory,
		parsed.parallelism,
		parsed.keyLength,
	)

	return subtle.ConstantTimeCompare(computed, parsed.hash) == 1, nil
}

// DummyVerify burns the same work as a real verification against a decoy
// hash. Called on logins for unknown usernames.
func (a *Argon2) DummyVerify(password string) {
	_, _ = a.Verify(password, a.dummyHash)
}

func validateConfig(cfg Config) error {
	if cfg.Memory < minMemoryKB {
		return errors.New("memory must be >= 8192 KB")
	}
	if cfg.Time < minTimeCost {
		return errors.New("time cost must be >= 1")
	}
	if cfg.Parallelism < minParallelism {
		return errors.New("parallelism must be >= 1")
	}
	if cfg.SaltLength < minSaltLength {
		return errors.New("salt length must be >= 16")
	}
	if cfg.KeyLength < minKeyLength {
		return errors.New("key length must be >= 16")
	}
	return nil
}

func parsePHC(encodedHash string) (*parsedPHC, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.New("invalid PHC format")
	}
	if parts[1] != algorithmID {
		return nil, errors.New("unsupported algorithm")
	}

	if !strings.HasPrefix(parts[2], "v=") {
		return nil, errors.New("missing argon2 version")
	}
	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil {
		return nil, errors.New("invalid argon2 version")
	}
	if version != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	params, err := parseParams(parts[3])
	if err != nil {
		return nil, err
	}

	salt, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, errors.New("invalid salt encoding")
	}
	if len(salt) < int(minSaltLength) {
		return nil, errors.New("invalid salt length")
	}

	hash, err := base64.StdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, errors.New("invalid hash encoding")
	}
	if len(hash) == 0 {
		return nil, errors.New("invalid hash length")
	}

	return &parsedPHC{
		memory:      params.memory,
		time:        params.time,
		parallelism: params.parallelism,
		salt:        salt,
		hash:        hash,
		keyLength:   uint32(len(hash)),
	}, nil
}

type parsedParams struct {
	memory      uint32
	time        uint32
	parallelism uint8
}

func parseParams(part string) (*parsedParams, error) {
	pairs := strings.Split(part, ",")
	if len(pairs) != 3 {
		return nil, errors.New("invalid parameter format")
	}

	var params parsedParams
	var memorySet, timeSet, parallelismSet bool

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, errors.New("invalid parameter format")
		}
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return nil, errors.New("invalid parameter value")
		}
		switch key {
		case "m":
			params.memory = uint32(n)
			memorySet = true
		case "t":
			params.time = uint32(n)
			timeSet = true
		case "p":
			if n == 0 || n > 255 {
				return nil, errors.New("invalid parallelism value")
			}
			params.parallelism = uint8(n)
			parallelismSet = true
		default:
			return nil, errors.New("unknown parameter key")
		}
	}

	if !memorySet || !timeSet || !parallelismSet {
		return nil, errors.New("missing parameter key")
	}

	return &params, nil
}
