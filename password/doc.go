// Package password hashes and verifies credentials with argon2id. Hashes are
// PHC-encoded strings; verification recomputes the key from the stored
// parameters and compares in constant time.
package password
