// Package session persists per-user session records in Redis. A record's
// existence is the authoritative "is logged in" flag: tokens that verify
// cryptographically are still rejected once the record is gone.
//
// Records are stored as hashes at <prefix>:<user_id> with a TTL equal to the
// refresh-token lifetime. The hash tracks the last-issued refresh token id so
// rotation can be enforced atomically server-side.
package session
