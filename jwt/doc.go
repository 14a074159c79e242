// Package jwt manages issuance and verification of the signed access and
// refresh tokens using configured signing keys and strict validation semantics.
// A successful parse implies the token is not expired; callers never compare
// timestamps themselves.
package jwt
