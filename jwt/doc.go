// Package jwt manages session-token issuance and verification using
// configured signing keys and strict validation semantics. Tokens are
// stateless: the user identifier travels inside the signed claims and is
// re-derived on every request, so there is no server-side session record
// and no revocation short of natural expiry.
package jwt
