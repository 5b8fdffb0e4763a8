// Package aegis implements an email-first authentication engine: registration,
// credential login, stateless JWT session tokens, and one-time-passcode (OTP)
// flows for account verification and password reset delivered over email.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// aegis is the public surface. It exposes [Engine], [Builder], [Config], and
// the sentinel errors handlers need to map failures to transport responses.
// The credential store, token manager, password hasher, and mail transport
// are injected collaborators (see the store, jwt, password, and mail
// sub-packages); the engine never reaches around them.
//
// # OTP one-time-use contract
//
// OTP consumption is delegated to the store as a single atomic
// read-modify-write. Two concurrent consumers of the same valid code must
// observe exactly one success; the engine relies on the store for this and
// adds no locking of its own.
package aegis
