// Package middleware exposes a framework-free HTTP guard built on top of
// aegis.Engine validation, for embedders that do not use the bundled gin
// server.
//
// [Guard] reads the session cookie, calls Engine.Validate, and injects the
// authenticated user ID into the request context.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself. All decisions are delegated to
// Engine.Validate.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Access the user store (Engine handles I/O).
package middleware
