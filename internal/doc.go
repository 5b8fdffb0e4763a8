// Package internal contains helper utilities that are intentionally private
// to aegis, including secure one-time passcode generation.
//
// # Sub-packages
//
//   - config — process configuration loaded from the environment
//   - http — gin router, handlers, and middleware for the bundled server
//
// # What this package must NOT do
//
//   - Export types that appear in the public aegis API.
//   - Be imported by any package outside the aegis module.
package internal
