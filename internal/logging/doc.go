// Package logging provides structured logging utilities for the
// instameet application.
//
// It centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog
// package.
//
// # Security Considerations
//
//   - User identifiers are hashed to prevent PII leakage while still
//     allowing correlation across log entries
//   - Provider tokens are never logged directly; use SanitizeToken
package logging
