// Package server provides the InstaMeet HTTP server: Google sign-in,
// stateless session cookies, and the meeting creation API.
//
// # Key Components
//
// Server routes the application endpoints:
//   - GET /api/auth/signin starts the Google authorization-code flow
//   - GET /api/auth/callback completes it and mints the session cookie
//   - POST /api/auth/signout clears the session cookie
//   - GET /api/auth/session reports the current identity
//   - POST /api/meetings creates a calendar event with a Meet link
//   - GET /home renders the landing page
//
// HealthChecker serves Kubernetes-style probes on /healthz, /readyz and
// /healthz/detailed. MetricsServer exposes Prometheus metrics on a
// dedicated listener so they stay off the public one.
//
// # Security Features
//
//   - CSRF state nonce on the OAuth flow, carried in a short-lived cookie
//   - Post-auth redirect targets are origin-guarded against open redirects
//   - Provider tokens live only inside the signed session cookie
//   - Session cookies are HttpOnly, SameSite=Lax, Secure in production
package server
