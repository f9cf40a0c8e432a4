// Package google implements the identity provider adapter for Google's
// OAuth 2.0 authorization-code flow.
//
// The adapter requests calendar scopes in addition to profile and email,
// with access_type=offline and prompt=consent so a refresh token is
// issued on every sign-in. Provider authentication failures surface as
// errors to the caller, which treats them as "unauthenticated" rather
// than hard failures.
package google
