// Package session implements the stateless session lifecycle.
//
// A session is minted after a successful provider sign-in and carries the
// user's identity plus Google's access/refresh token pair. It is
// serialized into a signed (HS256) JWT held only by the client as an
// HTTP-only cookie; the server keeps no session store. The deliberate
// trade-off: no server-side lookup per request, but tokens cannot be
// invalidated before their fixed 24-hour expiry.
package session
