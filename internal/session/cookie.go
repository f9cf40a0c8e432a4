package session

import "net/http"

// CookieName is the session cookie. The name mirrors the convention of
// browser-session tooling so existing dashboards and cookie filters
// keep working.
const CookieName = "instameet.session-token"

// SetCookie writes the signed session token as an HTTP-only, lax
// same-site cookie scoped to the whole site.
func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.lifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
	})
}

// ClearCookie removes the session cookie, signing the user out.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
	})
}

// FromRequest extracts and verifies the session carried by a request.
// Missing or invalid cookies yield ErrNoSession.
func (m *Manager) FromRequest(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrNoSession
	}
	return m.Verify(cookie.Value)
}
