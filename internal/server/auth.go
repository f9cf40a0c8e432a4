package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/instameet/instameet/internal/instrumentation"
	"github.com/instameet/instameet/internal/logging"
	"github.com/instameet/instameet/internal/session"
)

// Short-lived cookies carrying OAuth flow state across the redirect to
// Google and back.
const (
	stateCookieName    = "instameet.auth-state"
	callbackCookieName = "instameet.callback-url"
	flowCookieLifetime = 10 * time.Minute
)

// handleSignIn starts the Google authorization-code flow. The CSRF state
// nonce and the caller's desired post-auth redirect target travel in
// short-lived cookies.
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	s.setFlowCookie(w, stateCookieName, state)
	if target := r.URL.Query().Get("callbackUrl"); target != "" {
		s.setFlowCookie(w, callbackCookieName, target)
	}

	http.Redirect(w, r, s.cfg.Identity.AuthCodeURL(state), http.StatusFound)
}

// handleCallback completes the flow: state check, code exchange, profile
// fetch, session mint. Provider failures surface as "unauthenticated" by
// redirecting to the fallback page without a session cookie, never as a
// hard error.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithOperation(s.logger, "auth.callback")
	q := r.URL.Query()

	target := session.FallbackPath
	if c, err := r.Cookie(callbackCookieName); err == nil {
		target = session.SafeRedirect(c.Value, s.cfg.SiteURL)
	}
	s.clearFlowCookies(w)

	fail := func(reason string, err error) {
		logger.Warn("sign-in failed", "reason", reason, logging.Err(err))
		s.cfg.Metrics.RecordSignIn(r.Context(), instrumentation.SignInResultFailure)
		http.Redirect(w, r, session.FallbackPath, http.StatusFound)
	}

	if errParam := q.Get("error"); errParam != "" {
		fail("provider error: "+errParam, nil)
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != q.Get("state") {
		fail("state mismatch", nil)
		return
	}

	code := q.Get("code")
	if code == "" {
		fail("missing authorization code", nil)
		return
	}

	token, err := s.cfg.Identity.Exchange(r.Context(), code)
	if err != nil {
		fail("code exchange", err)
		return
	}

	profile, err := s.cfg.Identity.FetchProfile(r.Context(), token)
	if err != nil {
		fail("profile fetch", err)
		return
	}

	signed, err := s.cfg.Sessions.Issue(session.Session{
		UserID:            profile.ID,
		Name:              profile.Name,
		AvatarURL:         profile.AvatarURL,
		AccessToken:       token.AccessToken,
		RefreshToken:      token.RefreshToken,
		AccessTokenExpiry: token.Expiry,
	})
	if err != nil {
		fail("session mint", err)
		return
	}

	s.cfg.Sessions.SetCookie(w, signed)
	s.cfg.Metrics.RecordSignIn(r.Context(), instrumentation.SignInResultSuccess)
	s.cfg.Metrics.RecordSessionIssued(r.Context())
	logger.Info("user signed in", logging.UserHash(profile.ID))

	http.Redirect(w, r, target, http.StatusFound)
}

// handleSignOut destroys the session cookie. The redirect target is
// origin-guarded like every other post-auth redirect.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	s.cfg.Sessions.ClearCookie(w)

	target := session.SafeRedirect(r.URL.Query().Get("callbackUrl"), s.cfg.SiteURL)
	http.Redirect(w, r, target, http.StatusFound)
}

// sessionView is the public shape of a session; provider tokens never
// leave the signed cookie.
type sessionView struct {
	User    sessionUser `json:"user"`
	Expires string      `json:"expires"`
}

type sessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

// handleSession reports the current session's identity, or 401 when the
// request carries none.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.cfg.Sessions.FromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized - No session")
		return
	}

	writeJSON(w, http.StatusOK, sessionView{
		User: sessionUser{
			ID:    sess.UserID,
			Name:  sess.Name,
			Image: sess.AvatarURL,
		},
		Expires: sess.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) setFlowCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(flowCookieLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cfg.SiteURL.Scheme == "https",
	})
}

func (s *Server) clearFlowCookies(w http.ResponseWriter) {
	for _, name := range []string{stateCookieName, callbackCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
