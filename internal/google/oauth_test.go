package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

func TestAuthCodeURL(t *testing.T) {
	a := NewAdapter("client-id", "client-secret", "http://localhost:8080/api/auth/callback")

	raw := a.AuthCodeURL("state-nonce")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "state-nonce", q.Get("state"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "http://localhost:8080/api/auth/callback", q.Get("redirect_uri"))
	assert.Contains(t, q.Get("scope"), "https://www.googleapis.com/auth/calendar")
	assert.Contains(t, q.Get("scope"), "userinfo.email")
}

func TestFetchProfile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":      "user-123",
			"email":   "jordan@example.com",
			"name":    "Jordan Example",
			"picture": "https://example.com/avatar.png",
		})
	}))
	defer ts.Close()

	a := NewAdapter("client-id", "client-secret", "http://localhost/callback",
		option.WithEndpoint(ts.URL))

	token := &oauth2.Token{
		AccessToken: "test-access-token",
		Expiry:      time.Now().Add(time.Hour),
	}

	profile, err := a.FetchProfile(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", profile.ID)
	assert.Equal(t, "jordan@example.com", profile.Email)
	assert.Equal(t, "Jordan Example", profile.Name)
	assert.Equal(t, "https://example.com/avatar.png", profile.AvatarURL)
}

func TestFetchProfileUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	a := NewAdapter("client-id", "client-secret", "http://localhost/callback",
		option.WithEndpoint(ts.URL))

	token := &oauth2.Token{AccessToken: "bad", Expiry: time.Now().Add(time.Hour)}
	_, err := a.FetchProfile(context.Background(), token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch user profile")
}
