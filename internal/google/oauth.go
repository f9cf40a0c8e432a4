package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Profile holds the minimal identity carried into a session.
type Profile struct {
	ID        string
	Email     string
	Name      string
	AvatarURL string
}

// Adapter delegates user authentication to Google's OAuth 2.0
// authorization-code flow and fetches the signed-in user's profile.
type Adapter struct {
	conf *oauth2.Config
	opts []option.ClientOption
}

// NewAdapter creates an Adapter for the given OAuth client. Extra client
// options are forwarded to the userinfo service, which lets tests point
// it at a fake endpoint.
func NewAdapter(clientID, clientSecret, redirectURL string, opts ...option.ClientOption) *Adapter {
	return &Adapter{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     googleoauth.Endpoint,
			RedirectURL:  redirectURL,
			Scopes:       OAuthScopes,
		},
		opts: opts,
	}
}

// AuthCodeURL returns the Google consent page URL for the given CSRF
// state. Offline access and a forced consent prompt guarantee that
// Google issues a refresh token on every sign-in.
func (a *Adapter) AuthCodeURL(state string) string {
	return a.conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades an authorization code for the provider token pair.
func (a *Adapter) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return token, nil
}

// FetchProfile retrieves the signed-in user's id, email, name and avatar.
func (a *Adapter) FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	opts := append([]option.ClientOption{
		option.WithTokenSource(a.conf.TokenSource(ctx, token)),
	}, a.opts...)

	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}

	return &Profile{
		ID:        info.Id,
		Email:     info.Email,
		Name:      info.Name,
		AvatarURL: info.Picture,
	}, nil
}

// OAuthConfig exposes the underlying oauth2 config so other components
// can build refreshing token sources from session-held tokens.
func (a *Adapter) OAuthConfig() *oauth2.Config {
	return a.conf
}
