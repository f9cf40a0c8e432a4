package google

// OAuthScopes are the Google OAuth scopes the sign-in flow requests.
//
// The scopes provide access to:
//   - Profile and email: minimal identity for the session
//   - Calendar: creating events with Meet conferencing attached
var OAuthScopes = []string{
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/calendar.events",
}
