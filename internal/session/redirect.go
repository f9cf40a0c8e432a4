package session

import (
	"net/url"
	"strings"
)

// FallbackPath is where sign-in, sign-out and auth errors land when no
// safe redirect target is available.
const FallbackPath = "/home"

// SafeRedirect resolves a requested post-auth redirect target against the
// site's own origin. Targets outside the origin resolve to the fixed
// fallback path, never to the foreign URL.
func SafeRedirect(target string, site *url.URL) string {
	if target == "" {
		return FallbackPath
	}

	// Browsers normalize backslashes to slashes in Location headers, so
	// "/\evil.com" resolves as the protocol-relative "//evil.com".
	if strings.Contains(target, "\\") {
		return FallbackPath
	}

	// Relative paths stay on-site. Protocol-relative URLs ("//evil.com")
	// do not.
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
		return target
	}

	u, err := url.Parse(target)
	if err != nil {
		return FallbackPath
	}
	if u.Scheme == site.Scheme && u.Host == site.Host {
		return target
	}
	return FallbackPath
}
