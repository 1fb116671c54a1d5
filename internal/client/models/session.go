package models

import "time"

// Session is the authenticated relationship between this client and the
// backend. The token pair itself is persisted only in the credential store and
// is intentionally not part of this value.
type Session struct {
	User User

	// ExpiresAt is a hint derived from the backend's expiresIn value or from
	// the access token claims. Zero when unknown. Refresh is invoked
	// on-demand by callers, not by a timer.
	ExpiresAt time.Time
}

// ThirdPartyResult is the outcome of a successful third-party sign-in
// (e.g. "Sign in with Apple"). It carries the identity assertion plus the
// profile hints some providers only disclose on first sign-in.
type ThirdPartyResult struct {
	Provider string
	IDToken  string

	UserID          string
	Email           string
	Name            string
	ProfileImageURL string
}
