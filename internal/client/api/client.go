// Package api is the transport boundary to the PropKeeper backend. It defines
// the request/response payloads of the auth endpoints and a Client interface
// whose errors are a fixed set of sentinels (ErrUnavailable, ErrUnauthorized,
// ErrServer) that upper layers map onto the domain taxonomy.
package api

import (
	"context"
	"time"
)

// ThirdPartyUser carries the profile hints disclosed by the identity provider.
type ThirdPartyUser struct {
	ID              string `json:"id"`
	Email           string `json:"email,omitempty"`
	Name            string `json:"name,omitempty"`
	ProfileImageURL string `json:"profileImageURL,omitempty"`
}

// ExchangeRequest is the body of POST auth/exchange.
type ExchangeRequest struct {
	Provider string         `json:"provider"`
	IDToken  string         `json:"idToken"`
	User     ThirdPartyUser `json:"user"`
}

// RefreshRequest is the body of POST auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UserPayload is the backend-issued identity embedded in auth responses.
type UserPayload struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	ProfileImageURL string    `json:"profileImageURL"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// AuthResponse is the shared response shape of auth/exchange and auth/refresh.
type AuthResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int64       `json:"expiresIn"`
	User         UserPayload `json:"user"`
}

// ValidateResponse is the response of GET auth/validate.
type ValidateResponse struct {
	IsValid   bool       `json:"isValid"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Client performs authenticated and unauthenticated backend requests.
// Operations requiring auth take the access token explicitly; the transport
// never reads or writes the credential store itself.
type Client interface {
	// Exchange trades a third-party identity assertion for backend credentials.
	Exchange(ctx context.Context, req ExchangeRequest) (*AuthResponse, error)

	// Refresh trades a refresh token for a new token pair.
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)

	// SignOut revokes the session on the backend.
	SignOut(ctx context.Context, accessToken string) error

	// Validate asks the backend whether the access token is still valid.
	Validate(ctx context.Context, accessToken string) (*ValidateResponse, error)
}
