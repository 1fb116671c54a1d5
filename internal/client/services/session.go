// Package services contains the application services of the PropKeeper data
// layer: the session lifecycle, the property repository and the capability
// status cache.
//
// This file defines the session service: exchanging a third-party identity
// token for backend credentials, refreshing, validating and invalidating them.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dkhrunov/propkeeper/internal/client/api"
	"github.com/dkhrunov/propkeeper/internal/client/models"
	"github.com/dkhrunov/propkeeper/internal/client/repositories/metadata"
	"github.com/dkhrunov/propkeeper/internal/common"
	"github.com/dkhrunov/propkeeper/internal/dbx"
	"github.com/dkhrunov/propkeeper/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// Credential store keys. These are the only two secrets the client persists.
const (
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
)

// SessionService owns the authentication state machine.
//
// Contract:
//   - Exchange: trade a third-party sign-in result for backend credentials and
//     persist them. Must be called exactly once per successful third-party
//     sign-in.
//   - Refresh: replace the stored token pair using the stored refresh token.
//     Fails with common.ErrInvalidCredentials, without a network call, when no
//     refresh token is stored.
//   - Invalidate: sign out on the backend, then clear the stored tokens
//     unconditionally. A no-op when no access token is stored.
//   - Validate: best-effort probe of token validity; never returns an error.
//
// All methods honor context cancellation.
type SessionService interface {
	Exchange(ctx context.Context, result models.ThirdPartyResult) (*models.Session, error)
	Refresh(ctx context.Context) (*models.Session, error)
	Invalidate(ctx context.Context) error
	Validate(ctx context.Context) bool
}

// sessionService is the concrete SessionService backed by the remote api.Client
// and the local database acting as the credential store.
type sessionService struct {
	client api.Client
	db     *sql.DB
	log    logging.Logger
}

// NewSessionService constructs a SessionService bound to the given API client
// and DB.
func NewSessionService(client api.Client, db *sql.DB, log logging.Logger) SessionService {
	return &sessionService{client: client, db: db, log: log}
}

func (s *sessionService) credentialRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

// Exchange sends the identity assertion plus profile hints to the backend and,
// on success, persists both returned tokens before returning the session.
func (s *sessionService) Exchange(ctx context.Context, result models.ThirdPartyResult) (*models.Session, error) {
	req := api.ExchangeRequest{
		Provider: result.Provider,
		IDToken:  result.IDToken,
		User: api.ThirdPartyUser{
			ID:              result.UserID,
			Email:           result.Email,
			Name:            result.Name,
			ProfileImageURL: result.ProfileImageURL,
		},
	}

	resp, err := s.client.Exchange(ctx, req)
	if err != nil {
		return nil, mapAPIError(err)
	}

	if err := s.saveTokens(ctx, resp.AccessToken, resp.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to persist credentials: %w", err)
	}

	s.log.Info(ctx, "session established", "user", resp.User.ID, "provider", result.Provider)
	return sessionFromResponse(resp), nil
}

// Refresh replaces both stored tokens using the stored refresh token. The
// replacement is a single transaction: a reader never observes an old access
// token paired with a new refresh token.
func (s *sessionService) Refresh(ctx context.Context) (*models.Session, error) {
	refreshToken, err := s.credentialRepo().Get(ctx, refreshTokenKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh token: %w", err)
	}
	if len(refreshToken) == 0 {
		return nil, common.ErrInvalidCredentials
	}

	resp, err := s.client.Refresh(ctx, string(refreshToken))
	if err != nil {
		return nil, mapAPIError(err)
	}

	if err := s.saveTokens(ctx, resp.AccessToken, resp.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to persist credentials: %w", err)
	}

	s.log.Info(ctx, "session refreshed", "user", resp.User.ID)
	return sessionFromResponse(resp), nil
}

// Invalidate signs out on the backend and clears both stored tokens. The
// tokens are cleared even when the backend call fails: a user-initiated
// sign-out must always remove local credentials regardless of reachability.
// The backend error, if any, is returned after the clear.
func (s *sessionService) Invalidate(ctx context.Context) error {
	accessToken, err := s.credentialRepo().Get(ctx, accessTokenKey)
	if err != nil {
		return fmt.Errorf("failed to read access token: %w", err)
	}
	if len(accessToken) == 0 {
		return nil
	}

	signOutErr := s.client.SignOut(ctx, string(accessToken))

	if err := s.clearTokens(ctx); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	if signOutErr != nil {
		s.log.Warn(ctx, "backend sign-out failed, local credentials cleared anyway", "error", signOutErr)
		return mapAPIError(signOutErr)
	}

	s.log.Info(ctx, "session invalidated")
	return nil
}

// Validate reports whether the stored access token is still valid. With no
// stored token it returns false without a network call; any transport error
// also yields false. This is a best-effort probe, not authoritative.
func (s *sessionService) Validate(ctx context.Context) bool {
	accessToken, err := s.credentialRepo().Get(ctx, accessTokenKey)
	if err != nil || len(accessToken) == 0 {
		return false
	}

	resp, err := s.client.Validate(ctx, string(accessToken))
	if err != nil {
		s.log.Warn(ctx, "validity probe failed", "error", err)
		return false
	}
	return resp.IsValid
}

// saveTokens stores both tokens in a single transaction.
func (s *sessionService) saveTokens(ctx context.Context, accessToken, refreshToken string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, accessTokenKey, []byte(accessToken)); err != nil {
			return err
		}
		return repo.Set(ctx, refreshTokenKey, []byte(refreshToken))
	})
}

// clearTokens removes both tokens in a single transaction.
func (s *sessionService) clearTokens(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, accessTokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, refreshTokenKey)
	})
}

func sessionFromResponse(resp *api.AuthResponse) *models.Session {
	session := &models.Session{
		User: models.User{
			ID:              resp.User.ID,
			Email:           resp.User.Email,
			Name:            resp.User.Name,
			ProfileImageURL: resp.User.ProfileImageURL,
			CreatedAt:       resp.User.CreatedAt,
			UpdatedAt:       resp.User.UpdatedAt,
		},
	}
	if resp.ExpiresIn > 0 {
		session.ExpiresAt = time.Now().UTC().Add(time.Duration(resp.ExpiresIn) * time.Second)
	} else if exp, ok := tokenExpiry(resp.AccessToken); ok {
		session.ExpiresAt = exp
	}
	return session
}

// tokenExpiry extracts the exp claim from the access token without verifying
// the signature. Used only as an expiry hint when the backend omits expiresIn.
func tokenExpiry(accessToken string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// mapAPIError translates transport sentinels into the domain taxonomy:
// unauthorized becomes invalid credentials, unreachable becomes a network
// error, a backend rejection keeps its message, anything else is unknown.
func mapAPIError(err error) error {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return fmt.Errorf("%w: %s", common.ErrInvalidCredentials, err)
	case errors.Is(err, api.ErrUnavailable):
		return fmt.Errorf("%w: %s", common.ErrNetwork, err)
	case errors.Is(err, api.ErrServer):
		return fmt.Errorf("%w: %s", common.ErrServer, err)
	default:
		return fmt.Errorf("%w: %s", common.ErrUnknown, err)
	}
}
