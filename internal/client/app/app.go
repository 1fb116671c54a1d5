// Package app wires the client data layer together: config, local store,
// transport, and the three application services. The UI layer constructs one
// App and issues intents against its services.
package app

import (
	"context"
	"database/sql"

	"github.com/dkhrunov/propkeeper/internal/client/api"
	"github.com/dkhrunov/propkeeper/internal/client/config"
	"github.com/dkhrunov/propkeeper/internal/client/geo"
	"github.com/dkhrunov/propkeeper/internal/client/platform"
	"github.com/dkhrunov/propkeeper/internal/client/services"
	"github.com/dkhrunov/propkeeper/internal/client/store"
	"github.com/dkhrunov/propkeeper/internal/logging"
)

// App is the composition root of the client data layer.
type App struct {
	Sessions     services.SessionService
	Properties   services.PropertyService
	Capabilities services.CapabilityService

	db *sql.DB
}

// New opens the local database, applies migrations, and constructs the
// services. authorizer is the platform-specific capability API; pass the
// implementation for the current platform.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger, authorizer platform.Authorizer) (*App, error) {
	db, err := store.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	apiClient := api.NewHTTPClient(cfg.BackendAddr, cfg.HTTPTimeout)
	geocoder := geo.NewNominatimClient(cfg.GeocoderAddr, cfg.HTTPTimeout)

	return &App{
		Sessions:     services.NewSessionService(apiClient, db, logger),
		Properties:   services.NewPropertyService(db, geocoder, logger, cfg.BridgeTimeout),
		Capabilities: services.NewCapabilityService(authorizer, logger, cfg.CapabilityThrottle, cfg.BridgeTimeout),
		db:           db,
	}, nil
}

// Close releases the underlying database handle.
func (a *App) Close() error {
	return a.db.Close()
}
