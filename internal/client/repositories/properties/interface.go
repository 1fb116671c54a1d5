// Package properties implements the local property repository backed by the
// client SQLite database.
package properties

import (
	"context"

	"github.com/dkhrunov/propkeeper/internal/client/models"
)

// Repository describes CRUD and query operations for Property records.
type Repository interface {
	// Insert stores a new property row.
	Insert(ctx context.Context, p *models.Property) error

	// Update replaces all mutable columns of an existing property.
	Update(ctx context.Context, p *models.Property) error

	// DeleteByID removes a property. Returns common.ErrNotFound when no row
	// was deleted.
	DeleteByID(ctx context.Context, id string) error

	// GetByID returns a property by identifier, without an ownership filter.
	// Returns common.ErrNotFound when the row does not exist.
	GetByID(ctx context.Context, id string) (*models.Property, error)

	// GetAllByUser returns every property owned by the user, in store-native
	// order.
	GetAllByUser(ctx context.Context, userID string) ([]models.Property, error)

	// Search returns the user's properties whose name or address fields
	// contain the query, case-insensitively.
	Search(ctx context.Context, userID, query string) ([]models.Property, error)

	// GetNeedingSync returns the user's properties with sync status pending
	// or failed, ordered by updated_at descending.
	GetNeedingSync(ctx context.Context, userID string) ([]models.Property, error)

	// SetSyncStatus updates only the sync status column. Returns
	// common.ErrNotFound when the row does not exist.
	SetSyncStatus(ctx context.Context, id string, status models.SyncStatus) error
}
