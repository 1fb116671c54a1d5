package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dkhrunov/propkeeper/internal/client/geo"
	"github.com/dkhrunov/propkeeper/internal/client/models"
	"github.com/dkhrunov/propkeeper/internal/client/repositories/metadata"
	"github.com/dkhrunov/propkeeper/internal/client/repositories/properties"
	"github.com/dkhrunov/propkeeper/internal/common"
	"github.com/dkhrunov/propkeeper/internal/dbx"
	"github.com/dkhrunov/propkeeper/internal/logging"
	"github.com/google/uuid"
)

// activePropertyKeyPrefix namespaces the per-user active-property pointer in
// the metadata store.
const activePropertyKeyPrefix = "active_property:"

// PropertyService owns CRUD and sync-state tracking for property records.
// It has no network access: sync status transitions to synced/failed are made
// by an external sync driver through MarkSynced and MarkSyncFailed.
type PropertyService interface {
	List(ctx context.Context, userID string) ([]models.Property, error)
	Get(ctx context.Context, id string) (*models.Property, error)
	Create(ctx context.Context, name string, address models.Address, propType models.PropertyType, userID string) (*models.Property, error)
	CreateFromAddressString(ctx context.Context, name, addressString string, propType models.PropertyType, userID string) (*models.Property, error)
	Update(ctx context.Context, id string, patch models.PropertyPatch) (*models.Property, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query, userID string) ([]models.Property, error)
	NeedingSync(ctx context.Context, userID string) ([]models.Property, error)
	MarkSynced(ctx context.Context, id string) (*models.Property, error)
	MarkSyncFailed(ctx context.Context, id string) (*models.Property, error)
	SetActive(ctx context.Context, id, userID string) error
	GetActive(ctx context.Context, userID string) (*models.Property, error)
}

type propertyService struct {
	db            *sql.DB
	geocoder      geo.Geocoder
	log           logging.Logger
	bridgeTimeout time.Duration
}

// NewPropertyService constructs a PropertyService over the local database.
// The geocoder is consulted only by CreateFromAddressString and may be nil,
// in which case the comma-split fallback parser is used directly.
func NewPropertyService(db *sql.DB, geocoder geo.Geocoder, log logging.Logger, bridgeTimeout time.Duration) PropertyService {
	return &propertyService{db: db, geocoder: geocoder, log: log, bridgeTimeout: bridgeTimeout}
}

func (s *propertyService) propertyRepo() properties.Repository {
	return properties.NewSQLiteRepository(s.db)
}

func (s *propertyService) metadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

// List returns all properties owned by the user, in store-native order.
func (s *propertyService) List(ctx context.Context, userID string) ([]models.Property, error) {
	result, err := s.propertyRepo().GetAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return result, nil
}

// Get returns a single property by identifier, without an ownership filter.
func (s *propertyService) Get(ctx context.Context, id string) (*models.Property, error) {
	p, err := s.propertyRepo().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return p, nil
}

// Create validates the draft and inserts a new pending record. Identifier and
// timestamps are assigned inside the insert transaction, never before it.
func (s *propertyService) Create(ctx context.Context, name string, address models.Address, propType models.PropertyType, userID string) (*models.Property, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", common.ErrInvalidData)
	}
	if err := address.Validate(); err != nil {
		return nil, fmt.Errorf("%w: incomplete address", common.ErrInvalidData)
	}
	if !propType.Valid() {
		return nil, fmt.Errorf("%w: unknown property type %q", common.ErrInvalidData, propType)
	}

	var p *models.Property
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		now := time.Now().UTC()
		p = &models.Property{
			ID:         uuid.NewString(),
			UserID:     userID,
			Name:       name,
			Address:    address,
			Type:       propType,
			SyncStatus: models.SyncPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return properties.NewSQLiteRepository(tx).Insert(ctx, p)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	s.log.Debug(ctx, "property created", "id", p.ID, "user", userID)
	return p, nil
}

// CreateFromAddressString geocodes the free-form address and, when geocoding
// fails, falls back to a naive comma-split parse. The fallback is best-effort,
// not a general address parser.
func (s *propertyService) CreateFromAddressString(ctx context.Context, name, addressString string, propType models.PropertyType, userID string) (*models.Property, error) {
	address, err := s.resolveAddress(ctx, addressString)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, name, *address, propType, userID)
}

func (s *propertyService) resolveAddress(ctx context.Context, addressString string) (*models.Address, error) {
	if s.geocoder != nil {
		geoCtx, cancel := context.WithTimeout(ctx, s.bridgeTimeout)
		defer cancel()

		loc, err := s.geocoder.Geocode(geoCtx, addressString)
		if err == nil {
			address := &models.Address{
				Street:     loc.Street,
				City:       loc.City,
				State:      loc.State,
				PostalCode: loc.PostalCode,
				Country:    loc.Country,
				Latitude:   loc.Latitude,
				Longitude:  loc.Longitude,
			}
			if address.Validate() == nil {
				return address, nil
			}
			s.log.Warn(ctx, "geocoder returned incomplete address, falling back to parse", "query", addressString)
		} else {
			s.log.Warn(ctx, "geocoding failed, falling back to parse", "error", err)
		}
	}
	return parseAddressString(addressString)
}

// parseAddressString splits "street, city, state postal[, country]" on commas.
// It requires at least three comma components and at least two tokens in the
// state/postal segment.
func parseAddressString(s string) (*models.Address, error) {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: address must have street, city and state/postal segments", common.ErrInvalidData)
	}

	statePostal := strings.Fields(parts[2])
	if len(statePostal) < 2 {
		return nil, fmt.Errorf("%w: state/postal segment must have at least two tokens", common.ErrInvalidData)
	}

	address := &models.Address{
		Street:     parts[0],
		City:       parts[1],
		State:      strings.Join(statePostal[:len(statePostal)-1], " "),
		PostalCode: statePostal[len(statePostal)-1],
	}
	if len(parts) > 3 {
		address.Country = parts[3]
	}
	if err := address.Validate(); err != nil {
		return nil, fmt.Errorf("%w: incomplete address", common.ErrInvalidData)
	}
	return address, nil
}

// Update applies the present patch fields. Any applied field forces the sync
// status to pending and refreshes updatedAt, even when the new value equals
// the old one: the repository does not diff for no-ops.
func (s *propertyService) Update(ctx context.Context, id string, patch models.PropertyPatch) (*models.Property, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", common.ErrInvalidData)
	}
	if patch.Address != nil {
		if err := patch.Address.Validate(); err != nil {
			return nil, fmt.Errorf("%w: incomplete address", common.ErrInvalidData)
		}
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown property type %q", common.ErrInvalidData, *patch.Type)
	}

	var p *models.Property
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := properties.NewSQLiteRepository(tx)

		var err error
		p, err = repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if patch.Empty() {
			return nil
		}

		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Address != nil {
			p.Address = *patch.Address
		}
		if patch.Type != nil {
			p.Type = *patch.Type
		}

		p.SyncStatus = models.SyncPending
		p.UpdatedAt = nextUpdatedAt(p.UpdatedAt)
		return repo.Update(ctx, p)
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	return p, nil
}

// Delete removes the record from the local store immediately, without waiting
// for a remote acknowledgment.
func (s *propertyService) Delete(ctx context.Context, id string) error {
	if err := s.propertyRepo().DeleteByID(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("failed to delete property: %w", err)
	}
	s.log.Debug(ctx, "property deleted", "id", id)
	return nil
}

// Search matches the query case-insensitively against name and address
// fields, scoped to the user.
func (s *propertyService) Search(ctx context.Context, query, userID string) ([]models.Property, error) {
	result, err := s.propertyRepo().Search(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	return result, nil
}

// NeedingSync returns pending and failed records, most recently changed
// first, so that fresher local edits sync before stale ones.
func (s *propertyService) NeedingSync(ctx context.Context, userID string) ([]models.Property, error) {
	result, err := s.propertyRepo().GetNeedingSync(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records needing sync: %w", err)
	}
	return result, nil
}

// MarkSynced records a confirmed successful push. It does not touch
// updatedAt: a sync acknowledgment is not a local edit.
func (s *propertyService) MarkSynced(ctx context.Context, id string) (*models.Property, error) {
	return s.setSyncStatus(ctx, id, models.SyncSynced)
}

// MarkSyncFailed records a failed push attempt.
func (s *propertyService) MarkSyncFailed(ctx context.Context, id string) (*models.Property, error) {
	return s.setSyncStatus(ctx, id, models.SyncFailed)
}

func (s *propertyService) setSyncStatus(ctx context.Context, id string, status models.SyncStatus) (*models.Property, error) {
	var p *models.Property
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := properties.NewSQLiteRepository(tx)
		if err := repo.SetSyncStatus(ctx, id, status); err != nil {
			return err
		}
		var err error
		p, err = repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to set sync status: %w", err)
	}
	return p, nil
}

// SetActive stores the per-user active-property pointer. An empty id clears it.
func (s *propertyService) SetActive(ctx context.Context, id, userID string) error {
	repo := s.metadataRepo()
	key := activePropertyKeyPrefix + userID

	if id == "" {
		if err := repo.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to clear active property: %w", err)
		}
		return nil
	}
	if err := repo.Set(ctx, key, []byte(id)); err != nil {
		return fmt.Errorf("failed to set active property: %w", err)
	}
	return nil
}

// GetActive resolves the active-property pointer. When the pointer is unset,
// or the pointed-to record no longer exists or belongs to another user, it
// falls back to the user's first record. Returns (nil, nil) when the user has
// no records at all.
func (s *propertyService) GetActive(ctx context.Context, userID string) (*models.Property, error) {
	pointer, err := s.metadataRepo().Get(ctx, activePropertyKeyPrefix+userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read active property pointer: %w", err)
	}

	if len(pointer) > 0 {
		p, err := s.propertyRepo().GetByID(ctx, string(pointer))
		if err == nil && p.UserID == userID {
			return p, nil
		}
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("failed to resolve active property: %w", err)
		}
	}

	all, err := s.propertyRepo().GetAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active property fallback: %w", err)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return &all[0], nil
}

// nextUpdatedAt returns a timestamp strictly greater than prev, so repeated
// mutations within the clock's resolution still order deterministically.
func nextUpdatedAt(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}
