package models

import (
	"strings"
	"time"

	"github.com/dkhrunov/propkeeper/internal/common"
)

// PropertyType classifies a property.
type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeCondo     PropertyType = "condo"
	PropertyTypeLand      PropertyType = "land"
	PropertyTypeOther     PropertyType = "other"
)

// Valid reports whether t is one of the known property types.
func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeHouse, PropertyTypeApartment, PropertyTypeCondo, PropertyTypeLand, PropertyTypeOther:
		return true
	}
	return false
}

// SyncStatus records the outcome of the last attempted backend push for a
// property. It is a flag, not a state machine: any local mutation resets it
// to pending.
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSynced  SyncStatus = "synced"
	SyncFailed  SyncStatus = "failed"
)

// NeedsSync reports whether the property still has local changes to push.
// Both pending and failed count as "needs sync".
func (s SyncStatus) NeedsSync() bool {
	return s == SyncPending || s == SyncFailed
}

// Address is the structured postal address of a property.
type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string

	// Latitude/Longitude are filled by geocoding when available; zero when unset.
	Latitude  float64
	Longitude float64
}

// Validate checks the structural requirements: street, city, state and postal
// code must be non-empty after trimming whitespace.
func (a Address) Validate() error {
	for _, field := range []string{a.Street, a.City, a.State, a.PostalCode} {
		if strings.TrimSpace(field) == "" {
			return common.ErrInvalidData
		}
	}
	return nil
}

// String renders the address in "street, city, state postal" form.
func (a Address) String() string {
	var b strings.Builder
	b.WriteString(a.Street)
	b.WriteString(", ")
	b.WriteString(a.City)
	b.WriteString(", ")
	b.WriteString(a.State)
	b.WriteString(" ")
	b.WriteString(a.PostalCode)
	if a.Country != "" {
		b.WriteString(", ")
		b.WriteString(a.Country)
	}
	return b.String()
}

// Property is a single domain record, owned by exactly one user and cached
// locally as the authoritative copy until synced.
type Property struct {
	// ID is a stable unique identifier assigned at creation.
	ID string

	// UserID is the owning user.
	UserID string

	Name    string
	Address Address
	Type    PropertyType

	// SyncStatus reflects the outcome of the last attempted backend
	// operation, not an aggregate history.
	SyncStatus SyncStatus

	CreatedAt time.Time

	// UpdatedAt is refreshed on every mutation and orders sync candidates
	// newest-first.
	UpdatedAt time.Time
}

// PropertyPatch carries optional field updates; only non-nil fields are applied.
type PropertyPatch struct {
	Name    *string
	Address *Address
	Type    *PropertyType
}

// Empty reports whether the patch carries no fields at all.
func (p PropertyPatch) Empty() bool {
	return p.Name == nil && p.Address == nil && p.Type == nil
}
