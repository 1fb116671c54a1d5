package models

import (
	"testing"

	"github.com/dkhrunov/propkeeper/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestAddressValidate(t *testing.T) {
	valid := Address{Street: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701"}

	tests := []struct {
		name    string
		mutate  func(a *Address)
		wantErr bool
	}{
		{"valid", func(a *Address) {}, false},
		{"valid without country", func(a *Address) { a.Country = "" }, false},
		{"empty street", func(a *Address) { a.Street = "" }, true},
		{"whitespace city", func(a *Address) { a.City = "   " }, true},
		{"empty state", func(a *Address) { a.State = "" }, true},
		{"empty postal code", func(a *Address) { a.PostalCode = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			tt.mutate(&a)
			err := a.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidData)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAddressString(t *testing.T) {
	a := Address{Street: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701"}
	assert.Equal(t, "1 Main St, Springfield, IL 62701", a.String())

	a.Country = "USA"
	assert.Equal(t, "1 Main St, Springfield, IL 62701, USA", a.String())
}

func TestSyncStatusNeedsSync(t *testing.T) {
	assert.True(t, SyncPending.NeedsSync())
	assert.True(t, SyncFailed.NeedsSync())
	assert.False(t, SyncSynced.NeedsSync())
}

func TestPropertyTypeValid(t *testing.T) {
	assert.True(t, PropertyTypeHouse.Valid())
	assert.True(t, PropertyTypeLand.Valid())
	assert.False(t, PropertyType("castle").Valid())
}

func TestPropertyPatchEmpty(t *testing.T) {
	assert.True(t, PropertyPatch{}.Empty())

	name := "x"
	assert.False(t, PropertyPatch{Name: &name}.Empty())
}
