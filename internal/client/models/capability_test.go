package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilityStatusIsGranted(t *testing.T) {
	assert.True(t, CapabilityAuthorized.IsGranted())
	assert.True(t, CapabilityLimited.IsGranted())
	assert.False(t, CapabilityNotDetermined.IsGranted())
	assert.False(t, CapabilityDenied.IsGranted())
	assert.False(t, CapabilityRestricted.IsGranted())
}

func TestCapabilityStatusCanRequest(t *testing.T) {
	assert.True(t, CapabilityNotDetermined.CanRequest())
	assert.False(t, CapabilityDenied.CanRequest())
	assert.False(t, CapabilityAuthorized.CanRequest())
}

func TestAllCapabilityKinds(t *testing.T) {
	kinds := AllCapabilityKinds()
	assert.Len(t, kinds, 3)
	assert.Contains(t, kinds, CapabilityCamera)
	assert.Contains(t, kinds, CapabilityPhotoLibrary)
	assert.Contains(t, kinds, CapabilityNotifications)
}
