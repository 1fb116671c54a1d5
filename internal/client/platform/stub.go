package platform

import (
	"context"

	"github.com/dkhrunov/propkeeper/internal/client/models"
)

// StubAuthorizer is a no-prompt Authorizer for platforms without capability
// APIs (headless builds, tests). Every capability reports restricted.
type StubAuthorizer struct{}

// NewStubAuthorizer returns a StubAuthorizer.
func NewStubAuthorizer() *StubAuthorizer {
	return &StubAuthorizer{}
}

func (s *StubAuthorizer) Status(ctx context.Context, kind models.CapabilityKind) (models.CapabilityStatus, error) {
	return models.CapabilityRestricted, nil
}

func (s *StubAuthorizer) Request(ctx context.Context, kind models.CapabilityKind) (models.CapabilityStatus, error) {
	return models.CapabilityRestricted, nil
}
