// Package platform is the boundary to device capability APIs (camera, photo
// library, notifications). The contract is deliberately narrow: report the
// current status, and prompt once reporting the outcome.
package platform

import (
	"context"

	"github.com/dkhrunov/propkeeper/internal/client/models"
)

// Authorizer exposes the platform's permission state for one or more
// capability kinds.
type Authorizer interface {
	// Status returns the current authorization status without prompting.
	Status(ctx context.Context, kind models.CapabilityKind) (models.CapabilityStatus, error)

	// Request shows the platform prompt for a not-yet-determined capability
	// and returns the user's answer. Platforms refuse to re-prompt once a
	// capability was denied; callers must not invoke Request in that case.
	Request(ctx context.Context, kind models.CapabilityKind) (models.CapabilityStatus, error)
}
