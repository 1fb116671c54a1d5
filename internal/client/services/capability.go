package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dkhrunov/propkeeper/internal/client/models"
	"github.com/dkhrunov/propkeeper/internal/client/platform"
	"github.com/dkhrunov/propkeeper/internal/common"
	"github.com/dkhrunov/propkeeper/internal/logging"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

// CapabilityService polls the platform's permission state, throttles
// redundant polling, and serves cached statuses. Nothing here is persisted;
// statuses are recomputed per poll.
type CapabilityService interface {
	// CheckAll refreshes every capability status unless a poll happened
	// within the throttle interval, in which case the cache is served as-is.
	CheckAll(ctx context.Context)

	// ForceRefresh clears the throttle stamp and polls, bypassing throttling
	// exactly once.
	ForceRefresh(ctx context.Context)

	// Request prompts for a not-yet-determined capability. It never
	// re-prompts once a status is determined; for a denied or restricted
	// capability it returns the cached status together with
	// common.ErrSettingsRequired.
	Request(ctx context.Context, kind models.CapabilityKind) (models.CapabilityStatus, error)

	// Status returns the cached status for kind, CapabilityNotDetermined
	// when nothing is cached yet.
	Status(kind models.CapabilityKind) models.CapabilityStatus

	// AllGranted reports whether every capability is granted.
	AllGranted() bool

	// CriticalGranted reports whether the capabilities required for core
	// functionality (camera, photo library) are granted.
	CriticalGranted() bool
}

type capabilityService struct {
	authorizer    platform.Authorizer
	log           logging.Logger
	throttle      time.Duration
	promptTimeout time.Duration

	// statuses holds one entry per capability kind, without expiry; the
	// throttle is driven by lastPoll, not by cache TTLs.
	statuses *gocache.Cache

	mu       sync.Mutex
	lastPoll time.Time
}

// NewCapabilityService constructs a CapabilityService over the given platform
// authorizer. throttle is the minimum interval between two effective polls;
// promptTimeout bounds a single platform prompt.
func NewCapabilityService(authorizer platform.Authorizer, log logging.Logger, throttle, promptTimeout time.Duration) CapabilityService {
	return &capabilityService{
		authorizer:    authorizer,
		log:           log,
		throttle:      throttle,
		promptTimeout: promptTimeout,
		statuses:      gocache.New(gocache.NoExpiration, 0),
	}
}

// CheckAll refreshes all statuses concurrently. The throttle stamp is written
// before the poll starts so that a rapid succession of callers skips straight
// to the cached values. Two callers within the same instant can both pass the
// check; that race is left in place because polls are idempotent reads.
func (c *capabilityService) CheckAll(ctx context.Context) {
	c.mu.Lock()
	if time.Since(c.lastPoll) < c.throttle {
		c.mu.Unlock()
		return
	}
	c.lastPoll = time.Now()
	c.mu.Unlock()

	kinds := models.AllCapabilityKinds()
	results := make([]models.CapabilityStatus, len(kinds))
	polled := make([]bool, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			status, err := c.authorizer.Status(gctx, kind)
			if err != nil {
				c.log.Warn(gctx, "capability status poll failed", "kind", kind, "error", err)
				return nil
			}
			results[i] = status
			polled[i] = true
			return nil
		})
	}
	_ = g.Wait()

	// All cached values are replaced together after the poll completes;
	// kinds whose poll failed keep their previous value.
	for i, kind := range kinds {
		if polled[i] {
			c.statuses.Set(string(kind), results[i], gocache.NoExpiration)
		}
	}
}

// ForceRefresh clears the throttle stamp, then polls.
func (c *capabilityService) ForceRefresh(ctx context.Context) {
	c.mu.Lock()
	c.lastPoll = time.Time{}
	c.mu.Unlock()
	c.CheckAll(ctx)
}

func (c *capabilityService) Request(ctx context.Context, kind models.CapabilityKind) (models.CapabilityStatus, error) {
	current, cached := c.cachedStatus(kind)
	if !cached {
		// Never polled: consult the platform once before deciding whether
		// a prompt is still possible.
		status, err := c.authorizer.Status(ctx, kind)
		if err != nil {
			return models.CapabilityNotDetermined, fmt.Errorf("%w: %s", common.ErrUnknown, err)
		}
		current = status
		c.statuses.Set(string(kind), current, gocache.NoExpiration)
	}

	if !current.CanRequest() {
		if current == models.CapabilityDenied || current == models.CapabilityRestricted {
			return current, common.ErrSettingsRequired
		}
		return current, nil
	}

	promptCtx, cancel := context.WithTimeout(ctx, c.promptTimeout)
	defer cancel()

	status, err := c.authorizer.Request(promptCtx, kind)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return current, fmt.Errorf("%w: permission prompt did not resolve", common.ErrTimeout)
		}
		return current, fmt.Errorf("%w: %s", common.ErrUnknown, err)
	}

	c.statuses.Set(string(kind), status, gocache.NoExpiration)

	if !status.IsGranted() {
		return status, common.ErrPermissionDenied
	}
	return status, nil
}

func (c *capabilityService) Status(kind models.CapabilityKind) models.CapabilityStatus {
	status, _ := c.cachedStatus(kind)
	return status
}

func (c *capabilityService) cachedStatus(kind models.CapabilityKind) (models.CapabilityStatus, bool) {
	if v, ok := c.statuses.Get(string(kind)); ok {
		return v.(models.CapabilityStatus), true
	}
	return models.CapabilityNotDetermined, false
}

func (c *capabilityService) AllGranted() bool {
	for _, kind := range models.AllCapabilityKinds() {
		if !c.Status(kind).IsGranted() {
			return false
		}
	}
	return true
}

func (c *capabilityService) CriticalGranted() bool {
	return c.Status(models.CapabilityCamera).IsGranted() &&
		c.Status(models.CapabilityPhotoLibrary).IsGranted()
}
