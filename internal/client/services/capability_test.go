package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dkhrunov/propkeeper/internal/client/models"
	"github.com/dkhrunov/propkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthorizer implements platform.Authorizer with per-kind presets and
// call counters.
type fakeAuthorizer struct {
	mu           sync.Mutex
	statuses     map[models.CapabilityKind]models.CapabilityStatus
	promptAnswer models.CapabilityStatus
	statusCalls  int
	promptCalls  int
}

func newFakeAuthorizer(status models.CapabilityStatus) *fakeAuthorizer {
	statuses := make(map[models.CapabilityKind]models.CapabilityStatus)
	for _, kind := range models.AllCapabilityKinds() {
		statuses[kind] = status
	}
	return &fakeAuthorizer{statuses: statuses, promptAnswer: models.CapabilityAuthorized}
}

func (f *fakeAuthorizer) Status(ctx context.Context, kind models.CapabilityKind) (models.CapabilityStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	return f.statuses[kind], nil
}

func (f *fakeAuthorizer) Request(ctx context.Context, kind models.CapabilityKind) (models.CapabilityStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.promptCalls++
	f.statuses[kind] = f.promptAnswer
	return f.promptAnswer, nil
}

func (f *fakeAuthorizer) counts() (status, prompt int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls, f.promptCalls
}

func (f *fakeAuthorizer) set(kind models.CapabilityKind, status models.CapabilityStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[kind] = status
}

func newCapabilityService(authorizer *fakeAuthorizer, throttle time.Duration) CapabilityService {
	return NewCapabilityService(authorizer, testLogger(), throttle, time.Second)
}

func TestCheckAll_PollsEveryKind(t *testing.T) {
	authorizer := newFakeAuthorizer(models.CapabilityAuthorized)
	c := newCapabilityService(authorizer, 5*time.Second)

	c.CheckAll(context.Background())

	for _, kind := range models.AllCapabilityKinds() {
		assert.Equal(t, models.CapabilityAuthorized, c.Status(kind))
	}
	statusCalls, _ := authorizer.counts()
	assert.Equal(t, len(models.AllCapabilityKinds()), statusCalls)
}

func TestCheckAll_ThrottledWithinWindow(t *testing.T) {
	authorizer := newFakeAuthorizer(models.CapabilityAuthorized)
	c := newCapabilityService(authorizer, 5*time.Second)
	ctx := context.Background()

	c.CheckAll(ctx)
	before := map[models.CapabilityKind]models.CapabilityStatus{}
	for _, kind := range models.AllCapabilityKinds() {
		before[kind] = c.Status(kind)
	}

	// platform state changes, but the cache is served as-is within the window
	authorizer.set(models.CapabilityCamera, models.CapabilityDenied)
	c.CheckAll(ctx)

	for _, kind := range models.AllCapabilityKinds() {
		assert.Equal(t, before[kind], c.Status(kind))
	}
	statusCalls, _ := authorizer.counts()
	assert.Equal(t, len(models.AllCapabilityKinds()), statusCalls, "second call within the window must not poll")
}

func TestCheckAll_PollsAgainAfterWindow(t *testing.T) {
	authorizer := newFakeAuthorizer(models.CapabilityAuthorized)
	c := newCapabilityService(authorizer, time.Millisecond)
	ctx := context.Background()

	c.CheckAll(ctx)
	authorizer.set(models.CapabilityCamera, models.CapabilityDenied)
	time.Sleep(5 * time.Millisecond)

	c.CheckAll(ctx)
	assert.Equal(t, models.CapabilityDenied, c.Status(models.CapabilityCamera))
}

func TestForceRefresh_BypassesThrottle(t *testing.T) {
	authorizer := newFakeAuthorizer(models.CapabilityAuthorized)
	c := newCapabilityService(authorizer, time.Hour)
	ctx := context.Background()

	c.CheckAll(ctx)
	authorizer.set(models.CapabilityCamera, models.CapabilityDenied)

	c.ForceRefresh(ctx)
	assert.Equal(t, models.CapabilityDenied, c.Status(models.CapabilityCamera))
}

func TestRequest_PromptsOnceWhenNotDetermined(t *testing.T) {
	authorizer := newFakeAuthorizer(models.CapabilityNotDetermined)
	c := newCapabilityService(authorizer, 5*time.Second)
	ctx := context.Background()

	status, err := c.Request(ctx, models.CapabilityCamera)
	require.NoError(t, err)
	assert.Equal(t, models.CapabilityAuthorized, status)

	_, prompts := authorizer.counts()
	assert.Equal(t, 1, prompts)
}

func TestRequest_DeniedNeverRepromptsAndRequiresSettings(t *testing.T) {
	authorizer := newFakeAuthorizer(models.CapabilityNotDetermined)
	authorizer.promptAnswer = models.CapabilityDenied
	c := newCapabilityService(authorizer, 5*time.Second)
	ctx := context.Background()

	status, err := c.Request(ctx, models.CapabilityCamera)
	assert.Equal(t, models.CapabilityDenied, status)
	assert.ErrorIs(t, err, common.ErrPermissionDenied)

	// second request: cached denied, no new prompt, settings required
	status, err = c.Request(ctx, models.CapabilityCamera)
	assert.Equal(t, models.CapabilityDenied, status)
	assert.ErrorIs(t, err, common.ErrSettingsRequired)

	_, prompts := authorizer.counts()
	assert.Equal(t, 1, prompts)
}

func TestRequest_AlreadyAuthorizedReturnsWithoutPrompt(t *testing.T) {
	authorizer := newFakeAuthorizer(models.CapabilityAuthorized)
	c := newCapabilityService(authorizer, 5*time.Second)

	status, err := c.Request(context.Background(), models.CapabilityCamera)
	require.NoError(t, err)
	assert.Equal(t, models.CapabilityAuthorized, status)

	_, prompts := authorizer.counts()
	assert.Zero(t, prompts)
}

func TestRequest_RestrictedRequiresSettings(t *testing.T) {
	authorizer := newFakeAuthorizer(models.CapabilityRestricted)
	c := newCapabilityService(authorizer, 5*time.Second)
	c.CheckAll(context.Background())

	status, err := c.Request(context.Background(), models.CapabilityPhotoLibrary)
	assert.Equal(t, models.CapabilityRestricted, status)
	assert.ErrorIs(t, err, common.ErrSettingsRequired)
}

func TestAggregatePredicates(t *testing.T) {
	authorizer := newFakeAuthorizer(models.CapabilityAuthorized)
	authorizer.set(models.CapabilityNotifications, models.CapabilityDenied)
	c := newCapabilityService(authorizer, 5*time.Second)
	c.CheckAll(context.Background())

	assert.False(t, c.AllGranted())
	assert.True(t, c.CriticalGranted())

	// limited counts as granted
	authorizer.set(models.CapabilityNotifications, models.CapabilityLimited)
	c.ForceRefresh(context.Background())
	assert.True(t, c.AllGranted())
}
