package rest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rental-listing-client/internal/core/domain"
	"rental-listing-client/internal/core/port/usecases_port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scopedController подменяет только то, что использует реестр.
type scopedController struct {
	usecases_port.ListingControllerPort
	scope domain.ListingScope
	err   error

	mu        sync.Mutex
	refreshes int
}

func (c *scopedController) Scope() domain.ListingScope { return c.scope }

func (c *scopedController) Refresh(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshes++
	return c.err
}

func newScopedRegistry(scopes ...domain.ListingScope) (*SessionRegistry, []string, []*scopedController) {
	var controllers []*scopedController
	for _, s := range scopes {
		controllers = append(controllers, &scopedController{scope: s})
	}
	next := 0
	registry := NewSessionRegistry(func(string, int) SessionController {
		c := controllers[next]
		next++
		return c
	}, 0, nil)

	ids := make([]string, len(scopes))
	for i := range scopes {
		ids[i], _ = registry.Create(6)
	}
	return registry, ids, controllers
}

func TestSessionRegistry_RefreshAffected(t *testing.T) {
	registry, ids, controllers := newScopedRegistry(
		domain.GlobalScope(),
		domain.LandlordScope(1),
		domain.LandlordScope(2),
		domain.LandlordScope(1),
	)

	event := domain.MutationEvent{Kind: domain.MutationEdit, PropertyID: 9, LandlordID: 1, SessionID: ids[3]}
	assert.Equal(t, 2, registry.RefreshAffected(context.Background(), event))

	assert.Equal(t, 1, controllers[0].refreshes)
	assert.Equal(t, 1, controllers[1].refreshes)
	assert.Zero(t, controllers[2].refreshes, "other landlord")
	assert.Zero(t, controllers[3].refreshes, "originating session")
}

func TestSessionRegistry_RefreshAffectedCountsFailures(t *testing.T) {
	registry, _, controllers := newScopedRegistry(domain.GlobalScope(), domain.GlobalScope())
	controllers[1].err = errors.New("catalog unavailable")

	got := registry.RefreshAffected(context.Background(), domain.MutationEvent{Kind: domain.MutationDelete, PropertyID: 1})
	assert.Equal(t, 1, got)
	assert.Equal(t, 1, controllers[1].refreshes)
}

func TestSessionRegistry_EvictIdle(t *testing.T) {
	var removed []string
	registry := NewSessionRegistry(func(string, int) SessionController {
		return &scopedController{}
	}, time.Minute, func(id string) { removed = append(removed, id) })

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	registry.now = func() time.Time { return now }

	stale, _ := registry.Create(6)
	now = now.Add(45 * time.Second)
	fresh, _ := registry.Create(6)
	now = now.Add(30 * time.Second)

	assert.Equal(t, []string{stale}, registry.EvictIdle())
	assert.Equal(t, []string{stale}, removed)

	_, ok := registry.Get(fresh)
	require.True(t, ok)
	assert.Equal(t, 1, registry.Len())
}
