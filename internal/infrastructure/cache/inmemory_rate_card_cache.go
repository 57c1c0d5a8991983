package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	appbilling "github.com/wms/backend/internal/application/billing"
	"github.com/wms/backend/internal/domain/billing"
)

// InMemoryRateCardCache is a process-local RateCardCache for single-instance
// deployments and tests. Entries expire lazily on read.
type InMemoryRateCardCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]inMemoryEntry
	ttl     time.Duration
}

type inMemoryEntry struct {
	card      billing.RateCard
	expiresAt time.Time
}

// NewInMemoryRateCardCache creates an in-memory cache with the given TTL
func NewInMemoryRateCardCache(ttl time.Duration) *InMemoryRateCardCache {
	return &InMemoryRateCardCache{
		entries: make(map[uuid.UUID]inMemoryEntry),
		ttl:     ttl,
	}
}

// Get returns the cached rate card, or (nil, nil) on a miss or expiry
func (c *InMemoryRateCardCache) Get(ctx context.Context, warehouseID uuid.UUID) (billing.RateCard, error) {
	c.mu.RLock()
	entry, ok := c.entries[warehouseID]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, warehouseID)
		c.mu.Unlock()
		return nil, nil
	}
	return entry.card, nil
}

// Set stores the rate card
func (c *InMemoryRateCardCache) Set(ctx context.Context, warehouseID uuid.UUID, card billing.RateCard) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[warehouseID] = inMemoryEntry{
		card:      card,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Invalidate drops the cached rate card for a warehouse
func (c *InMemoryRateCardCache) Invalidate(ctx context.Context, warehouseID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, warehouseID)
	return nil
}

// Ensure InMemoryRateCardCache implements RateCardCache
var _ appbilling.RateCardCache = (*InMemoryRateCardCache)(nil)
