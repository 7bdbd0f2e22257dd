package memory

import (
	"context"
	"sync"
	"time"

	"quizboard/internal/domain"
)

// ResultsCache is an in-memory implementation of app.ResultsCache. Entries
// expire after the configured TTL, which should match the client poll
// interval; a zero TTL disables caching entirely.
type ResultsCache struct {
	ttl   time.Duration
	clock func() time.Time

	mu      sync.RWMutex
	entries map[string]cachedResults
}

type cachedResults struct {
	entries   []domain.LeaderboardEntry
	expiresAt time.Time
}

func NewResultsCache(ttl time.Duration) *ResultsCache {
	return &ResultsCache{
		ttl:     ttl,
		clock:   time.Now,
		entries: make(map[string]cachedResults),
	}
}

func (c *ResultsCache) Get(_ context.Context, quizID string) ([]domain.LeaderboardEntry, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	cached, ok := c.entries[quizID]
	if !ok || !cached.expiresAt.After(c.clock()) {
		return nil, false
	}
	return cached.entries, true
}

func (c *ResultsCache) Set(_ context.Context, quizID string, entries []domain.LeaderboardEntry) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[quizID] = cachedResults{
		entries:   entries,
		expiresAt: c.clock().Add(c.ttl),
	}
}
