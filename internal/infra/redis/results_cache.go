package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"quizboard/internal/domain"
)

// ResultsCache is a Redis-backed implementation of app.ResultsCache. Ranked
// leaderboards are stored as JSON under a short TTL matching the client poll
// interval, so repeated polls within one interval share a single computation
// across instances. Failures degrade to a cache miss; the leaderboard is then
// recomputed from the stores.
type ResultsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultsCache(client *redis.Client, ttl time.Duration) *ResultsCache {
	return &ResultsCache{client: client, ttl: ttl}
}

func (c *ResultsCache) Get(ctx context.Context, quizID string) ([]domain.LeaderboardEntry, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	data, err := c.client.Get(ctx, c.key(quizID)).Bytes()
	if err != nil {
		return nil, false
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (c *ResultsCache) Set(ctx context.Context, quizID string, entries []domain.LeaderboardEntry) {
	if c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.key(quizID), data, c.ttl).Err()
}

func (c *ResultsCache) key(quizID string) string {
	return "quiz:results:" + quizID
}
