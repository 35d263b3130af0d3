package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/domain"
)

// CatalogSource is the upstream for browsable content: the game list and the
// leaderboards. In production this is the REST client.
type CatalogSource interface {
	Games(ctx context.Context, userID int) ([]domain.Game, error)
	Leaderboard(ctx context.Context, board string, limit, offset int) ([]domain.LeaderboardEntry, error)
}

// CatalogCache caches catalog reads with TTL to avoid hammering the backend
// every time the user flips between screens. Concurrent misses for the same
// key collapse into one upstream call.
type CatalogCache struct {
	source CatalogSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedEntry
}

type cachedEntry struct {
	value     any
	expiresAt time.Time
}

func NewCatalogCache(source CatalogSource, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedEntry),
	}
}

func (c *CatalogCache) Games(ctx context.Context, userID int) ([]domain.Game, error) {
	value, err := c.cached(fmt.Sprintf("games:%d", userID), func() (any, error) {
		return c.source.Games(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return value.([]domain.Game), nil
}

func (c *CatalogCache) Leaderboard(ctx context.Context, board string, limit, offset int) ([]domain.LeaderboardEntry, error) {
	key := fmt.Sprintf("leaderboard:%s:%d:%d", board, limit, offset)
	value, err := c.cached(key, func() (any, error) {
		return c.source.Leaderboard(ctx, board, limit, offset)
	})
	if err != nil {
		return nil, err
	}
	return value.([]domain.LeaderboardEntry), nil
}

// Invalidate drops every cached entry, e.g. after the user finishes a game
// and the boards are known to be stale.
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cachedEntry)
}

func (c *CatalogCache) cached(key string, load func() (any, error)) (any, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.value, nil
	}
	c.mu.RUnlock()

	value, err, _ := c.sf.Do(key, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.value, nil
		}
		c.mu.RUnlock()

		fresh, err := load()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[key] = cachedEntry{
			value:     fresh,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
