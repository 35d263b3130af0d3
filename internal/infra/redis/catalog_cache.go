package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/domain"
	"github.com/razmataz100/maxs-music-quiz-frontend/internal/infra/memory"
)

// CatalogCache caches catalog reads as JSON in Redis, shared by every client
// process pointed at the same instance. Misses fall through to the upstream
// source (the REST client), collapsed per key.
type CatalogCache struct {
	client *redis.Client
	source memory.CatalogSource
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalogCache(client *redis.Client, source memory.CatalogSource, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CatalogCache) Games(ctx context.Context, userID int) ([]domain.Game, error) {
	key := fmt.Sprintf("mmq:catalog:games:%d", userID)
	var games []domain.Game
	err := c.cached(ctx, key, &games, func() (any, error) {
		return c.source.Games(ctx, userID)
	})
	return games, err
}

func (c *CatalogCache) Leaderboard(ctx context.Context, board string, limit, offset int) ([]domain.LeaderboardEntry, error) {
	key := fmt.Sprintf("mmq:catalog:leaderboard:%s:%d:%d", board, limit, offset)
	var entries []domain.LeaderboardEntry
	err := c.cached(ctx, key, &entries, func() (any, error) {
		return c.source.Leaderboard(ctx, board, limit, offset)
	})
	return entries, err
}

func (c *CatalogCache) cached(ctx context.Context, key string, out any, load func() (any, error)) error {
	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		return json.Unmarshal(data, out)
	} else if !errors.Is(err, redis.Nil) {
		// Redis being down should degrade to upstream reads, not break browsing.
		fresh, lerr := load()
		if lerr != nil {
			return lerr
		}
		return recode(fresh, out)
	}

	fresh, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another goroutine filled the key.
		if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
			return data, nil
		}

		value, err := load()
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		return data, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(fresh.([]byte), out)
}

// recode round-trips a value through JSON into the caller's slice type.
func recode(value, out any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
