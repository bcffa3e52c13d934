package images

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// selectableKey holds the cached JSON blob of the selectable image list.
const selectableKey = "gallery:selectable"

// RedisCmdable is the subset of redis.Client commands the cache uses.
type RedisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedStore wraps a Store with a redis read-through cache for the
// selectable image list. Rating writes invalidate the cached list so a
// freshly voted score is visible on the next selection. Cache failures are
// never fatal; the wrapped store is the source of truth.
type CachedStore struct {
	Store
	rdb RedisCmdable
	ttl time.Duration
}

func NewCachedStore(store Store, rdb RedisCmdable, ttl time.Duration) *CachedStore {
	return &CachedStore{Store: store, rdb: rdb, ttl: ttl}
}

func (s *CachedStore) ListSelectable() ([]Image, error) {
	ctx := context.Background()

	data, err := s.rdb.Get(ctx, selectableKey).Bytes()
	if err == nil {
		var imgs []Image
		if err := json.Unmarshal(data, &imgs); err == nil {
			logger.Debug().Msgf("serving %d selectable images from cache", len(imgs))
			return imgs, nil
		}
		logger.Debug().Msg("discarding unreadable cached selectable list")
	} else if err != redis.Nil {
		logger.Debug().Msgf("redis read failed, falling back to store: %v", err)
	}

	imgs, err := s.Store.ListSelectable()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(imgs); err == nil {
		if err := s.rdb.Set(ctx, selectableKey, data, s.ttl).Err(); err != nil {
			logger.Debug().Msgf("failed to cache selectable list: %v", err)
		}
	}

	return imgs, nil
}

func (s *CachedStore) UpdateRatingFields(id string, fields RatingFields) error {
	if err := s.Store.UpdateRatingFields(id, fields); err != nil {
		return err
	}

	if err := s.rdb.Del(context.Background(), selectableKey).Err(); err != nil {
		logger.Debug().Msgf("failed to invalidate selectable cache: %v", err)
	}
	return nil
}
