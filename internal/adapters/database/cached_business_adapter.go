package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bizlink/directory-backend/internal/domain/entities"
	"github.com/bizlink/directory-backend/internal/domain/providers"
	"github.com/bizlink/directory-backend/internal/domain/repositories"
	"github.com/bizlink/directory-backend/internal/infrastructure/observability"
	"github.com/bizlink/directory-backend/pkg/debounce"
)

// Cache TTLs
const (
	businessByIDTTL = 5 * time.Minute
	businessListTTL = 3 * time.Minute
)

const businessListCacheKey = "businesses:all"

// quiet period before rewarming the list cache after a write burst
const listRewarmDelay = 2 * time.Second

func businessCacheKey(id string) string {
	return fmt.Sprintf("business:%s", id)
}

// CachedBusinessAdapter wraps a BusinessRepository with read-through caching
// for the two hot paths: the full directory list (which the search engine
// consumes on every query) and single-business lookups. Writes invalidate.
type CachedBusinessAdapter struct {
	adapter repositories.BusinessRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
	rewarm  *debounce.Debouncer
}

// NewCachedBusinessAdapter creates a new cached business adapter
func NewCachedBusinessAdapter(adapter repositories.BusinessRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.BusinessRepository {
	return &CachedBusinessAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
		rewarm:  debounce.New(listRewarmDelay),
	}
}

// GetByID retrieves a business by ID with caching
func (a *CachedBusinessAdapter) GetByID(ctx context.Context, id string) (*entities.Business, error) {
	cacheKey := businessCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var business entities.Business
		unmarshalErr := json.Unmarshal(cached, &business)
		if unmarshalErr == nil {
			a.recordHit(ctx, "business")
			return &business, nil
		}
		log.Warn().Str("id", id).Err(unmarshalErr).Msg("discarding malformed cached business")
	}
	a.recordMiss(ctx, "business")

	business, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.store(cacheKey, business, businessByIDTTL)
	return business, nil
}

// GetAll retrieves the full directory with caching
func (a *CachedBusinessAdapter) GetAll(ctx context.Context) ([]*entities.Business, error) {
	if cached, err := a.cache.Get(ctx, businessListCacheKey); err == nil {
		var businesses []*entities.Business
		unmarshalErr := json.Unmarshal(cached, &businesses)
		if unmarshalErr == nil {
			a.recordHit(ctx, "businesses:all")
			return businesses, nil
		}
		log.Warn().Err(unmarshalErr).Msg("discarding malformed cached business list")
	}
	a.recordMiss(ctx, "businesses:all")

	businesses, err := a.adapter.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	a.store(businessListCacheKey, businesses, businessListTTL)
	return businesses, nil
}

// GetByCity delegates to the underlying adapter; city subsets are cheap
// relative to the full list and not worth separate cache entries.
func (a *CachedBusinessAdapter) GetByCity(ctx context.Context, city string) ([]*entities.Business, error) {
	return a.adapter.GetByCity(ctx, city)
}

// GetByCategory delegates to the underlying adapter
func (a *CachedBusinessAdapter) GetByCategory(ctx context.Context, category string) ([]*entities.Business, error) {
	return a.adapter.GetByCategory(ctx, category)
}

// GetRecent delegates to the underlying adapter
func (a *CachedBusinessAdapter) GetRecent(ctx context.Context, limit int) ([]*entities.Business, error) {
	return a.adapter.GetRecent(ctx, limit)
}

// Create writes through and invalidates the list cache
func (a *CachedBusinessAdapter) Create(ctx context.Context, business *entities.Business) error {
	if err := a.adapter.Create(ctx, business); err != nil {
		return err
	}
	a.invalidate(ctx, businessListCacheKey)
	a.scheduleListRewarm()
	return nil
}

// Update writes through and invalidates both cache entries
func (a *CachedBusinessAdapter) Update(ctx context.Context, business *entities.Business) error {
	if err := a.adapter.Update(ctx, business); err != nil {
		return err
	}
	a.invalidate(ctx, businessCacheKey(business.ID), businessListCacheKey)
	a.scheduleListRewarm()
	return nil
}

// Delete writes through and invalidates both cache entries
func (a *CachedBusinessAdapter) Delete(ctx context.Context, id string) error {
	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}
	a.invalidate(ctx, businessCacheKey(id), businessListCacheKey)
	a.scheduleListRewarm()
	return nil
}

// scheduleListRewarm repopulates the list cache once a write burst settles,
// so a bulk import invalidates once instead of rewarming per row.
func (a *CachedBusinessAdapter) scheduleListRewarm() {
	a.rewarm.Trigger(func() {
		businesses, err := a.adapter.GetAll(context.Background())
		if err != nil {
			log.Warn().Err(err).Msg("failed to rewarm business list cache")
			return
		}
		a.store(businessListCacheKey, businesses, businessListTTL)
	})
}

// store updates the cache off the request path
func (a *CachedBusinessAdapter) store(key string, value any, ttl time.Duration) {
	go func() {
		data, err := json.Marshal(value)
		if err != nil {
			return
		}
		if err := a.cache.Set(context.Background(), key, data, ttl); err != nil {
			log.Warn().Str("key", key).Err(err).Msg("failed to cache entry")
		}
	}()
}

func (a *CachedBusinessAdapter) invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := a.cache.Delete(ctx, key); err != nil {
			log.Warn().Str("key", key).Err(err).Msg("failed to invalidate cache entry")
		}
	}
}

func (a *CachedBusinessAdapter) recordHit(ctx context.Context, key string) {
	if a.metrics != nil {
		observability.RecordCacheHit(ctx, a.metrics, key)
	}
}

func (a *CachedBusinessAdapter) recordMiss(ctx context.Context, key string) {
	if a.metrics != nil {
		observability.RecordCacheMiss(ctx, a.metrics, key)
	}
}
