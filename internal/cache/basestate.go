package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/metrics"
	"github.com/CT-12/Sports-Season-Simulation/internal/models"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultKeyPrefix prefixes every base-state key; the season is appended
	DefaultKeyPrefix = "mlb_players_base_state_"
	// DefaultTTL is how long a base state stays cached
	DefaultTTL = time.Hour
)

// StateLoader builds a season's base state from the statistics store
type StateLoader interface {
	Snapshot(ctx context.Context, season int) (models.SimulationState, error)
}

// StateLoaderFunc adapts a function to StateLoader
type StateLoaderFunc func(ctx context.Context, season int) (models.SimulationState, error)

// Snapshot implements StateLoader
func (f StateLoaderFunc) Snapshot(ctx context.Context, season int) (models.SimulationState, error) {
	return f(ctx, season)
}

// Info describes the cached base state of one season
type Info struct {
	Season        int    `json:"season"`
	CacheKey      string `json:"cache_key"`
	IsCached      bool   `json:"is_cached"`
	CachedTeams   int    `json:"cached_teams"`
	CachedPlayers int    `json:"cached_players"`
	TTLSeconds    int    `json:"cache_ttl"`
}

// BaseStateCache loads each season's roster snapshot once and serves it until
// it expires or is invalidated. Concurrent refreshes of the same season are
// not coordinated; the last write wins.
type BaseStateCache struct {
	store  Store
	loader StateLoader
	ttl    time.Duration
	prefix string
}

// NewBaseStateCache returns a cache over store. Zero ttl and empty prefix take
// the defaults.
func NewBaseStateCache(store Store, loader StateLoader, ttl time.Duration, prefix string) *BaseStateCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &BaseStateCache{
		store:  store,
		loader: loader,
		ttl:    ttl,
		prefix: prefix,
	}
}

// Key returns the cache key of a season
func (c *BaseStateCache) Key(season int) string {
	return fmt.Sprintf("%s%d", c.prefix, season)
}

// TTL returns the configured expiry
func (c *BaseStateCache) TTL() time.Duration {
	return c.ttl
}

// Fetch returns the season's base state and whether it came from the cache.
// forceRefresh skips the lookup and reloads from the loader. A store read
// failure is logged and treated as a miss.
func (c *BaseStateCache) Fetch(ctx context.Context, season int, forceRefresh bool) (models.SimulationState, bool, error) {
	key := c.Key(season)

	if !forceRefresh {
		var state models.SimulationState
		ok, err := c.store.Get(ctx, key, &state)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Base state cache read failed")
			metrics.RecordError("cache", "read")
		}
		if ok && len(state) > 0 {
			metrics.RecordCacheHit()
			log.Debug().Int("season", season).Int("teams", state.TeamCount()).Msg("Base state served from cache")
			return state, true, nil
		}
	}
	metrics.RecordCacheMiss()

	state, err := c.loader.Snapshot(ctx, season)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load base state for season %d: %w", season, err)
	}

	if err := c.store.Set(ctx, key, state, c.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache base state")
		metrics.RecordError("cache", "write")
	} else {
		log.Info().
			Int("season", season).
			Int("teams", state.TeamCount()).
			Int("players", state.PlayerCount()).
			Dur("ttl", c.ttl).
			Msg("Base state cached")
	}

	return state, false, nil
}

// Invalidate drops one season's cached state
func (c *BaseStateCache) Invalidate(ctx context.Context, season int) error {
	if err := c.store.Delete(ctx, c.Key(season)); err != nil {
		return fmt.Errorf("failed to invalidate season %d: %w", season, err)
	}
	log.Info().Int("season", season).Msg("Invalidated base state cache")
	return nil
}

// InvalidateAll drops every cached season and returns how many were removed
func (c *BaseStateCache) InvalidateAll(ctx context.Context) (int, error) {
	n, err := c.store.DeletePrefix(ctx, c.prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate base states: %w", err)
	}
	log.Info().Int("removed", n).Msg("Invalidated all base state caches")
	return n, nil
}

// Info reports what is cached for a season without loading it
func (c *BaseStateCache) Info(ctx context.Context, season int) (Info, error) {
	key := c.Key(season)
	info := Info{
		Season:     season,
		CacheKey:   key,
		TTLSeconds: int(c.ttl / time.Second),
	}

	var state models.SimulationState
	ok, err := c.store.Get(ctx, key, &state)
	if err != nil {
		return info, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if ok {
		info.IsCached = true
		info.CachedTeams = state.TeamCount()
		info.CachedPlayers = state.PlayerCount()
	}
	return info, nil
}
