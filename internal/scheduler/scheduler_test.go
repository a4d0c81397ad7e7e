package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/cache"
	"github.com/CT-12/Sports-Season-Simulation/internal/config"
	"github.com/CT-12/Sports-Season-Simulation/internal/models"
	"github.com/CT-12/Sports-Season-Simulation/internal/precompute"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecomputer struct {
	opts  precompute.Options
	calls int
	err   error
}

func (f *fakeRecomputer) Run(_ context.Context, opts precompute.Options) (*precompute.Summary, error) {
	f.calls++
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return &precompute.Summary{RunID: uuid.New(), RatingsUpserted: 10}, nil
}

// brokenStore fails every operation
type brokenStore struct{ err error }

func (b brokenStore) Get(context.Context, string, interface{}) (bool, error) {
	return false, b.err
}

func (b brokenStore) Set(context.Context, string, interface{}, time.Duration) error {
	return b.err
}

func (b brokenStore) Delete(context.Context, ...string) error {
	return b.err
}

func (b brokenStore) DeletePrefix(context.Context, string) (int, error) {
	return 0, b.err
}

func loadState(context.Context, int) (models.SimulationState, error) {
	return models.SimulationState{
		"Boston Red Sox": {{PlayerID: 3, Name: "Rafael Devers", PositionType: "Infielder"}},
	}, nil
}

// warmCache returns a base-state cache holding one season
func warmCache(t *testing.T) (*cache.BaseStateCache, *cache.MemoryStore) {
	t.Helper()
	store := cache.NewMemoryStore()
	c := cache.NewBaseStateCache(store, cache.StateLoaderFunc(loadState), time.Hour, "")
	_, _, err := c.Fetch(context.Background(), 2025, false)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())
	return c, store
}

func testConfig() *config.Config {
	return &config.Config{
		EloRecomputeCron: "0 4 * * *",
		EloStartSeason:   2015,
		EloEndSeason:     2025,
	}
}

func TestRecomputeElo_InvalidatesCache(t *testing.T) {
	rec := &fakeRecomputer{}
	c, store := warmCache(t)
	s := NewScheduler(testConfig(), rec, c)

	require.NoError(t, s.RecomputeElo(context.Background()))

	assert.Equal(t, precompute.Options{StartSeason: 2015, EndSeason: 2025}, rec.opts)
	assert.Zero(t, store.Len())

	at, err := s.LastRun()
	assert.False(t, at.IsZero())
	assert.NoError(t, err)
}

func TestRecomputeElo_FailureKeepsCache(t *testing.T) {
	boom := errors.New("connection refused")
	c, store := warmCache(t)
	s := NewScheduler(testConfig(), &fakeRecomputer{err: boom}, c)

	err := s.RecomputeElo(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, store.Len())

	_, last := s.LastRun()
	assert.ErrorIs(t, last, boom)
}

func TestRecomputeElo_CacheErrorIsNotFatal(t *testing.T) {
	broken := cache.NewBaseStateCache(brokenStore{err: errors.New("redis down")},
		cache.StateLoaderFunc(loadState), time.Hour, "")
	s := NewScheduler(testConfig(), &fakeRecomputer{}, broken)
	assert.NoError(t, s.RecomputeElo(context.Background()))

	s = NewScheduler(testConfig(), &fakeRecomputer{}, nil)
	assert.NoError(t, s.RecomputeElo(context.Background()))
}

func TestRecomputeElo_TypedNilCache(t *testing.T) {
	var none *cache.BaseStateCache
	s := NewScheduler(testConfig(), &fakeRecomputer{}, none)

	assert.NotPanics(t, func() {
		assert.NoError(t, s.RecomputeElo(context.Background()))
	})
}

func TestStart_InvalidCron(t *testing.T) {
	cfg := testConfig()
	cfg.EloRecomputeCron = "every night"

	s := NewScheduler(cfg, &fakeRecomputer{}, nil)
	assert.Error(t, s.Start(context.Background()))
}

func TestStartStop(t *testing.T) {
	rec := &fakeRecomputer{}
	s := NewScheduler(testConfig(), rec, nil)

	require.NoError(t, s.Start(context.Background()))
	s.Stop()
	assert.Zero(t, rec.calls)
}
