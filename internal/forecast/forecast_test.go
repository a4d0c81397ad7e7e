package forecast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/apperrors"
	"github.com/CT-12/Sports-Season-Simulation/internal/matchup"
	"github.com/CT-12/Sports-Season-Simulation/internal/models"
	"github.com/CT-12/Sports-Season-Simulation/internal/projection"
	"github.com/CT-12/Sports-Season-Simulation/internal/pythag"
	"github.com/CT-12/Sports-Season-Simulation/internal/simulator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	teams   []models.Team
	aggs    map[int]models.SeasonAggregate
	aggErr  error
	ratings map[int]string
}

func (f *fakeStore) List(_ context.Context, _ int) ([]models.Team, error) {
	return f.teams, nil
}

func (f *fakeStore) SeasonAggregates(_ context.Context, _ int) (map[int]models.SeasonAggregate, error) {
	return f.aggs, f.aggErr
}

func (f *fakeStore) Latest(_ context.Context, teamID int, _ time.Time, _ *int) (*models.RatingEntry, error) {
	r, ok := f.ratings[teamID]
	if !ok {
		return nil, apperrors.NewEloUnavailable("rating")
	}
	return &models.RatingEntry{TeamID: teamID, Rating: decimal.RequireFromString(r)}, nil
}

func newStore() *fakeStore {
	return &fakeStore{
		teams: []models.Team{
			{TeamID: 147, Name: "New York Yankees", Season: 2024},
			{TeamID: 111, Name: "Boston Red Sox", Season: 2024},
			{TeamID: 119, Name: "Los Angeles Dodgers", Season: 2024},
			{TeamID: 999, Name: "Montreal Expos", Season: 2024},
		},
		aggs: map[int]models.SeasonAggregate{
			147: {TeamID: 147, RunsScored: 815, RunsAllowed: 668, GamesPlayed: 162},
			111: {TeamID: 111, RunsScored: 600, RunsAllowed: 760, GamesPlayed: 162},
		},
		ratings: map[int]string{
			147: "1600",
			119: "1550",
		},
	}
}

func newForecaster(store *fakeStore) *Forecaster {
	predictor := projection.NewPredictor(projection.DefaultWeight, projection.DefaultLeagueAvgRuns, pythag.DefaultExponent)
	sim := simulator.New(simulator.Options{Trials: 400, Seed: 2024})
	return NewForecaster(store, store, store, predictor, sim)
}

func TestRun_Pythagorean(t *testing.T) {
	f := newForecaster(newStore())

	res, err := f.Run(context.Background(), 2024, matchup.MethodPythagorean, simulator.ModeScheduled)
	require.NoError(t, err)

	assert.Equal(t, 2025, res.TargetSeason)
	assert.Equal(t, 400, res.Trials)
	assert.Equal(t, int64(2024), res.Seed)
	assert.Equal(t, []string{"Los Angeles Dodgers"}, res.Fallbacks)

	names := res.Names()
	assert.Equal(t, []string{"New York Yankees", "Boston Red Sox"}, names["AL"])
	assert.Equal(t, []string{"Los Angeles Dodgers"}, names["NL"], "unaligned teams are not simulated")

	assert.Equal(t, 1, res.AL[0].Rank)
	assert.Equal(t, 2, res.AL[1].Rank)
	assert.Equal(t, 0.5, res.NL[0].Rating)
	// division rivals meet 13 times, interleague opponents 3
	games := map[string]float64{"New York Yankees": 16, "Boston Red Sox": 16, "Los Angeles Dodgers": 6}
	for _, s := range append(res.AL, res.NL...) {
		assert.InDelta(t, games[s.Team], s.AvgWins+s.AvgLosses, 1e-9, s.Team)
	}
}

func TestRun_EloUsesRegressedRatings(t *testing.T) {
	f := newForecaster(newStore())

	res, err := f.Run(context.Background(), 2024, matchup.MethodElo, simulator.ModeIndependent)
	require.NoError(t, err)

	assert.Equal(t, simulator.ModeIndependent, res.Mode)
	assert.Equal(t, []string{"Boston Red Sox"}, res.Fallbacks)

	ratings := map[string]float64{}
	for _, s := range append(res.AL, res.NL...) {
		ratings[s.Team] = s.Rating
		assert.InDelta(t, 162, s.AvgWins+s.AvgLosses, 1e-9)
	}
	assert.Equal(t, 1575.0, ratings["New York Yankees"])
	assert.Equal(t, 1537.5, ratings["Los Angeles Dodgers"])
	assert.Equal(t, 1500.0, ratings["Boston Red Sox"])
	assert.Equal(t, "New York Yankees", res.AL[0].Team)
}

func TestRun_MissingAggregatesFallBack(t *testing.T) {
	store := newStore()
	store.aggs = nil
	store.aggErr = &apperrors.DataUnavailableError{Resource: "game results"}

	res, err := newForecaster(store).Run(context.Background(), 2024, matchup.MethodPythagorean, simulator.ModeScheduled)

	require.NoError(t, err)
	assert.Len(t, res.Fallbacks, 3)
}

func TestRun_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := newForecaster(newStore()).Run(ctx, 0, matchup.MethodElo, simulator.ModeScheduled)
	assert.True(t, apperrors.IsValidation(err))

	_, err = newForecaster(newStore()).Run(ctx, 2024, matchup.Method("WAR"), simulator.ModeScheduled)
	assert.True(t, apperrors.IsValidation(err))

	empty := newStore()
	empty.teams = []models.Team{{TeamID: 999, Name: "Montreal Expos"}}
	_, err = newForecaster(empty).Run(ctx, 2024, matchup.MethodElo, simulator.ModeScheduled)
	assert.True(t, apperrors.IsDataUnavailable(err))

	boom := errors.New("statement timeout")
	broken := newStore()
	broken.aggErr = boom
	_, err = newForecaster(broken).Run(ctx, 2024, matchup.MethodPythagorean, simulator.ModeScheduled)
	assert.ErrorIs(t, err, boom)
}

func TestMeanRating(t *testing.T) {
	assert.Equal(t, 1500.0, meanRating(nil))
	assert.Equal(t, 1550.0, meanRating(map[string]float64{"a": 1500, "b": 1600}))
}
