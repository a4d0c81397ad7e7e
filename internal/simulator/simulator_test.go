package simulator

import (
	"context"
	"testing"

	"github.com/CT-12/Sports-Season-Simulation/internal/apperrors"
	"github.com/CT-12/Sports-Season-Simulation/internal/league"
	"github.com/CT-12/Sports-Season-Simulation/internal/pythag"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stronger wins every game; equal ratings are a coin flip
func deterministic(ra, rb float64) float64 {
	switch {
	case ra > rb:
		return 1
	case ra < rb:
		return 0
	default:
		return 0.5
	}
}

// ratings are taken as win probabilities against the average
func asProbability(ra, _ float64) float64 {
	return ra
}

func TestBuildSchedule(t *testing.T) {
	teams := []string{"New York Yankees", "Boston Red Sox", "Los Angeles Dodgers", "Montreal Expos"}

	schedule := BuildSchedule(teams, DefaultScheduleWeights())

	require.Len(t, schedule, 13+3+3)
	games := GamesPerTeam(schedule)
	assert.Equal(t, 16, games["New York Yankees"])
	assert.Equal(t, 6, games["Los Angeles Dodgers"])
	assert.Zero(t, games["Montreal Expos"])
	for _, g := range schedule {
		assert.NotEqual(t, g.TeamA, g.TeamB)
	}
}

func TestBuildSchedule_FullLeague(t *testing.T) {
	schedule := BuildSchedule(league.Teams(), DefaultScheduleWeights())

	assert.Len(t, schedule, 30*157/2)
	for team, n := range GamesPerTeam(schedule) {
		assert.Equal(t, 157, n, team)
	}
}

func TestRunScheduled_Deterministic(t *testing.T) {
	sim := New(Options{Trials: 50, Seed: 7})

	res, err := sim.RunScheduled(context.Background(), map[string]float64{
		"New York Yankees": 2,
		"Boston Red Sox":   1,
	}, deterministic)

	require.NoError(t, err)
	require.Len(t, res.Teams, 2)
	assert.Equal(t, "New York Yankees", res.Teams[0].Team)
	assert.Equal(t, 13.0, res.Teams[0].AvgWins)
	assert.Equal(t, 0.0, res.Teams[1].AvgWins)
	assert.Equal(t, 13.0, res.Teams[1].AvgLosses)
	assert.Equal(t, ModeScheduled, res.Mode)
	assert.Equal(t, int64(7), res.Seed)
}

func TestRunScheduled_ConservesWins(t *testing.T) {
	ratings := map[string]float64{}
	for i, team := range league.Teams() {
		ratings[team] = 0.4 + float64(i%5)*0.05
	}
	sim := New(Options{Trials: 200, Seed: 42})

	res, err := sim.RunScheduled(context.Background(), ratings, func(a, b float64) float64 {
		return a / (a + b)
	})

	require.NoError(t, err)
	total := 0.0
	for i, tr := range res.Teams {
		total += tr.AvgWins
		if i > 0 {
			assert.GreaterOrEqual(t, res.Teams[i-1].AvgWins, tr.AvgWins)
		}
	}
	assert.InDelta(t, float64(30*157/2), total, 1e-6)
}

func TestRunScheduled_ReproducibleAcrossWorkerCounts(t *testing.T) {
	ratings := map[string]float64{
		"New York Yankees":    0.58,
		"Boston Red Sox":      0.51,
		"Tampa Bay Rays":      0.49,
		"Los Angeles Dodgers": 0.60,
	}
	prob := func(a, b float64) float64 { return a / (a + b) }

	one, err := New(Options{Trials: 300, Seed: 99, Workers: 1}).RunScheduled(context.Background(), ratings, prob)
	require.NoError(t, err)
	many, err := New(Options{Trials: 300, Seed: 99, Workers: 8}).RunScheduled(context.Background(), ratings, prob)
	require.NoError(t, err)

	assert.Equal(t, one.Teams, many.Teams)
	assert.NotEqual(t, one.RunID, many.RunID)
}

func TestRunIndependent(t *testing.T) {
	sim := New(Options{Trials: 1000, Seed: 3})

	res, err := sim.RunIndependent(context.Background(), map[string]float64{
		"Always": 1,
		"Never":  0,
		"Coin":   0.5,
	}, asProbability, 0.5)

	require.NoError(t, err)
	require.Len(t, res.Teams, 3)
	assert.Equal(t, "Always", res.Teams[0].Team)
	assert.Equal(t, 162.0, res.Teams[0].AvgWins)
	assert.Equal(t, "Coin", res.Teams[1].Team)
	assert.InDelta(t, 81, res.Teams[1].AvgWins, 2)
	assert.Equal(t, 0.0, res.Teams[2].AvgWins)
	assert.Equal(t, 162, res.Teams[2].Games)
}

func TestRunIndependent_ConvergesToProbability(t *testing.T) {
	sim := New(Options{Trials: 100000, Seed: 7})

	res, err := sim.RunIndependent(context.Background(), map[string]float64{
		"New York Yankees": 0.6,
	}, func(_, _ float64) float64 { return 0.6 }, 0.5)

	require.NoError(t, err)
	require.Len(t, res.Teams, 1)
	team := res.Teams[0]
	require.Equal(t, 162, team.Games)
	assert.InDelta(t, 0.6, team.AvgWins/float64(team.Games), 0.01)
}

func TestRunIndependent_TiesSortByName(t *testing.T) {
	sim := New(Options{Trials: 10, Seed: 1})

	res, err := sim.RunIndependent(context.Background(), map[string]float64{
		"Texas Rangers":  0,
		"Atlanta Braves": 0,
	}, asProbability, 0.5)

	require.NoError(t, err)
	assert.Equal(t, "Atlanta Braves", res.Teams[0].Team)
	assert.Equal(t, "Texas Rangers", res.Teams[1].Team)
}

func TestRun_Errors(t *testing.T) {
	sim := New(Options{Trials: 10, Seed: 1})

	_, err := sim.Run(context.Background(), ModeScheduled, nil, deterministic, 0)
	assert.True(t, apperrors.IsValidation(err))

	_, err = sim.Run(context.Background(), Mode("bogus"), map[string]float64{"a": 1}, deterministic, 0)
	assert.True(t, apperrors.IsValidation(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sim.RunIndependent(ctx, map[string]float64{"a": 0.5}, asProbability, 0.5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeScheduled, m)

	m, err = ParseMode("Independent")
	require.NoError(t, err)
	assert.Equal(t, ModeIndependent, m)

	_, err = ParseMode("playoffs")
	assert.True(t, apperrors.IsValidation(err))
}

func TestSeasonSeries(t *testing.T) {
	sim := New(Options{Trials: 500, Seed: 11})

	sure := sim.SeasonSeries(1, 0)
	assert.Equal(t, 162.0, sure.AvgWinsA)
	assert.Equal(t, 0.0, sure.AvgWinsB)
	assert.Equal(t, 100.0, sure.ABetterPercent)

	even := sim.SeasonSeries(0.5, 162)
	assert.InDelta(t, 81, even.AvgWinsA, 2)
	assert.InDelta(t, 162, even.AvgWinsA+even.AvgWinsB, 0.002)
}

func TestSeasonSeries_ConvergesToProbability(t *testing.T) {
	sim := New(Options{Trials: 100000, Seed: 7})

	// a short series keeps the average well below one decimal of precision
	res := sim.SeasonSeries(0.647, 10)

	assert.InDelta(t, 0.647, res.AvgWinsA/10, 0.01)
	assert.InDelta(t, 10, res.AvgWinsA+res.AvgWinsB, 0.002)
}

func TestRatingInterval(t *testing.T) {
	sim := New(Options{Trials: 2000, Seed: 5})
	calc := pythag.NewCalculator(pythag.DefaultExponent)

	none := sim.RatingInterval(calc, 0, 0, 0, 0)
	assert.Equal(t, 50.0, none.Rating)
	assert.Equal(t, none.Lower, none.Upper)

	iv := sim.RatingInterval(calc, 600, 500, 162, 0)
	assert.InDelta(t, 58.26, iv.Rating, 1.5)
	assert.Greater(t, iv.StdDev, 0.0)
	assert.Less(t, iv.Lower, iv.Rating)
	assert.Greater(t, iv.Upper, iv.Rating)
	assert.LessOrEqual(t, iv.EmpiricalLow, iv.EmpiricalHi)
}
