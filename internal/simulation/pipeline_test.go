package simulation

import (
	"context"
	"errors"
	"testing"

	"github.com/CT-12/Sports-Season-Simulation/internal/apperrors"
	"github.com/CT-12/Sports-Season-Simulation/internal/models"
	"github.com/CT-12/Sports-Season-Simulation/internal/ranking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hitter(name, posType string, ops float64) models.PlayerRecord {
	return models.PlayerRecord{Name: name, PositionType: posType, HittingStats: map[string]float64{"ops": ops}}
}

func pitcher(name string, era float64) models.PlayerRecord {
	return models.PlayerRecord{Name: name, PositionType: "Pitcher", PitchingStats: map[string]float64{"era": era}}
}

func baseState() models.SimulationState {
	return models.SimulationState{
		"New York Yankees": {
			hitter("Aaron Judge", "Outfielder", 1.0),
			hitter("Anthony Volpe", "Infielder", 0.7),
			pitcher("Gerrit Cole", 3.0),
		},
		"Boston Red Sox": {
			hitter("Rafael Devers", "Infielder", 0.9),
			hitter("Trevor Story", "Infielder", 0.6),
			pitcher("Chris Sale", 3.5),
		},
		"Los Angeles Dodgers": {
			hitter("Shohei Ohtani", "Two-Way Player", 1.0),
			pitcher("Clayton Kershaw", 3.2),
		},
		"San Diego Padres": {
			hitter("Manny Machado", "Infielder", 0.8),
			pitcher("Yu Darvish", 4.0),
		},
	}
}

func detailFor(t *testing.T, s *ranking.DetailedStandings, team string) ranking.Detail {
	t.Helper()
	for _, d := range append(append([]ranking.Detail{}, s.AL...), s.NL...) {
		if d.Team == team {
			return d
		}
	}
	t.Fatalf("team %s not ranked", team)
	return ranking.Detail{}
}

func TestSimulate_NoTradesMatchesBaseRanking(t *testing.T) {
	base := baseState()

	res, err := Simulate(base, Request{Season: 2025, HitterMetric: "ops", PitcherMetric: "era"})
	require.NoError(t, err)

	want, err := ranking.RankDetailed(
		ranking.HitterAverages(base, "ops"),
		ranking.PitcherAverages(base, "era"),
		"ops", "era", 2025,
	)
	require.NoError(t, err)

	assert.Equal(t, want, res.Rankings)
	assert.Zero(t, res.TransactionsApplied)
	assert.Empty(t, res.Messages)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, map[string]string{"hitter": "ops", "pitcher": "era"}, res.Metrics)
}

func TestSimulate_TradeMovesPlayerAndLeavesBaseUntouched(t *testing.T) {
	base := baseState()
	snapshot := base.Clone()

	res, err := Simulate(base, Request{
		Season:        2025,
		HitterMetric:  "ops",
		PitcherMetric: "era",
		Transactions: []models.Transaction{
			{PlayerName: "aaron judge", SourceTeam: "New York Yankees", DestinationTeam: "Boston Red Sox"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, snapshot, base)
	assert.Equal(t, 1, res.TransactionsApplied)
	assert.Equal(t, []string{"Traded Aaron Judge from New York Yankees to Boston Red Sox"}, res.Messages)

	assert.Equal(t, 0.7, detailFor(t, res.Rankings, "New York Yankees").HitterValue)
	assert.Equal(t, 0.8333, detailFor(t, res.Rankings, "Boston Red Sox").HitterValue)
	assert.Len(t, base["New York Yankees"], 3)
}

func TestSimulate_TradesApplyInOrder(t *testing.T) {
	res, err := Simulate(baseState(), Request{
		Season:        2025,
		HitterMetric:  "ops",
		PitcherMetric: "era",
		Transactions: []models.Transaction{
			{PlayerName: "Shohei Ohtani", SourceTeam: "Los Angeles Dodgers", DestinationTeam: "San Diego Padres"},
			{PlayerName: "Shohei Ohtani", SourceTeam: "San Diego Padres", DestinationTeam: "New York Yankees"},
		},
	})
	require.NoError(t, err)

	assert.Len(t, res.Messages, 2)
	assert.Equal(t, 0.9, detailFor(t, res.Rankings, "New York Yankees").HitterValue)
	// the Dodgers have no hitters left and take the league mean
	assert.Equal(t, 0.0, detailFor(t, res.Rankings, "Los Angeles Dodgers").HitterZ)
}

func TestApplyTransactions_NotFound(t *testing.T) {
	state := baseState()

	_, err := ApplyTransactions(state, []models.Transaction{
		{PlayerName: "Aaron Judge", SourceTeam: "New York Yankes", DestinationTeam: "Boston Red Sox"},
	})
	var nf *apperrors.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "team", nf.Entity)
	assert.Contains(t, nf.Suggestions, "New York Yankees")

	_, err = ApplyTransactions(state, []models.Transaction{
		{PlayerName: "Aaron Judge", SourceTeam: "New York Yankees", DestinationTeam: "Montreal Expos"},
	})
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Montreal Expos", nf.Name)

	_, err = ApplyTransactions(state, []models.Transaction{
		{PlayerName: "Aaron Jduge", SourceTeam: "New York Yankees", DestinationTeam: "Boston Red Sox"},
	})
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "player", nf.Entity)
	assert.Equal(t, "New York Yankees", nf.Scope)
	assert.Equal(t, []string{"Aaron Judge"}, nf.Suggestions)
}

func TestSimulate_Validation(t *testing.T) {
	base := baseState()

	_, err := Simulate(base, Request{Season: 2025, HitterMetric: "war", PitcherMetric: "era"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = Simulate(base, Request{Season: 2025, HitterMetric: "ops"})
	assert.True(t, apperrors.IsValidation(err))

	// a pitching stat is not a hitter metric
	_, err = Simulate(base, Request{Season: 2025, HitterMetric: "era", PitcherMetric: "era"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "hitter_metric")

	_, err = Simulate(base, Request{HitterMetric: "ops", PitcherMetric: "era"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = Simulate(models.SimulationState{}, Request{Season: 2025, HitterMetric: "ops", PitcherMetric: "era"})
	assert.True(t, apperrors.IsComputation(err))
}

func TestParseTransactions(t *testing.T) {
	txs, err := ParseTransactions([]byte(`[
		{"player_name": "Juan Soto", "position": "RF", "from_team": "New York Yankees", "to_team": "New York Mets"}
	]`))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.Transaction{
		PlayerName:      "Juan Soto",
		Position:        "RF",
		SourceTeam:      "New York Yankees",
		DestinationTeam: "New York Mets",
	}, txs[0])

	txs, err = ParseTransactions(nil)
	require.NoError(t, err)
	assert.Empty(t, txs)

	_, err = ParseTransactions([]byte(`[{"player_name": "Juan Soto", "from_team": "New York Yankees"}]`))
	require.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "transactions[0].to_team")

	_, err = ParseTransactions([]byte(`{"player_name": "Juan Soto"}`))
	assert.True(t, apperrors.IsValidation(err))
}

type fakeStates struct {
	state models.SimulationState
	hit   bool
	err   error
}

func (f *fakeStates) Fetch(_ context.Context, _ int, _ bool) (models.SimulationState, bool, error) {
	return f.state, f.hit, f.err
}

func TestPipeline_Run(t *testing.T) {
	states := &fakeStates{state: baseState(), hit: true}
	p := NewPipeline(states)

	res, err := p.Run(context.Background(), Request{
		Season:        2025,
		HitterMetric:  "ops",
		PitcherMetric: "era",
		Transactions: []models.Transaction{
			{PlayerName: "Yu Darvish", SourceTeam: "San Diego Padres", DestinationTeam: "Los Angeles Dodgers"},
		},
	})
	require.NoError(t, err)
	assert.True(t, res.CacheHit)
	assert.NotEmpty(t, res.RunID.String())
	assert.Len(t, states.state["San Diego Padres"], 2, "cached state is not modified")

	standings, err := p.Rank(context.Background(), 2025, "ops", "era")
	require.NoError(t, err)
	assert.Equal(t, "New York Yankees", standings.AL[0].Team)
}

func TestPipeline_RunPropagatesFetchError(t *testing.T) {
	boom := errors.New("database is down")
	p := NewPipeline(&fakeStates{err: boom})

	_, err := p.Run(context.Background(), Request{Season: 2025, HitterMetric: "ops", PitcherMetric: "era"})

	assert.ErrorIs(t, err, boom)
}
