package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/apperrors"
	"github.com/CT-12/Sports-Season-Simulation/internal/metrics"
	"github.com/CT-12/Sports-Season-Simulation/internal/models"
	"github.com/CT-12/Sports-Season-Simulation/internal/ranking"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StatusSuccess is the status of a completed what-if run
const StatusSuccess = "success"

// StateSource returns a season's base state and whether it was cached
type StateSource interface {
	Fetch(ctx context.Context, season int, forceRefresh bool) (models.SimulationState, bool, error)
}

// Request describes one what-if run
type Request struct {
	Season        int
	HitterMetric  string
	PitcherMetric string
	Transactions  []models.Transaction
}

// Result is the re-ranked leagues after the trades
type Result struct {
	RunID               uuid.UUID                  `json:"run_id"`
	Season              int                        `json:"season"`
	Metrics             map[string]string          `json:"metrics"`
	Rankings            *ranking.DetailedStandings `json:"rankings"`
	TransactionsApplied int                        `json:"transactions_applied"`
	Messages            []string                   `json:"transaction_messages"`
	Status              string                     `json:"status"`
	CacheHit            bool                       `json:"cache_hit"`
}

// Pipeline clones the cached base state for every request, applies the
// request's trades to the clone and ranks the result.
type Pipeline struct {
	states StateSource
}

// NewPipeline returns a pipeline reading base states from states
func NewPipeline(states StateSource) *Pipeline {
	return &Pipeline{states: states}
}

// Run executes a what-if request
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	res, err := p.run(ctx, req)
	status := StatusSuccess
	if err != nil {
		status = "error"
		metrics.RecordError("simulation", apperrors.Kind(err))
	}
	metrics.RecordWhatIf(status, time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}

	log.Info().
		Str("run_id", res.RunID.String()).
		Int("season", req.Season).
		Int("transactions", res.TransactionsApplied).
		Bool("cache_hit", res.CacheHit).
		Dur("duration", time.Since(start)).
		Msg("What-if simulation completed")

	return res, nil
}

func (p *Pipeline) run(ctx context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	base, hit, err := p.states.Fetch(ctx, req.Season, false)
	if err != nil {
		return nil, err
	}

	res, err := Simulate(base, req)
	if err != nil {
		return nil, err
	}
	res.CacheHit = hit
	return res, nil
}

// Rank ranks the season as stored, without any trades
func (p *Pipeline) Rank(ctx context.Context, season int, hitterMetric, pitcherMetric string) (*ranking.DetailedStandings, error) {
	res, err := p.run(ctx, Request{Season: season, HitterMetric: hitterMetric, PitcherMetric: pitcherMetric})
	if err != nil {
		return nil, err
	}
	return res.Rankings, nil
}

// Simulate applies req's trades to a clone of base and ranks the clone.
// base is never modified.
func Simulate(base models.SimulationState, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	state := base.Clone()

	messages, err := ApplyTransactions(state, req.Transactions)
	if err != nil {
		return nil, err
	}

	hitting := ranking.HitterAverages(state, req.HitterMetric)
	pitching := ranking.PitcherAverages(state, req.PitcherMetric)

	log.Debug().
		Int("season", req.Season).
		Int("hitting_teams", len(hitting)).
		Int("pitching_teams", len(pitching)).
		Msg("Recomputed team averages")

	standings, err := ranking.RankDetailed(hitting, pitching, req.HitterMetric, req.PitcherMetric, req.Season)
	if err != nil {
		return nil, fmt.Errorf("failed to rank season %d: %w", req.Season, err)
	}

	return &Result{
		RunID:  uuid.New(),
		Season: req.Season,
		Metrics: map[string]string{
			"hitter":  req.HitterMetric,
			"pitcher": req.PitcherMetric,
		},
		Rankings:            standings,
		TransactionsApplied: len(messages),
		Messages:            messages,
		Status:              StatusSuccess,
	}, nil
}

func validateRequest(req Request) error {
	if req.Season <= 0 {
		return apperrors.NewMissingField("season")
	}
	if err := ranking.ValidateHitterMetric(req.HitterMetric); err != nil {
		return err
	}
	if err := ranking.ValidatePitcherMetric(req.PitcherMetric); err != nil {
		return err
	}
	return ValidateTransactions(req.Transactions)
}
