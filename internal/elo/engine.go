package elo

import (
	"sort"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ratingPlaces matches the NUMERIC(8,4) column of team_elo_history
const ratingPlaces = 4

// Transition records the regression applied to one team at a season boundary
type Transition struct {
	TeamID int
	Season int
	Date   time.Time
	Before float64
	After  float64
}

// FoldResult is the output of a fold over a game log
type FoldResult struct {
	History     *History
	Final       *RatingTable
	Transitions []Transition
	Processed   int
	Skipped     int
	Seasons     []int
}

// Engine computes Elo history. It holds no state between runs.
type Engine struct {
	params Params
}

// NewEngine creates an engine with the given parameters
func NewEngine(params Params) *Engine {
	return &Engine{params: params}
}

// Params returns the engine parameters
func (e *Engine) Params() Params {
	return e.params
}

// FromRows converts raw game-log rows, logging and skipping malformed ones,
// then prepares the result for folding. Each usable row is turned to the
// lower team id's side, so a game survives when either of its rows is valid.
// The count is of games with no usable row, not of rows.
func FromRows(rows []models.GameLogRow) ([]models.GameResult, int) {
	type rowGame struct {
		id     int64
		season int
	}

	games := make([]models.GameResult, 0, len(rows)/2)
	usable := make(map[rowGame]struct{}, len(rows)/2)
	malformed := make(map[rowGame]struct{})
	for i := range rows {
		k := rowGame{rows[i].GameID, rows[i].Season}
		g, err := rows[i].ToGameResult()
		if err != nil {
			log.Warn().Err(err).Int64("game_id", rows[i].GameID).Msg("Skipping malformed game row")
			malformed[k] = struct{}{}
			continue
		}
		usable[k] = struct{}{}
		games = append(games, g.Oriented())
	}

	skipped := 0
	for k := range malformed {
		if _, ok := usable[k]; !ok {
			skipped++
		}
	}
	return PrepareGames(games), skipped
}

// PrepareGames keeps regular-season games seen from the lower team id,
// drops repeated rows for the same game and sorts by date then game id.
// Only game_type "R" counts as regular season; an empty type is excluded.
func PrepareGames(games []models.GameResult) []models.GameResult {
	type gameKey struct {
		id     int64
		teamA  int
		teamB  int
		season int
	}

	seen := make(map[gameKey]struct{}, len(games))
	out := make([]models.GameResult, 0, len(games))
	for _, g := range games {
		if g.GameType != models.GameTypeRegularSeason {
			continue
		}
		if g.TeamAID >= g.TeamBID {
			continue
		}
		k := gameKey{g.GameID, g.TeamAID, g.TeamBID, g.Season}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, g)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].GameID < out[j].GameID
	})
	return out
}

// Fold runs the rating state machine over games that are already prepared
func (e *Engine) Fold(games []models.GameResult) *FoldResult {
	table := NewRatingTable(e.params.InitialRating)
	res := &FoldResult{
		History: NewHistory(),
		Final:   table,
	}

	var (
		currentSeason int
		started       bool
		lastDate      time.Time
	)

	for _, g := range games {
		if !valid(g) {
			log.Warn().Int64("game_id", g.GameID).Int("team_a", g.TeamAID).Int("team_b", g.TeamBID).Msg("Skipping invalid game")
			res.Skipped++
			continue
		}
		if started && g.Date.Before(lastDate) {
			log.Warn().Int64("game_id", g.GameID).Time("date", g.Date).Msg("Skipping out-of-order game")
			res.Skipped++
			continue
		}

		if !started || g.Season != currentSeason {
			if started {
				res.Transitions = append(res.Transitions, e.regress(table, res.History, g.Season, g.Date)...)
				log.Debug().Int("season", g.Season).Int("teams", table.Len()).Msg("Applied season regression")
			}
			currentSeason = g.Season
			started = true
			res.Seasons = append(res.Seasons, g.Season)
		}

		ra := table.Get(g.TeamAID)
		rb := table.Get(g.TeamBID)
		changeA, changeB := e.params.Change(ra, rb, g.ScoreA, g.ScoreB)
		table.Set(g.TeamAID, ra+changeA)
		table.Set(g.TeamBID, rb+changeB)

		res.History.Upsert(entry(g.TeamAID, g.Date, g.Season, ra+changeA, false))
		res.History.Upsert(entry(g.TeamBID, g.Date, g.Season, rb+changeB, false))

		lastDate = g.Date
		res.Processed++
	}

	log.Info().
		Int("games", res.Processed).
		Int("skipped", res.Skipped).
		Int("teams", table.Len()).
		Int("history_rows", res.History.Len()).
		Msg("Elo fold complete")

	return res
}

// Run prepares the games and folds them
func (e *Engine) Run(games []models.GameResult) *FoldResult {
	return e.Fold(PrepareGames(games))
}

func (e *Engine) regress(table *RatingTable, history *History, season int, date time.Time) []Transition {
	ids := table.TeamIDs()
	out := make([]Transition, 0, len(ids))
	for _, id := range ids {
		before := table.Get(id)
		after := e.params.Regress(before)
		table.Set(id, after)
		history.Upsert(entry(id, date, season, after, true))
		out = append(out, Transition{TeamID: id, Season: season, Date: date, Before: before, After: after})
	}
	return out
}

func valid(g models.GameResult) bool {
	return g.TeamAID > 0 && g.TeamBID > 0 && g.TeamAID != g.TeamBID &&
		g.ScoreA >= 0 && g.ScoreB >= 0 && !g.Date.IsZero()
}

func entry(teamID int, date time.Time, season int, rating float64, seasonStart bool) models.RatingEntry {
	return models.RatingEntry{
		TeamID:        teamID,
		Date:          date,
		Season:        season,
		Rating:        decimal.NewFromFloat(rating).Round(ratingPlaces),
		IsSeasonStart: seasonStart,
	}
}
