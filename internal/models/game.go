package models

import (
	"database/sql"
	"fmt"
	"time"
)

// GameTypeRegularSeason is the game_type code for regular-season games
const GameTypeRegularSeason = "R"

// GameResult is a single game between two teams. After deduplication TeamAID < TeamBID.
type GameResult struct {
	GameID   int64     `json:"game_id"`
	Date     time.Time `json:"date"`
	Season   int       `json:"season"`
	TeamAID  int       `json:"team_a_id"`
	TeamBID  int       `json:"team_b_id"`
	ScoreA   int       `json:"score_a"`
	ScoreB   int       `json:"score_b"`
	GameType string    `json:"game_type"`
}

// Margin returns the absolute run differential
func (g GameResult) Margin() int {
	if g.ScoreA > g.ScoreB {
		return g.ScoreA - g.ScoreB
	}
	return g.ScoreB - g.ScoreA
}

// Oriented returns the game seen from the lower team id
func (g GameResult) Oriented() GameResult {
	if g.TeamAID > g.TeamBID {
		g.TeamAID, g.TeamBID = g.TeamBID, g.TeamAID
		g.ScoreA, g.ScoreB = g.ScoreB, g.ScoreA
	}
	return g
}

// IsTie returns true if both teams scored the same number of runs
func (g GameResult) IsTie() bool {
	return g.ScoreA == g.ScoreB
}

// GameLogRow is a raw row of team_game_logs. Each physical game appears twice,
// once from each team's perspective.
type GameLogRow struct {
	GameID        int64          `db:"game_id"`
	GameDate      sql.NullTime   `db:"game_date"`
	Season        int            `db:"season"`
	TeamID        int            `db:"team_id"`
	OpponentID    int            `db:"opponent_id"`
	TeamScore     sql.NullInt32  `db:"team_score"`
	OpponentScore sql.NullInt32  `db:"opponent_score"`
	GameType      sql.NullString `db:"game_type"`
}

// ToGameResult validates the row and converts it to a GameResult. A NULL
// game_type comes through empty.
func (r *GameLogRow) ToGameResult() (GameResult, error) {
	if !r.GameDate.Valid {
		return GameResult{}, fmt.Errorf("game %d has no date", r.GameID)
	}
	if !r.TeamScore.Valid || !r.OpponentScore.Valid {
		return GameResult{}, fmt.Errorf("game %d has no final score", r.GameID)
	}
	if r.TeamScore.Int32 < 0 || r.OpponentScore.Int32 < 0 {
		return GameResult{}, fmt.Errorf("game %d has a negative score", r.GameID)
	}
	if r.TeamID <= 0 || r.OpponentID <= 0 || r.TeamID == r.OpponentID {
		return GameResult{}, fmt.Errorf("game %d has invalid teams %d vs %d", r.GameID, r.TeamID, r.OpponentID)
	}

	return GameResult{
		GameID:   r.GameID,
		Date:     r.GameDate.Time,
		Season:   r.Season,
		TeamAID:  r.TeamID,
		TeamBID:  r.OpponentID,
		ScoreA:   int(r.TeamScore.Int32),
		ScoreB:   int(r.OpponentScore.Int32),
		GameType: r.GameType.String,
	}, nil
}
