package models

import "database/sql"

// SeasonAggregate holds a team's run totals for one season
type SeasonAggregate struct {
	TeamID      int `db:"team_id" json:"team_id"`
	Season      int `db:"season" json:"season"`
	RunsScored  int `db:"runs_scored" json:"runs_scored"`
	RunsAllowed int `db:"runs_allowed" json:"runs_allowed"`
	GamesPlayed int `db:"games_played" json:"games_played"`
}

// HasGames returns true if the aggregate covers at least one game
func (a SeasonAggregate) HasGames() bool {
	return a.GamesPlayed > 0
}

// LeagueAverages holds a season's league OPS and ERA over qualified players.
// A field is invalid when no player qualified.
type LeagueAverages struct {
	Season int             `db:"season" json:"season"`
	OPS    sql.NullFloat64 `db:"ops" json:"ops"`
	ERA    sql.NullFloat64 `db:"era" json:"era"`
}
