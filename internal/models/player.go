package models

import (
	"database/sql"
	"sort"
)

// PlayerRecord is one active player inside a SimulationState
type PlayerRecord struct {
	PlayerID      int                `json:"player_id"`
	Name          string             `json:"player_name"`
	Position      string             `json:"position"`
	PositionType  string             `json:"position_type"`
	HittingStats  map[string]float64 `json:"hitting_stats"`
	PitchingStats map[string]float64 `json:"pitching_stats"`
}

// Clone returns a copy of the player sharing no maps with the receiver
func (p PlayerRecord) Clone() PlayerRecord {
	out := p
	out.HittingStats = cloneStats(p.HittingStats)
	out.PitchingStats = cloneStats(p.PitchingStats)
	return out
}

func cloneStats(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// SimulationState maps a team name to its ordered player list
type SimulationState map[string][]PlayerRecord

// Clone returns a deep copy. No slice or map of the result aliases the receiver.
func (s SimulationState) Clone() SimulationState {
	if s == nil {
		return nil
	}
	out := make(SimulationState, len(s))
	for team, players := range s {
		copied := make([]PlayerRecord, len(players))
		for i, p := range players {
			copied[i] = p.Clone()
		}
		out[team] = copied
	}
	return out
}

// TeamCount returns the number of teams in the state
func (s SimulationState) TeamCount() int {
	return len(s)
}

// PlayerCount returns the number of players across all teams
func (s SimulationState) PlayerCount() int {
	n := 0
	for _, players := range s {
		n += len(players)
	}
	return n
}

// TeamNames returns the team names in sorted order
func (s SimulationState) TeamNames() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PlayerStatRow is a raw row of the roster snapshot query. Hitting and pitching
// columns come from LEFT JOINs and may be NULL.
type PlayerStatRow struct {
	TeamName     string         `db:"team_name"`
	PlayerID     int            `db:"player_id"`
	PlayerName   string         `db:"player_name"`
	PositionName sql.NullString `db:"position_name"`
	PositionType sql.NullString `db:"position_type"`

	// Hitting
	Avg     sql.NullFloat64 `db:"avg"`
	OPS     sql.NullFloat64 `db:"ops"`
	OPSPlus sql.NullFloat64 `db:"ops_plus"`
	HR      sql.NullFloat64 `db:"hr"`
	RBI     sql.NullFloat64 `db:"rbi"`
	R       sql.NullFloat64 `db:"r"`
	H       sql.NullFloat64 `db:"h"`
	OBP     sql.NullFloat64 `db:"obp"`
	SLG     sql.NullFloat64 `db:"slg"`

	// Pitching
	ERA     sql.NullFloat64 `db:"era"`
	ERAPlus sql.NullFloat64 `db:"era_plus"`
	WHIP    sql.NullFloat64 `db:"whip"`
	SO      sql.NullFloat64 `db:"so"`
	W       sql.NullFloat64 `db:"w"`
	L       sql.NullFloat64 `db:"l"`
	BB      sql.NullFloat64 `db:"bb"`
}

// ToPlayerRecord converts the row, dropping NULL stat columns
func (r *PlayerStatRow) ToPlayerRecord() PlayerRecord {
	hitting := map[string]sql.NullFloat64{
		"avg":      r.Avg,
		"ops":      r.OPS,
		"ops_plus": r.OPSPlus,
		"hr":       r.HR,
		"rbi":      r.RBI,
		"r":        r.R,
		"h":        r.H,
		"obp":      r.OBP,
		"slg":      r.SLG,
	}
	pitching := map[string]sql.NullFloat64{
		"era":      r.ERA,
		"era_plus": r.ERAPlus,
		"whip":     r.WHIP,
		"so":       r.SO,
		"w":        r.W,
		"l":        r.L,
		"bb":       r.BB,
	}

	return PlayerRecord{
		PlayerID:      r.PlayerID,
		Name:          r.PlayerName,
		Position:      r.PositionName.String,
		PositionType:  r.PositionType.String,
		HittingStats:  nonNull(hitting),
		PitchingStats: nonNull(pitching),
	}
}

func nonNull(in map[string]sql.NullFloat64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		if v.Valid {
			out[k] = v.Float64
		}
	}
	return out
}

// Transaction moves one player between teams in a what-if simulation
type Transaction struct {
	PlayerName      string `json:"player_name"`
	Position        string `json:"position,omitempty"`
	SourceTeam      string `json:"from_team"`
	DestinationTeam string `json:"to_team"`
}
