package models

// Team is a franchise in a given season
type Team struct {
	TeamID int    `db:"team_id" json:"id"`
	Name   string `db:"team_name" json:"name"`
	Season int    `db:"season" json:"season"`
}

// RosterPlayer is a display row for a team roster
type RosterPlayer struct {
	PlayerID int    `db:"player_id" json:"id"`
	Name     string `db:"player_name" json:"name"`
	Position string `db:"position_name" json:"position"`
}
