package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RatingEntry is one row of a team's Elo history. Unique per (team_id, date).
type RatingEntry struct {
	TeamID        int             `db:"team_id" json:"team_id"`
	Date          time.Time       `db:"date" json:"date"`
	Season        int             `db:"season" json:"season"`
	Rating        decimal.Decimal `db:"rating" json:"rating"`
	IsSeasonStart bool            `db:"is_season_start" json:"is_season_start"`
}

// RatingKey identifies a RatingEntry for upsert purposes
type RatingKey struct {
	TeamID int
	Date   string
}

// Key returns the upsert key of the entry
func (e RatingEntry) Key() RatingKey {
	return RatingKey{TeamID: e.TeamID, Date: e.Date.Format("2006-01-02")}
}

// Float returns the rating as a float64
func (e RatingEntry) Float() float64 {
	return e.Rating.InexactFloat64()
}

// SeasonRatingRange summarises a team's Elo history within one season
type SeasonRatingRange struct {
	TeamID      int             `json:"team_id"`
	Season      int             `json:"season"`
	Min         decimal.Decimal `json:"min_rating"`
	Max         decimal.Decimal `json:"max_rating"`
	Avg         decimal.Decimal `json:"avg_rating"`
	SeasonStart decimal.Decimal `json:"season_start"`
	SeasonEnd   decimal.Decimal `json:"season_end"`
}
