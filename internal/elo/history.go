package elo

import (
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/models"
)

// History is an insertion-ordered set of RatingEntry keyed by (team_id, date).
// Writing an existing key replaces the entry in place, so the last write per
// date wins, matching the store's upsert.
type History struct {
	entries []models.RatingEntry
	index   map[models.RatingKey]int
}

// NewHistory returns an empty history
func NewHistory() *History {
	return &History{index: make(map[models.RatingKey]int)}
}

// Upsert inserts or replaces the entry for its (team_id, date)
func (h *History) Upsert(e models.RatingEntry) {
	k := e.Key()
	if i, ok := h.index[k]; ok {
		h.entries[i] = e
		return
	}
	h.index[k] = len(h.entries)
	h.entries = append(h.entries, e)
}

// Len returns the number of distinct (team_id, date) entries
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the entries in first-insertion order
func (h *History) Entries() []models.RatingEntry {
	out := make([]models.RatingEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Get returns the entry for a team on a date
func (h *History) Get(teamID int, date time.Time) (models.RatingEntry, bool) {
	i, ok := h.index[models.RatingKey{TeamID: teamID, Date: date.Format("2006-01-02")}]
	if !ok {
		return models.RatingEntry{}, false
	}
	return h.entries[i], true
}

// Latest returns the team's most recent entry dated on or before the given
// date. A non-nil season restricts the search to that season.
func (h *History) Latest(teamID int, onOrBefore time.Time, season *int) (models.RatingEntry, bool) {
	var (
		best  models.RatingEntry
		found bool
	)
	for _, e := range h.entries {
		if e.TeamID != teamID || e.Date.After(onOrBefore) {
			continue
		}
		if season != nil && e.Season != *season {
			continue
		}
		if !found || e.Date.After(best.Date) {
			best = e
			found = true
		}
	}
	return best, found
}
