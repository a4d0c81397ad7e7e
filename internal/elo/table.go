package elo

import "sort"

// RatingTable holds the current rating of every team seen so far.
// A zero RatingTable is not usable; create one with NewRatingTable.
type RatingTable struct {
	initial float64
	ratings map[int]float64
}

// NewRatingTable returns an empty table whose unseen teams rate at initial
func NewRatingTable(initial float64) *RatingTable {
	return &RatingTable{
		initial: initial,
		ratings: make(map[int]float64),
	}
}

// Get returns the team's rating, registering it at the initial rating on first access
func (t *RatingTable) Get(teamID int) float64 {
	r, ok := t.ratings[teamID]
	if !ok {
		r = t.initial
		t.ratings[teamID] = r
	}
	return r
}

// Peek returns the team's rating without registering it
func (t *RatingTable) Peek(teamID int) (float64, bool) {
	r, ok := t.ratings[teamID]
	return r, ok
}

// Set stores a team's rating
func (t *RatingTable) Set(teamID int, rating float64) {
	t.ratings[teamID] = rating
}

// Len returns the number of tracked teams
func (t *RatingTable) Len() int {
	return len(t.ratings)
}

// TeamIDs returns the tracked team ids in ascending order
func (t *RatingTable) TeamIDs() []int {
	ids := make([]int, 0, len(t.ratings))
	for id := range t.ratings {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Snapshot returns a copy of the current ratings
func (t *RatingTable) Snapshot() map[int]float64 {
	out := make(map[int]float64, len(t.ratings))
	for id, r := range t.ratings {
		out[id] = r
	}
	return out
}
