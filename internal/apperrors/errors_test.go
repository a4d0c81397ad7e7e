package apperrors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_ListsOptions(t *testing.T) {
	err := NewValidation("method", "Glicko", "Pythagorean", "Elo")

	assert.Equal(t, `invalid method "Glicko" (valid options: Pythagorean, Elo)`, err.Error())
	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
}

func TestNotFoundError_WrappedStillMatches(t *testing.T) {
	nf := &NotFoundError{Entity: "player", Name: "Shohei Ohtan", Scope: "Los Angeles Dodgers", Suggestions: []string{"Shohei Ohtani"}}
	wrapped := fmt.Errorf("transaction 0: %w", nf)

	assert.True(t, IsNotFound(wrapped))
	assert.Contains(t, wrapped.Error(), "player not found: Shohei Ohtan in Los Angeles Dodgers")
	assert.Contains(t, wrapped.Error(), "did you mean: Shohei Ohtani?")
}

func TestDataUnavailableError_CarriesHint(t *testing.T) {
	err := NewEloUnavailable("elo rating for team 119 in season 2025")

	assert.True(t, IsDataUnavailable(err))
	assert.Contains(t, err.Error(), EloPrecomputeHint)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "none", Kind(nil))
	assert.Equal(t, "validation", Kind(NewMissingField("player_name")))
	assert.Equal(t, "not_found", Kind(NewNotFound("team", "Expos")))
	assert.Equal(t, "data_unavailable", Kind(NewEloUnavailable("x")))
	assert.Equal(t, "computation", Kind(NewComputation("ranking", "empty stats")))
	assert.Equal(t, "internal", Kind(fmt.Errorf("boom")))
}
