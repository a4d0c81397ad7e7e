// Package simulation runs what-if trades against a cached season snapshot and
// re-ranks the leagues without touching the snapshot or the database.
package simulation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/CT-12/Sports-Season-Simulation/internal/apperrors"
	"github.com/CT-12/Sports-Season-Simulation/internal/lookup"
	"github.com/CT-12/Sports-Season-Simulation/internal/models"
)

const suggestionLimit = 3

// ParseTransactions decodes a JSON array of trades and checks that each one
// names a player and both teams.
func ParseTransactions(data []byte) ([]models.Transaction, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var txs []models.Transaction
	if err := json.Unmarshal(data, &txs); err != nil {
		return nil, &apperrors.ValidationError{Field: "transactions", Reason: "expected a list of trades: " + err.Error()}
	}
	if err := ValidateTransactions(txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// ValidateTransactions reports the first trade missing a required field
func ValidateTransactions(txs []models.Transaction) error {
	for i, tx := range txs {
		required := []struct {
			field string
			value string
		}{
			{"player_name", tx.PlayerName},
			{"from_team", tx.SourceTeam},
			{"to_team", tx.DestinationTeam},
		}
		for _, r := range required {
			if strings.TrimSpace(r.value) == "" {
				return apperrors.NewMissingField(fmt.Sprintf("transactions[%d].%s", i, r.field))
			}
		}
	}
	return nil
}

// ApplyTransactions moves players between the teams of state in order and
// returns one message per trade. state is modified in place, so callers pass
// a clone. Player names match case-insensitively within the source team.
func ApplyTransactions(state models.SimulationState, txs []models.Transaction) ([]string, error) {
	messages := make([]string, 0, len(txs))

	for i, tx := range txs {
		source, ok := state[tx.SourceTeam]
		if !ok {
			return nil, fmt.Errorf("transaction %d: %w", i, missingTeam(state, tx.SourceTeam))
		}
		if _, ok := state[tx.DestinationTeam]; !ok {
			return nil, fmt.Errorf("transaction %d: %w", i, missingTeam(state, tx.DestinationTeam))
		}

		names := make([]string, len(source))
		for j, p := range source {
			names[j] = p.Name
		}
		idx := lookup.FindFold(names, tx.PlayerName)
		if idx < 0 {
			return nil, fmt.Errorf("transaction %d: %w", i, &apperrors.NotFoundError{
				Entity:      "player",
				Name:        tx.PlayerName,
				Scope:       tx.SourceTeam,
				Suggestions: lookup.Suggest(tx.PlayerName, names, suggestionLimit),
			})
		}

		player := source[idx]
		state[tx.SourceTeam] = slices.Delete(source, idx, idx+1)
		state[tx.DestinationTeam] = append(state[tx.DestinationTeam], player)

		messages = append(messages, fmt.Sprintf("Traded %s from %s to %s", player.Name, tx.SourceTeam, tx.DestinationTeam))
	}

	return messages, nil
}

func missingTeam(state models.SimulationState, name string) *apperrors.NotFoundError {
	return &apperrors.NotFoundError{
		Entity:      "team",
		Name:        name,
		Suggestions: lookup.Suggest(name, state.TeamNames(), suggestionLimit),
	}
}
