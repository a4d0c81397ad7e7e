package ranking

import (
	"sort"

	"github.com/CT-12/Sports-Season-Simulation/internal/apperrors"
	"github.com/CT-12/Sports-Season-Simulation/internal/models"
)

// hitterDirections maps each hitting metric to whether higher values are better
var hitterDirections = map[string]bool{
	"avg":      true,
	"ops":      true,
	"ops_plus": true,
	"hr":       true,
	"rbi":      true,
	"r":        true,
	"h":        true,
	"obp":      true,
	"slg":      true,
}

// pitcherDirections maps each pitching metric to whether higher values are better
var pitcherDirections = map[string]bool{
	"era":      false,
	"whip":     false,
	"l":        false,
	"bb":       false,
	"so":       true,
	"w":        true,
	"era_plus": true,
}

// HitterPositionTypes are the position types averaged for hitter metrics
var HitterPositionTypes = []string{"Outfielder", "Catcher", "Infielder", "Hitter", "Two-Way Player"}

// PitcherPositionType is the position type averaged for pitcher metrics
const PitcherPositionType = "Pitcher"

// HigherIsBetter reports the metric's direction and whether it is known
func HigherIsBetter(metric string) (higher, ok bool) {
	if higher, ok = hitterDirections[metric]; ok {
		return higher, ok
	}
	higher, ok = pitcherDirections[metric]
	return higher, ok
}

// Metrics returns every known metric name in sorted order
func Metrics() []string {
	return append(HitterMetrics(), PitcherMetrics()...)
}

// HitterMetrics returns the hitting metric names in sorted order
func HitterMetrics() []string {
	return sortedKeys(hitterDirections)
}

// PitcherMetrics returns the pitching metric names in sorted order
func PitcherMetrics() []string {
	return sortedKeys(pitcherDirections)
}

// ValidateHitterMetric returns a ValidationError on hitter_metric unless
// metric is a hitting stat
func ValidateHitterMetric(metric string) error {
	return validateIn("hitter_metric", metric, hitterDirections)
}

// ValidatePitcherMetric returns a ValidationError on pitcher_metric unless
// metric is a pitching stat
func ValidatePitcherMetric(metric string) error {
	return validateIn("pitcher_metric", metric, pitcherDirections)
}

func validateIn(field, metric string, known map[string]bool) error {
	if metric == "" {
		return apperrors.NewMissingField(field)
	}
	if _, ok := known[metric]; !ok {
		return apperrors.NewValidation(field, metric, sortedKeys(known)...)
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsHitter reports whether the position type counts toward hitter metrics
func IsHitter(positionType string) bool {
	for _, t := range HitterPositionTypes {
		if t == positionType {
			return true
		}
	}
	return false
}

// HitterAverages averages a hitting stat over each team's hitters. Only
// positive values count, and teams without any are left out.
func HitterAverages(state models.SimulationState, metric string) map[string]float64 {
	return averages(state, func(p models.PlayerRecord) (float64, bool) {
		if !IsHitter(p.PositionType) {
			return 0, false
		}
		v, ok := p.HittingStats[metric]
		return v, ok
	})
}

// PitcherAverages averages a pitching stat over each team's pitchers. Only
// positive values count, and teams without any are left out.
func PitcherAverages(state models.SimulationState, metric string) map[string]float64 {
	return averages(state, func(p models.PlayerRecord) (float64, bool) {
		if p.PositionType != PitcherPositionType {
			return 0, false
		}
		v, ok := p.PitchingStats[metric]
		return v, ok
	})
}

func averages(state models.SimulationState, value func(models.PlayerRecord) (float64, bool)) map[string]float64 {
	out := make(map[string]float64, len(state))
	for team, players := range state {
		var sum float64
		var n int
		for _, p := range players {
			v, ok := value(p)
			if !ok || v <= 0 {
				continue
			}
			sum += v
			n++
		}
		if n > 0 {
			out[team] = sum / float64(n)
		}
	}
	return out
}
