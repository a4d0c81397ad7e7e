package simulator

import (
	"github.com/CT-12/Sports-Season-Simulation/internal/league"
)

// ScheduleWeights is the number of games played against each opponent type
type ScheduleWeights struct {
	Division    int `json:"division"`
	League      int `json:"league"`
	Interleague int `json:"interleague"`
}

// DefaultScheduleWeights approximates the balanced MLB schedule
func DefaultScheduleWeights() ScheduleWeights {
	return ScheduleWeights{Division: 13, League: 6, Interleague: 3}
}

// Games returns the number of games for a pair with the given relationship
func (w ScheduleWeights) Games(rel league.Relationship) int {
	switch rel {
	case league.SameDivision:
		return w.Division
	case league.SameLeague:
		return w.League
	case league.Interleague:
		return w.Interleague
	default:
		return 0
	}
}

// Game is one scheduled game between two teams
type Game struct {
	TeamA string `json:"team_a"`
	TeamB string `json:"team_b"`
}

// BuildSchedule returns every game between each unique pair of teams, in
// the order of the input. Teams without a league alignment are left out.
func BuildSchedule(teams []string, w ScheduleWeights) []Game {
	var games []Game
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			n := w.Games(league.Relate(teams[i], teams[j]))
			for k := 0; k < n; k++ {
				games = append(games, Game{TeamA: teams[i], TeamB: teams[j]})
			}
		}
	}
	return games
}

// GamesPerTeam counts the scheduled games of each team
func GamesPerTeam(schedule []Game) map[string]int {
	out := make(map[string]int)
	for _, g := range schedule {
		out[g.TeamA]++
		out[g.TeamB]++
	}
	return out
}
