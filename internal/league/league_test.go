package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelate(t *testing.T) {
	assert.Equal(t, SameDivision, Relate("New York Yankees", "Boston Red Sox"))
	assert.Equal(t, SameLeague, Relate("New York Yankees", "Houston Astros"))
	assert.Equal(t, Interleague, Relate("New York Yankees", "New York Mets"))
	assert.Equal(t, Unaligned, Relate("New York Yankees", "Montreal Expos"))
}

func TestLeagueOf(t *testing.T) {
	assert.Equal(t, American, LeagueOf("Seattle Mariners"))
	assert.Equal(t, American, LeagueOf("Oakland Athletics"), "alias resolves to the AL West")
	assert.Equal(t, National, LeagueOf("San Diego Padres"))
	assert.Equal(t, National, LeagueOf("Unknown Team"), "unknown teams default to the NL")
}

func TestTeams(t *testing.T) {
	teams := Teams()
	assert.Len(t, teams, 30)
	assert.IsNonDecreasing(t, teams)
}
