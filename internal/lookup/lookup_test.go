package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("Texas Rangers", "texas rangers"))
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Less(t, Similarity("Cubs", "New York Yankees"), SuggestionThreshold)
}

func TestSuggest(t *testing.T) {
	teams := []string{"New York Yankees", "New York Mets", "Boston Red Sox", "Chicago Cubs"}

	got := Suggest("New York Yankes", teams, 3)
	assert.Equal(t, "New York Yankees", got[0])
	assert.NotContains(t, got, "Chicago Cubs")

	got = Suggest("Cubs", teams, 0)
	assert.Equal(t, []string{"Chicago Cubs"}, got)

	assert.Empty(t, Suggest("Zzzzzz", teams, 3))
}

func TestFindFold(t *testing.T) {
	names := []string{"Shohei Ohtani", "Mookie Betts"}

	assert.Equal(t, 1, FindFold(names, "mookie betts"))
	assert.Equal(t, -1, FindFold(names, "Freddie Freeman"))
}
