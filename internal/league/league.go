// Package league holds the static MLB league and division alignment.
package league

import "sort"

// League is one of the two MLB leagues
type League string

const (
	American League = "AL"
	National League = "NL"
)

// Division within a league
type Division string

const (
	East    Division = "East"
	Central Division = "Central"
	West    Division = "West"
)

// Alignment places a team in a league and division
type Alignment struct {
	League   League
	Division Division
}

// Relationship describes how two teams are aligned relative to each other
type Relationship int

const (
	Unaligned Relationship = iota
	SameDivision
	SameLeague
	Interleague
)

var structure = map[string]Alignment{
	// AL East
	"Baltimore Orioles": {American, East},
	"Boston Red Sox":    {American, East},
	"New York Yankees":  {American, East},
	"Tampa Bay Rays":    {American, East},
	"Toronto Blue Jays": {American, East},
	// AL Central
	"Chicago White Sox":   {American, Central},
	"Cleveland Guardians": {American, Central},
	"Detroit Tigers":      {American, Central},
	"Kansas City Royals":  {American, Central},
	"Minnesota Twins":     {American, Central},
	// AL West
	"Houston Astros":     {American, West},
	"Los Angeles Angels": {American, West},
	"Athletics":          {American, West},
	"Seattle Mariners":   {American, West},
	"Texas Rangers":      {American, West},
	// NL East
	"Atlanta Braves":        {National, East},
	"Miami Marlins":         {National, East},
	"New York Mets":         {National, East},
	"Philadelphia Phillies": {National, East},
	"Washington Nationals":  {National, East},
	// NL Central
	"Chicago Cubs":        {National, Central},
	"Cincinnati Reds":     {National, Central},
	"Milwaukee Brewers":   {National, Central},
	"Pittsburgh Pirates":  {National, Central},
	"St. Louis Cardinals": {National, Central},
	// NL West
	"Arizona Diamondbacks": {National, West},
	"Colorado Rockies":     {National, West},
	"Los Angeles Dodgers":  {National, West},
	"San Diego Padres":     {National, West},
	"San Francisco Giants": {National, West},
}

// Former names still present in older seasons of the stats tables
var aliases = map[string]string{
	"Oakland Athletics": "Athletics",
	"Cleveland Indians": "Cleveland Guardians",
}

// Lookup returns the alignment of a team
func Lookup(team string) (Alignment, bool) {
	if canonical, ok := aliases[team]; ok {
		team = canonical
	}
	a, ok := structure[team]
	return a, ok
}

// LeagueOf returns the team's league. Unknown teams are placed in the NL.
func LeagueOf(team string) League {
	if a, ok := Lookup(team); ok {
		return a.League
	}
	return National
}

// Relate returns the relationship between two teams
func Relate(a, b string) Relationship {
	infoA, okA := Lookup(a)
	infoB, okB := Lookup(b)
	if !okA || !okB {
		return Unaligned
	}
	if infoA.League != infoB.League {
		return Interleague
	}
	if infoA.Division == infoB.Division {
		return SameDivision
	}
	return SameLeague
}

// Teams returns every aligned team name in sorted order
func Teams() []string {
	names := make([]string, 0, len(structure))
	for name := range structure {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
