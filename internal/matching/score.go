// Package matching implements the compatibility heuristic between two user
// profiles: a deterministic 0-100 score built from shared sports, location,
// age proximity and skill-level overlap.
package matching

import (
	"sort"
	"strings"

	"github.com/sportmatch/backend/internal/db"
)

// Term weights. Each term is independently capped; the sum is clamped to 100.
const (
	weightSports    = 40.0
	weightLocation  = 30.0
	weightNearby    = 20.0
	weightAge       = 20.0
	weightLevel     = 10.0
	ReciprocalBonus = 20.0 // added by the matching service when the candidate already liked the caller
)

// nearbyZones is the fixed allow-list of neighborhoods considered close to
// each other. Two users in different zones from this list still get partial
// location credit.
var nearbyZones = []string{"palermo", "belgrano", "recoleta"}

// Score computes the compatibility between two users, in [0,100].
// Fully deterministic and symmetric: Score(a,b) == Score(b,a).
func Score(a, b *db.User) float64 {
	prefsA := ParseSports(a.Sports)
	prefsB := ParseSports(b.Sports)

	score := sportsTerm(prefsA, prefsB) +
		locationTerm(a.Location, b.Location) +
		ageTerm(a.Age, b.Age) +
		levelTerm(prefsA, prefsB)

	if score > 100 {
		score = 100
	}
	return score
}

// CommonSports returns the sorted intersection of the two users' sport names,
// independent of the score (used for display).
func CommonSports(a, b *db.User) []string {
	namesA := sportNames(ParseSports(a.Sports))
	namesB := sportNames(ParseSports(b.Sports))

	var common []string
	for name := range namesA {
		if _, ok := namesB[name]; ok {
			common = append(common, name)
		}
	}
	sort.Strings(common)
	return common
}

// sportsTerm awards up to 40 points for shared sports, scaled by the
// intersection size over the larger set. Zero if either set is empty.
func sportsTerm(prefsA, prefsB []Preference) float64 {
	namesA := sportNames(prefsA)
	namesB := sportNames(prefsB)
	if len(namesA) == 0 || len(namesB) == 0 {
		return 0
	}

	common := 0
	for name := range namesA {
		if _, ok := namesB[name]; ok {
			common++
		}
	}
	return weightSports * float64(common) / float64(max(len(namesA), len(namesB)))
}

// locationTerm awards 30 for the same location (case-insensitive), 20 when
// both locations fall in the nearby-zone allow-list, otherwise 0.
func locationTerm(locA, locB string) float64 {
	locA = strings.ToLower(strings.TrimSpace(locA))
	locB = strings.ToLower(strings.TrimSpace(locB))
	if locA == "" || locB == "" {
		return 0
	}
	if locA == locB {
		return weightLocation
	}
	if inNearbyZone(locA) && inNearbyZone(locB) {
		return weightNearby
	}
	return 0
}

func inNearbyZone(loc string) bool {
	for _, zone := range nearbyZones {
		if strings.Contains(loc, zone) {
			return true
		}
	}
	return false
}

// ageTerm awards 20/15/10 points for age differences of at most 5/10/15
// years. Zero when either age is missing.
func ageTerm(ageA, ageB int) float64 {
	if ageA <= 0 || ageB <= 0 {
		return 0
	}
	diff := ageA - ageB
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 5:
		return weightAge
	case diff <= 10:
		return 15
	case diff <= 15:
		return 10
	}
	return 0
}

// levelTerm awards a flat 10 when both users share at least one skill level
// across their sports lists.
func levelTerm(prefsA, prefsB []Preference) float64 {
	if len(prefsA) == 0 || len(prefsB) == 0 {
		return 0
	}
	levelsA := make(map[string]struct{}, len(prefsA))
	for _, p := range prefsA {
		levelsA[p.Level] = struct{}{}
	}
	for _, p := range prefsB {
		if _, ok := levelsA[p.Level]; ok {
			return weightLevel
		}
	}
	return 0
}

func sportNames(prefs []Preference) map[string]struct{} {
	names := make(map[string]struct{}, len(prefs))
	for _, p := range prefs {
		names[p.Sport] = struct{}{}
	}
	return names
}
