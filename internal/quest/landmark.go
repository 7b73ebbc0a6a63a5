// Package quest defines the core domain of the game: the landmark
// registry, the verdict reconciliation engine, and the reward ledger.
// Everything here is pure Go, no HTTP and no database.
package quest

import (
	"strings"

	"github.com/geoquest/api/internal/geo"
)

type Category string

const (
	CategoryQuest  Category = "quest"
	CategoryDining Category = "dining"
	CategoryHotel  Category = "hotel"
)

// Landmark is a fixed registry entry. Per-player unlock state and photos
// live in UserState, not here.
type Landmark struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   Category  `json:"category"`
	Position   geo.Point `json:"position"`
	RewardIcon string    `json:"rewardIcon"`
	Riddle     string    `json:"riddle"`
	Hints      []string  `json:"hints,omitempty"`
	Facts      []string  `json:"facts,omitempty"`
}

// Matcher resolves a free-text place name from the vision verdict
// against the landmark registry. It is an interface so the substring
// heuristic can later be replaced by an identifier-based protocol
// without touching the gating logic.
type Matcher interface {
	Match(placeName string, landmarks []Landmark) (Landmark, bool)
}

// SubstringMatcher matches by case-insensitive bidirectional substring
// containment: either name may contain the other. First registry-order
// match wins.
type SubstringMatcher struct{}

func (SubstringMatcher) Match(placeName string, landmarks []Landmark) (Landmark, bool) {
	name := strings.ToLower(strings.TrimSpace(placeName))
	if name == "" {
		return Landmark{}, false
	}
	for _, lm := range landmarks {
		known := strings.ToLower(lm.Name)
		if strings.Contains(name, known) || strings.Contains(known, name) {
			return lm, true
		}
	}
	return Landmark{}, false
}
