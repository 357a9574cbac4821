// Package agency holds the catalogue of predefined talent agencies.
package agency

import (
	"strings"

	"github.com/okian/debut/internal/domain/game"
)

// Agency is a catalogue entry.
type Agency struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var predefined = []Agency{
	{Name: "Stellar Talent", Description: "Top-tier talents for every occasion."},
	{Name: "Galaxy Stars", Description: "Shining stars in the entertainment universe."},
	{Name: "Nova Creations", Description: "Innovative and creative talent solutions."},
	{Name: "Cosmic Entertainment", Description: "Where dreams meet the stage."},
	{Name: "Radiant Productions", Description: "Illuminating the path to stardom."},
}

// Predefined returns the built-in agencies in display order.
func Predefined() []Agency {
	out := make([]Agency, len(predefined))
	copy(out, predefined)
	return out
}

// Find looks up a predefined agency by name, ignoring case and
// surrounding whitespace.
func Find(name string) (Agency, bool) {
	name = strings.TrimSpace(name)
	for _, a := range predefined {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Agency{}, false
}

// Merge appends remote entries whose names are not already in local.
func Merge(local, remote []Agency) []Agency {
	out := make([]Agency, 0, len(local)+len(remote))
	seen := make(map[string]bool, len(local)+len(remote))
	for _, list := range [][]Agency{local, remote} {
		for _, a := range list {
			key := strings.ToLower(strings.TrimSpace(a.Name))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, a)
		}
	}
	return out
}

// Info converts a catalogue entry into the game-state record.
func (a Agency) Info() game.AgencyInfo {
	return game.AgencyInfo{Name: a.Name, Description: a.Description, IsCustom: false}
}
