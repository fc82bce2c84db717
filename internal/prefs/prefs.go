// Package prefs holds the reader's display preferences: which leagues are
// shown and whether box scores are expanded.
package prefs

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/TobiSchelling/sportspage/internal/sports"
)

// Key is the settings key the serialized preferences live under.
const Key = "preferences"

// Preferences controls what the renderer shows.
type Preferences struct {
	Leagues       map[string]bool `json:"leagues"`
	ShowBoxScores bool            `json:"showBoxScores"`
}

// Defaults returns preferences with every league visible and box scores shown.
func Defaults() Preferences {
	leagues := make(map[string]bool, len(sports.LeagueOrder))
	for _, key := range sports.LeagueOrder {
		leagues[key] = true
	}
	return Preferences{Leagues: leagues, ShowBoxScores: true}
}

// Decode parses stored preferences. Anything that is not a JSON object
// yields exactly Defaults(). Otherwise each recognizable top-level field
// replaces its default: a leagues object replaces the whole league map
// (keeping only boolean flags) and a boolean showBoxScores replaces the
// flag. Fields of the wrong type are ignored.
func Decode(raw []byte) Preferences {
	p := Defaults()

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return p
	}

	if v, ok := obj["showBoxScores"]; ok {
		var b bool
		if json.Unmarshal(v, &b) == nil {
			p.ShowBoxScores = b
		}
	}

	if v, ok := obj["leagues"]; ok {
		var leagues map[string]json.RawMessage
		if json.Unmarshal(v, &leagues) == nil && leagues != nil {
			p.Leagues = make(map[string]bool, len(leagues))
			for key, flag := range leagues {
				var b bool
				if json.Unmarshal(flag, &b) == nil {
					p.Leagues[key] = b
				}
			}
		}
	}
	return p
}

// Encode serializes preferences for storage.
func Encode(p Preferences) ([]byte, error) {
	if p.Leagues == nil {
		p.Leagues = map[string]bool{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding preferences: %w", err)
	}
	return data, nil
}

// Clone returns a deep copy.
func (p Preferences) Clone() Preferences {
	p.Leagues = maps.Clone(p.Leagues)
	if p.Leagues == nil {
		p.Leagues = map[string]bool{}
	}
	return p
}

// LeagueVisible reports whether a league should be rendered. Leagues the
// reader never configured are visible.
func (p Preferences) LeagueVisible(key string) bool {
	visible, ok := p.Leagues[key]
	return !ok || visible
}

// ToggleLeague returns a copy with the league's visibility flipped.
func (p Preferences) ToggleLeague(key string) Preferences {
	next := p.Clone()
	next.Leagues[key] = !p.LeagueVisible(key)
	return next
}

// ToggleBoxScores returns a copy with box-score visibility flipped.
func (p Preferences) ToggleBoxScores() Preferences {
	next := p.Clone()
	next.ShowBoxScores = !p.ShowBoxScores
	return next
}
