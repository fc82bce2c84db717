package sports

import (
	"encoding/json"
	"fmt"
	"time"
)

// NewDocument returns an empty document stamped with the run time and the
// label of the day being reported.
func NewDocument(generatedAt, yesterday time.Time) *Document {
	return &Document{
		DateLabel:   DateLabel(yesterday),
		GeneratedAt: generatedAt,
		Leagues:     map[string]*LeagueData{},
	}
}

// ParseDocument decodes an artifact. Nil leagues are replaced with error
// placeholders so readers never see a nil entry.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding sports document: %w", err)
	}
	if doc.Leagues == nil {
		doc.Leagues = map[string]*LeagueData{}
	}
	for key, league := range doc.Leagues {
		if league == nil {
			doc.Leagues[key] = ErrorLeague("no data")
		}
	}
	return &doc, nil
}

// GameCount returns the number of finished games recorded for a league.
func (l *LeagueData) GameCount() int {
	if l.Failed() {
		return 0
	}
	return len(l.Yesterday.Games)
}
