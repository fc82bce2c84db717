package collect

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/TobiSchelling/sportspage/internal/config"
	"github.com/TobiSchelling/sportspage/internal/sports"
)

// FetchFunc produces one league's data for the given "yesterday" (midnight,
// Eastern). A returned error marks the whole league as failed.
type FetchFunc func(ctx context.Context, yesterday time.Time) (*sports.LeagueData, error)

// Source is one configured league.
type Source struct {
	Key   string
	Fetch FetchFunc
}

// Sources builds the enabled league fetchers from config, in display order.
func Sources(cfg *config.Config) []Source {
	timeout := 15 * time.Second
	var out []Source

	add := func(key string, lc config.League, fetch FetchFunc) {
		if !lc.Enabled {
			return
		}
		if cfg.Headlines.Enabled {
			if feedURL := cfg.Headlines.Feeds[key]; feedURL != "" {
				fetch = WithHeadlines(fetch, NewHeadlineSource(feedURL, cfg.Headlines.MaxItems, cfg.Headlines.DaysBack, cfg.Headlines.LeadExcerpt))
			}
		}
		out = append(out, Source{Key: key, Fetch: fetch})
	}

	add(sports.MLB, cfg.Leagues.MLB, NewMLBClient(cfg.Leagues.MLB.BaseURL, timeout).Fetch)
	add(sports.NHL, cfg.Leagues.NHL, NewNHLClient(cfg.Leagues.NHL.BaseURL, timeout).Fetch)
	add(sports.NBA, cfg.Leagues.NBA, NewNBAClient(cfg.Leagues.NBA.BaseURL, cfg.Leagues.NBA.CoreURL, timeout).Fetch)

	epl := cfg.Leagues.EPL
	add(sports.EPL, epl, NewEPLClient(epl.BaseURL, epl.APIKeyEnv, epl.CompetitionID, timeout).Fetch)

	return out
}

// sections runs the independent parts of one league fetch. A failed part is
// logged and left empty; the league only fails when every part failed.
type sections struct {
	league string
	total  int
	errs   []error
}

func (s *sections) run(name string, fn func() error) {
	s.total++
	if err := fn(); err != nil {
		log.Printf("%s %s failed: %v", s.league, name, err)
		s.errs = append(s.errs, fmt.Errorf("%s: %w", name, err))
	}
}

func (s *sections) err() error {
	if s.total > 0 && len(s.errs) == s.total {
		return errors.Join(s.errs...)
	}
	return nil
}

func newLeagueData(date string) *sports.LeagueData {
	return &sports.LeagueData{
		Standings: map[string][]sports.TeamStanding{},
		Yesterday: sports.Yesterday{Date: date, Games: []sports.Game{}},
		Leaders:   map[string][]sports.LeaderEntry{},
		Schedule:  []sports.DayEntry{},
	}
}
