package moneypuck

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/nhl"
	"github.com/chladner/hockeyquant/internal/telemetry"
)

// Store downloads the MoneyPuck season-summary CSV tables (teams, goalies,
// skaters) and serves them from memory, re-downloading on a TTL. All
// accessors are safe for concurrent use.
type Store struct {
	baseURL    string
	httpClient *http.Client
	ttl        time.Duration
	now        func() time.Time

	mu       sync.RWMutex
	loadedAt time.Time
	splits   map[string]model.TeamSplits
	goalies  map[string][]model.GoalieSeason
	skaters  map[string][]model.SkaterSeason
}

func NewStore(baseURL string, ttl, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		ttl:        ttl,
		now:        time.Now,
	}
}

// Refresh downloads all three tables. force skips the TTL check.
func (s *Store) Refresh(ctx context.Context, force bool) error {
	s.mu.RLock()
	fresh := !s.loadedAt.IsZero() && s.now().Sub(s.loadedAt) < s.ttl
	s.mu.RUnlock()
	if fresh && !force {
		return nil
	}

	current, _ := nhl.Seasons(s.now())
	year := current[:4]

	teamRows, err := s.fetchCSV(ctx, fmt.Sprintf("%s/%s/regular/teams.csv", s.baseURL, year))
	if err != nil {
		return fmt.Errorf("team table: %w", err)
	}
	goalieRows, err := s.fetchCSV(ctx, fmt.Sprintf("%s/%s/regular/goalies.csv", s.baseURL, year))
	if err != nil {
		return fmt.Errorf("goalie table: %w", err)
	}
	skaterRows, err := s.fetchCSV(ctx, fmt.Sprintf("%s/%s/regular/skaters.csv", s.baseURL, year))
	if err != nil {
		return fmt.Errorf("skater table: %w", err)
	}

	splits := parseTeamSplits(teamRows)
	goalies := parseGoalies(goalieRows)
	skaters := parseSkaters(skaterRows)

	s.mu.Lock()
	s.splits = splits
	s.goalies = goalies
	s.skaters = skaters
	s.loadedAt = s.now()
	s.mu.Unlock()

	telemetry.Infof("moneypuck: loaded %d teams, %d goalie rosters, %d skater rosters",
		len(splits), len(goalies), len(skaters))
	return nil
}

// TeamSplits returns the team's aggregate splits, or false when the team is
// unknown or the tables have never loaded.
func (s *Store) TeamSplits(team string) (model.TeamSplits, bool) {
	s.ensure()
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.splits[team]
	return sp, ok
}

// Goalies returns the team's goalie rows in table order.
func (s *Store) Goalies(team string) []model.GoalieSeason {
	s.ensure()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.goalies[team]
}

// Skaters returns the team's skater rows in table order.
func (s *Store) Skaters(team string) []model.SkaterSeason {
	s.ensure()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skaters[team]
}

// ensure lazily refreshes stale tables. A failed refresh keeps serving the
// previous snapshot.
func (s *Store) ensure() {
	s.mu.RLock()
	fresh := !s.loadedAt.IsZero() && s.now().Sub(s.loadedAt) < s.ttl
	s.mu.RUnlock()
	if fresh {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.httpClient.Timeout*3)
	defer cancel()
	if err := s.Refresh(ctx, false); err != nil {
		telemetry.Warnf("moneypuck: refresh failed, serving stale tables: %v", err)
	}
}
