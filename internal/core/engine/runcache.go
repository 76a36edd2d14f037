package engine

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/nhl"
	"github.com/chladner/hockeyquant/internal/telemetry"
)

// RunCache memoizes standings and per-team game-log fetches for the lifetime
// of one analysis run. Fatigue, streak, and head-to-head all walk the same
// game log; without the cache a five-game slate would refetch each team's
// schedule up to three times. Clear it before every fresh slate run;
// schedule data can change between runs.
//
// A failed fetch memoizes an empty result rather than an error, so
// downstream calculators degrade to their "insufficient data" outcome
// instead of failing the team. Concurrent first misses on one key collapse
// into a single upstream call.
type RunCache struct {
	standings StandingsProvider
	schedule  ScheduleProvider
	sf        singleflight.Group

	mu            sync.Mutex
	standingsRows []model.TeamSeasonRecord
	haveStandings bool
	games         map[string][]model.ScheduleGame
}

func NewRunCache(standings StandingsProvider, schedule ScheduleProvider) *RunCache {
	return &RunCache{
		standings: standings,
		schedule:  schedule,
		games:     make(map[string][]model.ScheduleGame),
	}
}

// Clear drops every memoized entry.
func (c *RunCache) Clear() {
	c.mu.Lock()
	c.standingsRows = nil
	c.haveStandings = false
	c.games = make(map[string][]model.ScheduleGame)
	c.mu.Unlock()
}

// Standings returns the memoized standings table, fetching it at most once
// per run.
func (c *RunCache) Standings(ctx context.Context) []model.TeamSeasonRecord {
	c.mu.Lock()
	if c.haveStandings {
		rows := c.standingsRows
		c.mu.Unlock()
		return rows
	}
	c.mu.Unlock()

	v, _, _ := c.sf.Do("standings", func() (any, error) {
		c.mu.Lock()
		if c.haveStandings {
			rows := c.standingsRows
			c.mu.Unlock()
			return rows, nil
		}
		c.mu.Unlock()

		rows, err := c.standings.FetchStandings(ctx)
		if err != nil {
			telemetry.Warnf("runcache: standings fetch failed: %v", err)
			rows = nil
		}

		c.mu.Lock()
		c.standingsRows = rows
		c.haveStandings = true
		c.mu.Unlock()
		return rows, nil
	})

	rows, _ := v.([]model.TeamSeasonRecord)
	return rows
}

// TeamGames returns a team's season game log, memoized per (team, season).
func (c *RunCache) TeamGames(ctx context.Context, team, season string) []model.ScheduleGame {
	if season == "" {
		season = nhl.SeasonCurrent
	}
	key := team + "/" + season

	c.mu.Lock()
	if games, ok := c.games[key]; ok {
		c.mu.Unlock()
		return games
	}
	c.mu.Unlock()

	v, _, _ := c.sf.Do("games/"+key, func() (any, error) {
		c.mu.Lock()
		if games, ok := c.games[key]; ok {
			c.mu.Unlock()
			return games, nil
		}
		c.mu.Unlock()

		games, err := c.schedule.FetchTeamGames(ctx, team, season)
		if err != nil {
			telemetry.Warnf("runcache: game log fetch for %s (%s) failed: %v", team, season, err)
			games = nil
		}

		c.mu.Lock()
		c.games[key] = games
		c.mu.Unlock()
		return games, nil
	})

	games, _ := v.([]model.ScheduleGame)
	return games
}
