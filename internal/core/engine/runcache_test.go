package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/nhl"
)

func TestRunCacheStandingsFetchedOnce(t *testing.T) {
	standings := &stubStandings{rows: []model.TeamSeasonRecord{record("BOS", 20, 10, 2, 100, 80)}}
	cache := NewRunCache(standings, &stubSchedule{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows := cache.Standings(context.Background())
			assert.Len(t, rows, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, standings.callCount())
}

func TestRunCacheStandingsFailureMemoized(t *testing.T) {
	standings := &stubStandings{err: errors.New("upstream down")}
	cache := NewRunCache(standings, &stubSchedule{})

	assert.Empty(t, cache.Standings(context.Background()))
	assert.Empty(t, cache.Standings(context.Background()))
	assert.Equal(t, 1, standings.callCount())
}

func TestRunCacheTeamGamesMemoizedPerKey(t *testing.T) {
	schedule := &stubSchedule{games: map[string][]model.ScheduleGame{
		"BOS/" + nhl.SeasonCurrent: {completed("2026-01-10", "NYR", "BOS", 2, 3)},
	}}
	cache := NewRunCache(&stubStandings{}, schedule)

	for i := 0; i < 5; i++ {
		games := cache.TeamGames(context.Background(), "BOS", nhl.SeasonCurrent)
		assert.Len(t, games, 1)
	}
	cache.TeamGames(context.Background(), "BOS", "20242025")

	schedule.mu.Lock()
	defer schedule.mu.Unlock()
	assert.Equal(t, 1, schedule.calls["BOS/"+nhl.SeasonCurrent])
	assert.Equal(t, 1, schedule.calls["BOS/20242025"])
}

func TestRunCacheEmptySeasonNormalized(t *testing.T) {
	schedule := &stubSchedule{}
	cache := NewRunCache(&stubStandings{}, schedule)

	cache.TeamGames(context.Background(), "BOS", "")
	cache.TeamGames(context.Background(), "BOS", nhl.SeasonCurrent)

	schedule.mu.Lock()
	defer schedule.mu.Unlock()
	assert.Equal(t, 1, schedule.calls["BOS/"+nhl.SeasonCurrent])
}

func TestRunCacheClear(t *testing.T) {
	standings := &stubStandings{rows: []model.TeamSeasonRecord{record("BOS", 20, 10, 2, 100, 80)}}
	cache := NewRunCache(standings, &stubSchedule{})

	cache.Standings(context.Background())
	cache.Clear()
	cache.Standings(context.Background())

	assert.Equal(t, 2, standings.callCount())
}

func TestRunCacheSharedAcrossCalculators(t *testing.T) {
	// One analysis touches fatigue, streak, and head-to-head; the team's
	// current-season game log must still be fetched exactly once.
	standings := &stubStandings{rows: []model.TeamSeasonRecord{
		record("BOS", 20, 10, 2, 100, 80),
		record("TOR", 15, 15, 2, 90, 95),
	}}
	schedule := &stubSchedule{games: map[string][]model.ScheduleGame{
		"BOS/" + nhl.SeasonCurrent: {completed("2026-01-12", "NYR", "BOS", 2, 3)},
	}}
	e := newTestEngine(standings, schedule, nil, nil)

	_, err := e.AnalyzeTeam(context.Background(), "BOS", "TOR", false, "")
	assert.NoError(t, err)

	schedule.mu.Lock()
	defer schedule.mu.Unlock()
	assert.Equal(t, 1, schedule.calls["BOS/"+nhl.SeasonCurrent])
}
