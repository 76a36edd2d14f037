package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/nhl"
)

func TestH2HDepthByRivalry(t *testing.T) {
	assert.Equal(t, 8, h2hDepth("BOS", "TOR")) // both Atlantic
	assert.Equal(t, 6, h2hDepth("BOS", "NYR")) // both Eastern
	assert.Equal(t, 4, h2hDepth("BOS", "EDM")) // cross-conference
}

func TestHeadToHeadTooFewMeetings(t *testing.T) {
	schedule := scheduleFor("BOS", completed("2026-01-10", "BOS", "TOR", 4, 2))
	e := newTestEngine(nil, schedule, nil, nil)

	m := e.headToHeadMultiplier(context.Background(), "BOS", "TOR")
	assert.Equal(t, 1.0, m.Factor)
	assert.Equal(t, "No H2H data", m.Summary)
}

func TestHeadToHeadDominantRecord(t *testing.T) {
	// Four straight one-goal wins over a divisional rival.
	schedule := scheduleFor("BOS",
		completed("2025-12-01", "BOS", "TOR", 3, 2),
		completed("2025-11-01", "TOR", "BOS", 2, 3),
		completed("2025-10-20", "BOS", "TOR", 4, 3),
		completed("2025-10-05", "TOR", "BOS", 1, 2),
	)
	e := newTestEngine(nil, schedule, nil, nil)

	m := e.headToHeadMultiplier(context.Background(), "BOS", "TOR")
	// winPct 1.0 and avg GD +1: 1 + 0.5*0.08 + 1*0.01.
	assert.InDelta(t, 1.05, m.Factor, 1e-9)
	assert.Contains(t, m.Summary, "4-0")
}

func TestHeadToHeadClampedAtCeiling(t *testing.T) {
	schedule := scheduleFor("BOS",
		completed("2025-12-01", "TOR", "BOS", 0, 8),
		completed("2025-11-01", "BOS", "TOR", 7, 1),
	)
	e := newTestEngine(nil, schedule, nil, nil)

	m := e.headToHeadMultiplier(context.Background(), "BOS", "TOR")
	assert.Equal(t, 1.06, m.Factor)
}

func TestHeadToHeadUsesOnlyNewestMeetings(t *testing.T) {
	// Ten meetings with a divisional rival: only the newest eight count.
	// The two oldest are blowout losses that would drag the factor down.
	var games []model.ScheduleGame
	for i := 0; i < 8; i++ {
		games = append(games, completed(fmt.Sprintf("2025-12-%02d", 20-i), "BOS", "TOR", 3, 2))
	}
	games = append(games,
		completed("2025-10-02", "TOR", "BOS", 9, 0),
		completed("2025-10-01", "BOS", "TOR", 0, 9),
	)
	schedule := scheduleFor("BOS", games...)
	e := newTestEngine(nil, schedule, nil, nil)

	m := e.headToHeadMultiplier(context.Background(), "BOS", "TOR")
	assert.Contains(t, m.Summary, "8-0")
}

func TestHeadToHeadSpansPreviousSeason(t *testing.T) {
	_, previous := nhl.Seasons(testNow)
	schedule := &stubSchedule{games: map[string][]model.ScheduleGame{
		"BOS/" + nhl.SeasonCurrent: {completed("2025-11-01", "BOS", "TOR", 3, 2)},
		"BOS/" + previous:          {completed("2025-03-01", "TOR", "BOS", 1, 4)},
	}}
	e := newTestEngine(nil, schedule, nil, nil)

	m := e.headToHeadMultiplier(context.Background(), "BOS", "TOR")
	assert.NotEqual(t, "No H2H data", m.Summary)
	assert.Greater(t, m.Factor, 1.0)
}
