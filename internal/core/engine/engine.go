package engine

import (
	"context"
	"errors"
	"time"

	"github.com/chladner/hockeyquant/internal/core/model"
)

// ErrNoSeasonRecord means the standings table cannot resolve a team, or the
// team has no completed games to score from. Fatal for that team's analysis
// only; a slate run skips the game and continues.
var ErrNoSeasonRecord = errors.New("no season record")

// StandingsProvider supplies the season standings table.
type StandingsProvider interface {
	FetchStandings(ctx context.Context) ([]model.TeamSeasonRecord, error)
}

// ScheduleProvider supplies per-team season game logs and the slate for a
// date. Satisfied by *nhlapi.Client.
type ScheduleProvider interface {
	FetchTeamGames(ctx context.Context, team, season string) ([]model.ScheduleGame, error)
	FetchGamesForDate(ctx context.Context, date string) ([]model.Matchup, error)
}

// StatsProvider serves the season-aggregate tables. Satisfied by
// *moneypuck.Store.
type StatsProvider interface {
	TeamSplits(team string) (model.TeamSplits, bool)
	Goalies(team string) []model.GoalieSeason
	Skaters(team string) []model.SkaterSeason
}

// InjuryProvider serves the injury feed. Satisfied by *espn.Feed.
type InjuryProvider interface {
	Injuries(team string) []string
	Refresh(ctx context.Context) error
}

// Engine is the prediction engine: base quality from season aggregates and
// goaltending, five situational multipliers, deterministic composition.
type Engine struct {
	stats    StatsProvider
	injuries InjuryProvider
	schedule ScheduleProvider
	cache    *RunCache

	// now is swappable so day-relative lookbacks are testable.
	now func() time.Time
}

func New(standings StandingsProvider, schedule ScheduleProvider, stats StatsProvider, injuries InjuryProvider) *Engine {
	return &Engine{
		stats:    stats,
		injuries: injuries,
		schedule: schedule,
		cache:    NewRunCache(standings, schedule),
		now:      time.Now,
	}
}

// Cache exposes the run-scoped fetch cache, mainly so callers can warm or
// clear it around interactive recomputations.
func (e *Engine) Cache() *RunCache {
	return e.cache
}
