package engine

import (
	"sort"
	"strings"

	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/nhl"
)

const (
	starterMinGames = 5
	backupMinGames  = 3

	// Composite score weights and normalization bands.
	gsaxWeight = 0.50
	gsaxBand   = 40.0
	svWeight   = 0.30
	svFloor    = 0.890
	svBand     = 0.040
	gaaWeight  = 0.20
	gaaFloor   = 2.0
	gaaBand    = 2.0
)

// Starter picks the projected starting goalie. A non-empty override is
// looked up by exact name, then by case-insensitive substring; an unknown
// override silently falls back to auto-selection. Auto-selection takes the
// most-played goalie with at least 5 games (or from the whole roster when
// nobody qualifies).
func (e *Engine) Starter(team, override string) *model.GoalieProfile {
	goalies := e.stats.Goalies(team)
	if len(goalies) == 0 {
		return nil
	}

	if override != "" {
		if g := findGoalie(goalies, override); g != nil {
			return g
		}
	}

	pool := withMinGames(goalies, starterMinGames)
	if len(pool) == 0 {
		pool = goalies
	}

	byGames := make([]model.GoalieSeason, len(pool))
	copy(byGames, pool)
	sort.SliceStable(byGames, func(i, j int) bool {
		return byGames[i].GamesPlayed > byGames[j].GamesPlayed
	})

	profile := byGames[0].Profile()
	return &profile
}

// Backup picks the second-most-played goalie with at least 3 games, or nil
// when fewer than two qualify.
func (e *Engine) Backup(team string) *model.GoalieProfile {
	goalies := e.stats.Goalies(team)
	if len(goalies) < 2 {
		return nil
	}

	pool := withMinGames(goalies, backupMinGames)
	if len(pool) < 2 {
		pool = goalies
	}

	byGames := make([]model.GoalieSeason, len(pool))
	copy(byGames, pool)
	sort.SliceStable(byGames, func(i, j int) bool {
		return byGames[i].GamesPlayed > byGames[j].GamesPlayed
	})
	if len(byGames) < 2 {
		return nil
	}

	profile := byGames[1].Profile()
	return &profile
}

// GoalieScore composes GSAx, save percentage, and GAA into [0,1]. Each
// component is normalized over its band and clamped before weighting, so
// out-of-band raw stats saturate rather than distort. A missing goalie is
// a neutral 0.5.
func GoalieScore(g *model.GoalieProfile) float64 {
	if g == nil {
		return 0.5
	}
	gsaxNorm := clamp01(0.5 + g.GSAx/gsaxBand)
	svNorm := clamp01((g.SavePct - svFloor) / svBand)
	gaaNorm := clamp01(1 - (g.GAA-gaaFloor)/gaaBand)
	return gsaxNorm*gsaxWeight + svNorm*svWeight + gaaNorm*gaaWeight
}

func findGoalie(goalies []model.GoalieSeason, name string) *model.GoalieProfile {
	for _, g := range goalies {
		if g.Name == name {
			profile := g.Profile()
			return &profile
		}
	}

	needle := strings.ToLower(name)
	for _, g := range goalies {
		if strings.Contains(strings.ToLower(g.Name), needle) {
			profile := g.Profile()
			return &profile
		}
	}

	// Last resort for provider spelling differences (accents, initials).
	needle = nhl.Normalize(name)
	for _, g := range goalies {
		if strings.Contains(nhl.Normalize(g.Name), needle) {
			profile := g.Profile()
			return &profile
		}
	}

	return nil
}

func withMinGames(goalies []model.GoalieSeason, min int) []model.GoalieSeason {
	var pool []model.GoalieSeason
	for _, g := range goalies {
		if g.GamesPlayed >= min {
			pool = append(pool, g)
		}
	}
	return pool
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
