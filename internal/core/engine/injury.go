package engine

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/nhl"
)

const (
	// Importance weights and normalization caps.
	importancePointsWeight = 0.40
	importancePointsCap    = 100.0
	importanceTOIWeight    = 0.35
	importanceTOICapHours  = 30.0
	importanceXGFWeight    = 0.25
	importanceXGFCap       = 60.0

	// A name the skater table cannot resolve still costs something.
	unknownSkaterImportance = 15.0

	injuryCostPerPoint = 0.0005
	injuryFloor        = 0.90

	// Max Levenshtein distance accepted by the fuzzy name fallback.
	fuzzyNameTolerance = 3
)

// injuryMultiplier sums the importance of every injured skater and converts
// it to a penalty: one percent per 20 importance points, floored at 10%.
func (e *Engine) injuryMultiplier(team string) model.Multiplier {
	injured := e.injuries.Injuries(team)
	if len(injured) == 0 {
		return model.Neutral("Healthy")
	}

	total := 0.0
	for _, name := range injured {
		total += e.playerImportance(team, name)
	}

	mult := 1.0 - total*injuryCostPerPoint
	if mult < injuryFloor {
		mult = injuryFloor
	}

	summary := strings.Join(injured[:min(len(injured), 2)], ", ")
	if len(injured) > 2 {
		summary = fmt.Sprintf("%d out", len(injured))
	}
	return model.Multiplier{Factor: mult, Summary: summary}
}

// playerImportance scores a skater 0-100 from season points, total ice time,
// and on-ice expected goals.
func (e *Engine) playerImportance(team, playerName string) float64 {
	skaters := e.stats.Skaters(team)
	if len(skaters) == 0 {
		return unknownSkaterImportance
	}

	matched := matchSkater(skaters, playerName)
	if matched == nil {
		return unknownSkaterImportance
	}

	pts := matched.Points()
	toiHours := matched.IceTimeSec / 3600

	importance := (minf(1, pts/importancePointsCap)*importancePointsWeight +
		minf(1, toiHours/importanceTOICapHours)*importanceTOIWeight +
		minf(1, matched.XGoalsFor/importanceXGFCap)*importanceXGFWeight) * 100
	return minf(100, importance)
}

// matchSkater resolves an injury-report name against the skater table: full
// name substring first, then bare surname, then a bounded Levenshtein pass
// to absorb spelling drift between providers.
func matchSkater(skaters []model.SkaterSeason, playerName string) *model.SkaterSeason {
	needle := nhl.Normalize(playerName)
	if needle == "" {
		return nil
	}

	for i := range skaters {
		if strings.Contains(nhl.Normalize(skaters[i].Name), needle) {
			return &skaters[i]
		}
	}

	parts := strings.Fields(needle)
	if len(parts) > 0 {
		surname := parts[len(parts)-1]
		for i := range skaters {
			if strings.Contains(nhl.Normalize(skaters[i].Name), surname) {
				return &skaters[i]
			}
		}
	}

	best, bestDist := -1, fuzzyNameTolerance+1
	for i := range skaters {
		dist := fuzzy.LevenshteinDistance(nhl.Normalize(skaters[i].Name), needle)
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best >= 0 {
		return &skaters[best]
	}
	return nil
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
