package engine

import (
	"fmt"
	"strings"

	"github.com/chladner/hockeyquant/internal/core/model"
)

const (
	// League-average fallbacks for teams with no recorded situations.
	leaguePPPct        = 0.20
	leaguePKPct        = 0.80
	leaguePKSituations = 3.0

	stEdgeCoefficient = 0.015
	stFloor           = 0.95
	stCeiling         = 1.05
)

// specialTeamsRecord derives PP conversion and PK success rates from the
// situational splits. Zero-opportunity teams get the league-average rates
// rather than a divide-by-zero.
func (e *Engine) specialTeamsRecord(team string) *model.SpecialTeamsRecord {
	splits, ok := e.stats.TeamSplits(team)
	if !ok || splits.GamesPlayed == 0 {
		return nil
	}

	rec := &model.SpecialTeamsRecord{
		Team:                team,
		PowerPlayPct:        leaguePPPct,
		PenaltyKillPct:      leaguePKPct,
		PKSituationsPerGame: leaguePKSituations,
	}
	if splits.PenaltiesAgainst > 0 {
		rec.PowerPlayPct = splits.PPGoalsFor / splits.PenaltiesAgainst
	}
	if splits.PenaltiesFor > 0 {
		rec.PenaltyKillPct = 1 - splits.PKGoalsAgainst/splits.PenaltiesFor
		rec.PKSituationsPerGame = splits.PenaltiesFor / splits.GamesPlayed
	}
	return rec
}

// specialTeamsMultiplier scores the PP and PK matchup edges. The power-play
// edge is weighted by how often the opponent is short-handed; the
// penalty-kill edge by how often the team itself is.
func specialTeamsMultiplier(team, opp *model.SpecialTeamsRecord) model.Multiplier {
	if team == nil || opp == nil {
		return model.Neutral("No ST data")
	}

	ppEdge := team.PowerPlayPct - (1 - opp.PenaltyKillPct)
	ppImpact := ppEdge * opp.PKSituationsPerGame

	pkEdge := team.PenaltyKillPct - (1 - opp.PowerPlayPct)
	pkImpact := pkEdge * team.PKSituationsPerGame

	mult := clamp(1.0+(ppImpact+pkImpact)*stEdgeCoefficient, stFloor, stCeiling)

	var reasons []string
	if team.PowerPlayPct > 0.22 || team.PowerPlayPct < 0.17 {
		reasons = append(reasons, fmt.Sprintf("PP %.0f%%", team.PowerPlayPct*100))
	}
	if opp.PenaltyKillPct < 0.78 || opp.PenaltyKillPct > 0.82 {
		reasons = append(reasons, fmt.Sprintf("vs PK %.0f%%", opp.PenaltyKillPct*100))
	}

	summary := "Neutral ST"
	if len(reasons) > 0 {
		summary = strings.Join(reasons, ", ")
	}
	return model.Multiplier{Factor: mult, Summary: summary}
}
