package engine

import (
	"context"
	"fmt"

	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/nhl"
)

const (
	h2hDepthDivision   = 8
	h2hDepthConference = 6
	h2hDepthDefault    = 4
	h2hMinMeetings     = 2

	h2hWinCoefficient = 0.08
	h2hGDCoefficient  = 0.01
	h2hFloor          = 0.94
	h2hCeiling        = 1.06
)

// h2hDepth picks the lookback by how often the teams meet: divisional
// rivals play the most, cross-conference opponents the least.
func h2hDepth(team, opponent string) int {
	teamDiv, ok1 := nhl.DivisionOf(team)
	oppDiv, ok2 := nhl.DivisionOf(opponent)
	if ok1 && ok2 && teamDiv == oppDiv {
		return h2hDepthDivision
	}

	teamConf, ok1 := nhl.ConferenceOf(team)
	oppConf, ok2 := nhl.ConferenceOf(opponent)
	if ok1 && ok2 && teamConf == oppConf {
		return h2hDepthConference
	}
	return h2hDepthDefault
}

// headToHeadMultiplier scores recent meetings with the opponent. Win rate
// above or below a coin flip and average goal differential each contribute
// a bounded bonus.
func (e *Engine) headToHeadMultiplier(ctx context.Context, team, opponent string) model.Multiplier {
	meetings := e.headToHead(ctx, team, opponent, h2hDepth(team, opponent))
	if len(meetings) < h2hMinMeetings {
		return model.Neutral("No H2H data")
	}

	wins, totalGD := 0, 0
	for _, m := range meetings {
		if m.Won {
			wins++
		}
		totalGD += m.GoalDiff
	}

	total := float64(len(meetings))
	winPct := float64(wins) / total
	avgGD := float64(totalGD) / total

	mult := 1.0 + (winPct-0.5)*h2hWinCoefficient + avgGD*h2hGDCoefficient
	mult = clamp(mult, h2hFloor, h2hCeiling)

	summary := fmt.Sprintf("%d-%d (%+.1f GD)", wins, len(meetings)-wins, avgGD)
	return model.Multiplier{Factor: mult, Summary: summary}
}
