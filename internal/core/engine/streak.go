package engine

import (
	"fmt"
	"strings"

	"github.com/chladner/hockeyquant/internal/core/model"
)

const streakMinGames = 5

// streakMultiplier compares last-10 form against the season baseline. The
// base term is a discrete step on recent-vs-season win percentage; goals-for
// and goals-against pace and a 5+ game run each layer a small multiplicative
// adjustment on top. Like fatigue, the composed result is unclamped.
func streakMultiplier(lastTen []model.GameLogEntry, season model.TeamSeasonRecord) model.Multiplier {
	if len(lastTen) < streakMinGames {
		return model.Neutral("Insufficient data")
	}
	if season.GamesPlayed() == 0 {
		return model.Neutral("No season data")
	}

	wins, losses, otl := 0, 0, 0
	gf, ga := 0, 0
	for _, g := range lastTen {
		switch g.Result {
		case model.ResultWin:
			wins++
		case model.ResultOTLoss:
			otl++
		default:
			losses++
		}
		gf += g.GoalsFor
		ga += g.GoalsAgainst
	}

	n := float64(len(lastTen))
	recentWinPct := (float64(wins) + 0.5*float64(otl)) / n
	recentGFPerGame := float64(gf) / n
	recentGAPerGame := float64(ga) / n

	gp := float64(season.GamesPlayed())
	seasonGFPerGame := float64(season.GoalsFor) / gp
	seasonGAPerGame := float64(season.GoalsAgainst) / gp

	formDiff := recentWinPct - season.WinPct()
	mult := 1.0
	var reasons []string

	switch {
	case formDiff >= 0.15:
		mult = 1.05
		reasons = append(reasons, "Hot")
	case formDiff >= 0.10:
		mult = 1.03
		reasons = append(reasons, "Warming")
	case formDiff <= -0.15:
		mult = 0.95
		reasons = append(reasons, "Cold")
	case formDiff <= -0.10:
		mult = 0.97
		reasons = append(reasons, "Cooling")
	}

	switch gfDiff := recentGFPerGame - seasonGFPerGame; {
	case gfDiff >= 0.5:
		mult *= 1.02
	case gfDiff >= 0.3:
		mult *= 1.01
	case gfDiff <= -0.5:
		mult *= 0.98
	case gfDiff <= -0.3:
		mult *= 0.99
	}

	switch gaDiff := recentGAPerGame - seasonGAPerGame; {
	case gaDiff <= -0.5:
		mult *= 1.02
	case gaDiff <= -0.3:
		mult *= 1.01
	case gaDiff >= 0.5:
		mult *= 0.98
	case gaDiff >= 0.3:
		mult *= 0.99
	}

	// Run of identical results, newest first, broken by the opposite kind.
	consecW, consecL := 0, 0
	for _, g := range lastTen {
		if g.Result == model.ResultWin {
			if consecL > 0 {
				break
			}
			consecW++
		} else {
			if consecW > 0 {
				break
			}
			consecL++
		}
	}

	if consecW >= 5 {
		mult *= 1.02
		reasons = append(reasons, fmt.Sprintf("%dW streak", consecW))
	} else if consecL >= 5 {
		mult *= 0.98
		reasons = append(reasons, fmt.Sprintf("%dL streak", consecL))
	}

	summary := fmt.Sprintf("%d-%d-%d L10", wins, losses, otl)
	if len(reasons) > 0 {
		summary += " (" + strings.Join(reasons, ", ") + ")"
	}
	return model.Multiplier{Factor: mult, Summary: summary}
}
