package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/nhl"
)

const fatigueLookbackDays = 7

// fatigueMultiplier weighs rest, travel pattern, and timezone shifts over
// the last week. Deliberately unclamped: a cross-country back-to-back at the
// end of a choppy road stretch stacks every penalty.
func (e *Engine) fatigueMultiplier(ctx context.Context, team, opponent string, isAway bool) model.Multiplier {
	recent := e.recentGames(ctx, team, fatigueLookbackDays)
	if len(recent) == 0 {
		return model.Neutral("No recent data")
	}

	last := recent[0]
	mult := 1.0
	var reasons []string

	switch {
	case last.daysAgo == 1:
		mult *= 0.96
		reasons = append(reasons, "B2B (-4%)")
		if last.isAway && isAway {
			mult *= 0.98
			reasons = append(reasons, "Away B2B (-2%)")
		}
	case last.daysAgo == 2:
		mult *= 0.98
		reasons = append(reasons, "1 day rest (-2%)")
	case last.daysAgo >= 4:
		mult *= 1.01
		reasons = append(reasons, "Well rested (+1%)")
	}

	awayCount, homeCount := 0, 0
	for _, g := range recent {
		if g.isAway {
			awayCount++
		} else {
			homeCount++
		}
	}

	if len(recent) >= 3 {
		// recent is nearest-first; count home/away flips along the window.
		alternations := 0
		for i := 0; i < len(recent)-1; i++ {
			if recent[i].isAway != recent[i+1].isAway {
				alternations++
			}
		}

		switch {
		case alternations >= 2 && awayCount >= 2:
			mult *= 0.97
			reasons = append(reasons, "Choppy travel")
		case awayCount >= 3 && alternations <= 1:
			mult *= 0.98
			reasons = append(reasons, "Road trip")
		case awayCount == 2 && homeCount >= 1:
			mult *= 0.99
			reasons = append(reasons, "Mixed schedule")
		}
	}

	if homeCount >= 3 && awayCount == 0 {
		mult *= 1.02
		reasons = append(reasons, "Homestand (+2%)")
	}

	if isAway {
		// The city just departed is home ice unless the last game was on
		// the road.
		fromTZ := nhl.TimezoneOffset(team)
		if last.isAway {
			fromTZ = nhl.TimezoneOffset(last.opponent)
		}
		toTZ := nhl.TimezoneOffset(opponent)
		if delta := toTZ - fromTZ; delta >= 3 || delta <= -3 {
			mult *= 0.97
			reasons = append(reasons, "Cross-country")
		}
	}

	summary := fmt.Sprintf("%d days rest", last.daysAgo)
	if len(reasons) > 0 {
		summary = strings.Join(reasons, ", ")
	}
	return model.Multiplier{Factor: mult, Summary: summary}
}
