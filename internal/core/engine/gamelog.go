package engine

import (
	"context"
	"sort"
	"time"

	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/nhl"
)

const dateLayout = "2006-01-02"

// recentGame is one completed game inside the fatigue lookback window.
type recentGame struct {
	date     string
	opponent string
	isAway   bool
	daysAgo  int
}

// recentGames returns the team's completed games from the last lookbackDays
// days, nearest first. Today's game (daysAgo 0) is excluded.
func (e *Engine) recentGames(ctx context.Context, team string, lookbackDays int) []recentGame {
	today := dateOnly(e.now())

	var recent []recentGame
	for _, g := range e.cache.TeamGames(ctx, team, nhl.SeasonCurrent) {
		if !g.Completed() {
			continue
		}
		gameDate, err := time.Parse(dateLayout, g.Date)
		if err != nil {
			continue
		}
		daysAgo := int(today.Sub(gameDate).Hours() / 24)
		if daysAgo < 1 || daysAgo > lookbackDays {
			continue
		}

		switch team {
		case g.HomeTeam:
			recent = append(recent, recentGame{date: g.Date, opponent: g.AwayTeam, isAway: false, daysAgo: daysAgo})
		case g.AwayTeam:
			recent = append(recent, recentGame{date: g.Date, opponent: g.HomeTeam, isAway: true, daysAgo: daysAgo})
		}
	}

	sort.SliceStable(recent, func(i, j int) bool { return recent[i].daysAgo < recent[j].daysAgo })
	return recent
}

// LastTen returns the team's ten most recent completed games, newest first.
// A loss past regulation counts as an OT loss.
func (e *Engine) LastTen(ctx context.Context, team string) []model.GameLogEntry {
	var completed []model.GameLogEntry
	for _, g := range e.cache.TeamGames(ctx, team, nhl.SeasonCurrent) {
		if !g.Completed() {
			continue
		}

		entry := model.GameLogEntry{Date: g.Date}
		if g.HomeTeam == team {
			entry.Opponent = g.AwayTeam
			entry.GoalsFor, entry.GoalsAgainst = g.HomeScore, g.AwayScore
		} else if g.AwayTeam == team {
			entry.Opponent = g.HomeTeam
			entry.IsAway = true
			entry.GoalsFor, entry.GoalsAgainst = g.AwayScore, g.HomeScore
		} else {
			continue
		}

		switch {
		case entry.GoalsFor > entry.GoalsAgainst:
			entry.Result = model.ResultWin
		case g.LastPeriod > 3:
			entry.Result = model.ResultOTLoss
		default:
			entry.Result = model.ResultLoss
		}

		completed = append(completed, entry)
	}

	sort.SliceStable(completed, func(i, j int) bool { return completed[i].Date > completed[j].Date })
	if len(completed) > 10 {
		completed = completed[:10]
	}
	return completed
}

// headToHead returns up to maxGames completed meetings between team and
// opponent across the current and previous seasons, newest first, scored
// from team's perspective.
func (e *Engine) headToHead(ctx context.Context, team, opponent string, maxGames int) []model.HeadToHeadEntry {
	_, previous := nhl.Seasons(e.now())

	var meetings []model.HeadToHeadEntry
	for _, season := range []string{nhl.SeasonCurrent, previous} {
		for _, g := range e.cache.TeamGames(ctx, team, season) {
			if !g.Completed() {
				continue
			}
			if g.HomeTeam != opponent && g.AwayTeam != opponent {
				continue
			}

			gf, ga := g.HomeScore, g.AwayScore
			if g.AwayTeam == team {
				gf, ga = g.AwayScore, g.HomeScore
			}
			meetings = append(meetings, model.HeadToHeadEntry{
				Date:         g.Date,
				GoalsFor:     gf,
				GoalsAgainst: ga,
				Won:          gf > ga,
				GoalDiff:     gf - ga,
			})
		}
	}

	sort.SliceStable(meetings, func(i, j int) bool { return meetings[i].Date > meetings[j].Date })
	if len(meetings) > maxGames {
		meetings = meetings[:maxGames]
	}
	return meetings
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
