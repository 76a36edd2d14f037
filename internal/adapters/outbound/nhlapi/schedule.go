package nhlapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/nhl"
)

type clubScheduleResponse struct {
	Games []scheduleGame `json:"games"`
}

type scheduleGame struct {
	GameDate         string       `json:"gameDate"`
	GameState        string       `json:"gameState"`
	StartTimeUTC     string       `json:"startTimeUTC"`
	HomeTeam         scheduleTeam `json:"homeTeam"`
	AwayTeam         scheduleTeam `json:"awayTeam"`
	PeriodDescriptor struct {
		Number int `json:"number"`
	} `json:"periodDescriptor"`
}

type scheduleTeam struct {
	Abbrev string `json:"abbrev"`
	Score  int    `json:"score"`
}

type scheduleWeekResponse struct {
	GameWeek []struct {
		Date  string         `json:"date"`
		Games []scheduleGame `json:"games"`
	} `json:"gameWeek"`
}

// FetchTeamGames returns a team's season game list. Season is a code like
// "20252026", or nhl.SeasonCurrent for the in-progress season.
func (c *Client) FetchTeamGames(ctx context.Context, team, season string) ([]model.ScheduleGame, error) {
	seasonPart := season
	if season == nhl.SeasonCurrent || season == "" {
		seasonPart = "now"
	}

	body, err := c.get(ctx, fmt.Sprintf("/club-schedule-season/%s/%s", team, seasonPart))
	if err != nil {
		return nil, err
	}

	var resp clubScheduleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse club schedule: %w", err)
	}

	games := make([]model.ScheduleGame, 0, len(resp.Games))
	for _, g := range resp.Games {
		if g.HomeTeam.Abbrev == "" || g.AwayTeam.Abbrev == "" {
			continue
		}
		period := g.PeriodDescriptor.Number
		if period == 0 {
			period = 3
		}
		games = append(games, model.ScheduleGame{
			Date:       truncateDate(g.GameDate),
			State:      g.GameState,
			HomeTeam:   g.HomeTeam.Abbrev,
			AwayTeam:   g.AwayTeam.Abbrev,
			HomeScore:  g.HomeTeam.Score,
			AwayScore:  g.AwayTeam.Score,
			LastPeriod: period,
		})
	}
	return games, nil
}

// FetchGamesForDate returns the matchups scheduled for date (YYYY-MM-DD).
func (c *Client) FetchGamesForDate(ctx context.Context, date string) ([]model.Matchup, error) {
	resp, err := c.fetchWeek(ctx, date)
	if err != nil {
		return nil, err
	}

	var matchups []model.Matchup
	for _, day := range resp.GameWeek {
		if day.Date != date {
			continue
		}
		for _, g := range day.Games {
			if g.AwayTeam.Abbrev == "" || g.HomeTeam.Abbrev == "" {
				continue
			}
			matchups = append(matchups, model.Matchup{Away: g.AwayTeam.Abbrev, Home: g.HomeTeam.Abbrev})
		}
	}
	return matchups, nil
}

// FetchFirstGameTime returns the UTC start of the earliest game on date, or
// the zero time when the date has no games.
func (c *Client) FetchFirstGameTime(ctx context.Context, date string) (time.Time, error) {
	resp, err := c.fetchWeek(ctx, date)
	if err != nil {
		return time.Time{}, err
	}

	var first time.Time
	for _, day := range resp.GameWeek {
		if day.Date != date {
			continue
		}
		for _, g := range day.Games {
			start, err := time.Parse(time.RFC3339, g.StartTimeUTC)
			if err != nil {
				continue
			}
			if first.IsZero() || start.Before(first) {
				first = start
			}
		}
	}
	return first, nil
}

func (c *Client) fetchWeek(ctx context.Context, date string) (*scheduleWeekResponse, error) {
	body, err := c.get(ctx, "/schedule/"+date)
	if err != nil {
		return nil, err
	}

	var resp scheduleWeekResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse schedule: %w", err)
	}
	return &resp, nil
}

// Game dates sometimes arrive with a time component appended.
func truncateDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
