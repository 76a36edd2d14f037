package nhlapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chladner/hockeyquant/internal/core/model"
)

type scoreboardResponse struct {
	Games []struct {
		ID        int64        `json:"id"`
		GameState string       `json:"gameState"`
		AwayTeam  scheduleTeam `json:"awayTeam"`
		HomeTeam  scheduleTeam `json:"homeTeam"`
	} `json:"games"`
}

// FetchResults returns final scores for every completed game on date.
// In-progress and scheduled games are skipped.
func (c *Client) FetchResults(ctx context.Context, date string) ([]model.GameResult, error) {
	body, err := c.get(ctx, "/score/"+date)
	if err != nil {
		return nil, err
	}

	var resp scoreboardResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse scoreboard: %w", err)
	}

	var results []model.GameResult
	for _, g := range resp.Games {
		if g.GameState != "FINAL" && g.GameState != "OFF" {
			continue
		}
		if g.AwayTeam.Abbrev == "" || g.HomeTeam.Abbrev == "" {
			continue
		}

		var winner string
		switch {
		case g.AwayTeam.Score > g.HomeTeam.Score:
			winner = g.AwayTeam.Abbrev
		case g.HomeTeam.Score > g.AwayTeam.Score:
			winner = g.HomeTeam.Abbrev
		}

		results = append(results, model.GameResult{
			GameID:    fmt.Sprintf("%d", g.ID),
			AwayTeam:  g.AwayTeam.Abbrev,
			HomeTeam:  g.HomeTeam.Abbrev,
			AwayFinal: g.AwayTeam.Score,
			HomeFinal: g.HomeTeam.Score,
			Winner:    winner,
		})
	}
	return results, nil
}
