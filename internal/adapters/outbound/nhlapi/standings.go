package nhlapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chladner/hockeyquant/internal/core/model"
)

type standingsResponse struct {
	Standings []standingsRow `json:"standings"`
}

type standingsRow struct {
	TeamAbbrev  localized `json:"teamAbbrev"`
	Wins        int       `json:"wins"`
	Losses      int       `json:"losses"`
	OTLosses    int       `json:"otLosses"`
	Points      int       `json:"points"`
	GoalFor     int       `json:"goalFor"`
	GoalAgainst int       `json:"goalAgainst"`
}

type localized struct {
	Default string `json:"default"`
}

// FetchStandings returns the current season standings table.
func (c *Client) FetchStandings(ctx context.Context) ([]model.TeamSeasonRecord, error) {
	body, err := c.get(ctx, "/standings/now")
	if err != nil {
		return nil, err
	}

	var resp standingsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse standings: %w", err)
	}

	records := make([]model.TeamSeasonRecord, 0, len(resp.Standings))
	for _, row := range resp.Standings {
		if row.TeamAbbrev.Default == "" {
			continue
		}
		records = append(records, model.TeamSeasonRecord{
			Team:         row.TeamAbbrev.Default,
			Wins:         row.Wins,
			Losses:       row.Losses,
			OTLosses:     row.OTLosses,
			Points:       row.Points,
			GoalsFor:     row.GoalFor,
			GoalsAgainst: row.GoalAgainst,
		})
	}
	return records, nil
}
