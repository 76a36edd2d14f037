package moneypuck

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/telemetry"
)

// row is one CSV record with header-keyed access.
type row struct {
	header map[string]int
	fields []string
}

func (r row) str(col string) string {
	i, ok := r.header[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

func (r row) num(col string) float64 {
	v, err := strconv.ParseFloat(r.str(col), 64)
	if err != nil {
		return 0
	}
	return v
}

func (s *Store) fetchCSV(ctx context.Context, url string) ([]row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	telemetry.Metrics.UpstreamRequests.Inc()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		telemetry.Metrics.UpstreamErrors.Inc()
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		telemetry.Metrics.UpstreamErrors.Inc()
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("GET %s: empty table", url)
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[name] = i
	}

	rows := make([]row, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, row{header: header, fields: rec})
	}
	return rows, nil
}

// parseTeamSplits folds the per-situation team rows ("all", "5on4", "4on5")
// into one TeamSplits per team.
func parseTeamSplits(rows []row) map[string]model.TeamSplits {
	splits := make(map[string]model.TeamSplits)
	for _, r := range rows {
		team := r.str("team")
		if team == "" {
			continue
		}
		sp := splits[team]
		sp.Team = team
		switch r.str("situation") {
		case "all":
			sp.GamesPlayed = r.num("games_played")
			sp.PenaltiesFor = r.num("penaltiesFor")
			sp.PenaltiesAgainst = r.num("penaltiesAgainst")
			sp.XGoalsFor = r.num("xGoalsFor")
			sp.XGoalsAgainst = r.num("xGoalsAgainst")
		case "5on4":
			sp.PPGoalsFor = r.num("goalsFor")
		case "4on5":
			sp.PKGoalsAgainst = r.num("goalsAgainst")
		}
		splits[team] = sp
	}
	return splits
}

func parseGoalies(rows []row) map[string][]model.GoalieSeason {
	goalies := make(map[string][]model.GoalieSeason)
	for _, r := range rows {
		if r.str("situation") != "all" {
			continue
		}
		team := r.str("team")
		name := r.str("name")
		if team == "" || name == "" {
			continue
		}
		goalies[team] = append(goalies[team], model.GoalieSeason{
			Name:        name,
			Team:        team,
			GamesPlayed: int(r.num("games_played")),
			XGoals:      r.num("xGoals"),
			Goals:       r.num("goals"),
			ShotsOnGoal: r.num("ongoal"),
			IceTimeSec:  r.num("icetime"),
		})
	}
	return goalies
}

func parseSkaters(rows []row) map[string][]model.SkaterSeason {
	skaters := make(map[string][]model.SkaterSeason)
	for _, r := range rows {
		if r.str("situation") != "all" {
			continue
		}
		team := r.str("team")
		name := r.str("name")
		if team == "" || name == "" {
			continue
		}
		skaters[team] = append(skaters[team], model.SkaterSeason{
			Name:             name,
			Team:             team,
			Goals:            r.num("I_F_goals"),
			PrimaryAssists:   r.num("I_F_primaryAssists"),
			SecondaryAssists: r.num("I_F_secondaryAssists"),
			IceTimeSec:       r.num("icetime"),
			XGoalsFor:        r.num("xGoalsFor"),
		})
	}
	return skaters
}
