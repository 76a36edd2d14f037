package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chladner/hockeyquant/internal/core/engine"
	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/core/tracking"
)

type fakeStandings struct {
	rows []model.TeamSeasonRecord
	err  error
}

func (f *fakeStandings) FetchStandings(_ context.Context) ([]model.TeamSeasonRecord, error) {
	return f.rows, f.err
}

type fakeSchedule struct{ slate []model.Matchup }

func (f *fakeSchedule) FetchTeamGames(_ context.Context, _, _ string) ([]model.ScheduleGame, error) {
	return nil, nil
}

func (f *fakeSchedule) FetchGamesForDate(_ context.Context, _ string) ([]model.Matchup, error) {
	return f.slate, nil
}

type fakeStats struct{ goalies map[string][]model.GoalieSeason }

func (f *fakeStats) TeamSplits(_ string) (model.TeamSplits, bool) { return model.TeamSplits{}, false }
func (f *fakeStats) Goalies(team string) []model.GoalieSeason     { return f.goalies[team] }
func (f *fakeStats) Skaters(_ string) []model.SkaterSeason        { return nil }

type fakeInjuries struct{ byTeam map[string][]string }

func (f *fakeInjuries) Injuries(team string) []string   { return f.byTeam[team] }
func (f *fakeInjuries) Refresh(_ context.Context) error { return nil }

type fakeResults struct{ results []model.GameResult }

func (f *fakeResults) FetchResults(_ context.Context, _ string) ([]model.GameResult, error) {
	return f.results, nil
}

func seasonRecord(team string, w, l int, gf, ga int) model.TeamSeasonRecord {
	return model.TeamSeasonRecord{
		Team: team, Wins: w, Losses: l, Points: w * 2,
		GoalsFor: gf, GoalsAgainst: ga,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	standings := &fakeStandings{rows: []model.TeamSeasonRecord{
		seasonRecord("BOS", 30, 8, 140, 80),
		seasonRecord("TOR", 18, 20, 100, 110),
	}}
	schedule := &fakeSchedule{slate: []model.Matchup{{Away: "TOR", Home: "BOS"}}}
	stats := &fakeStats{goalies: map[string][]model.GoalieSeason{
		"BOS": {{Name: "Jeremy Swayman", GamesPlayed: 30, XGoals: 75, Goals: 65, ShotsOnGoal: 800, IceTimeSec: 108000}},
	}}
	injuries := &fakeInjuries{byTeam: map[string][]string{"BOS": {"Hampus Lindholm"}}}

	eng := engine.New(standings, schedule, stats, injuries)

	store, err := tracking.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	results := &fakeResults{results: []model.GameResult{
		{AwayTeam: "TOR", HomeTeam: "BOS", AwayFinal: 2, HomeFinal: 5, Winner: "BOS"},
	}}

	return NewServer(eng, stats, injuries, store, results)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestGETPredictions(t *testing.T) {
	s := newTestServer(t)

	rr := doRequest(t, s, http.MethodGet, "/api/predictions/2026-01-15", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp SlateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "2026-01-15", resp.Date)
	require.Equal(t, 1, resp.Games)
	assert.Equal(t, "BOS", resp.Predictions[0].Pick)
	assert.NotEmpty(t, resp.Predictions[0].Confidence)
}

func TestGETPredictionsBadDate(t *testing.T) {
	s := newTestServer(t)

	rr := doRequest(t, s, http.MethodGet, "/api/predictions/not-a-date", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPOSTPredictionsWithOverrides(t *testing.T) {
	s := newTestServer(t)

	// Warm the cache the way a client would.
	doRequest(t, s, http.MethodGet, "/api/predictions/2026-01-15", "")

	rr := doRequest(t, s, http.MethodPost, "/api/predictions/2026-01-15",
		`{"goalie_overrides":{"BOS":"Swayman"}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp SlateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Games)
	require.NotNil(t, resp.Predictions[0].Home.Goalie)
	assert.Equal(t, "Jeremy Swayman", resp.Predictions[0].Home.Goalie.Name)
}

func TestPOSTPredictionsInvalidBody(t *testing.T) {
	s := newTestServer(t)

	rr := doRequest(t, s, http.MethodPost, "/api/predictions/2026-01-15", "{not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGETTeams(t *testing.T) {
	s := newTestServer(t)

	rr := doRequest(t, s, http.MethodGet, "/api/teams", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var teams []TeamSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &teams))
	assert.Len(t, teams, 32)
}

func TestGETTeamDetail(t *testing.T) {
	s := newTestServer(t)

	rr := doRequest(t, s, http.MethodGet, "/api/teams/bos", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var detail TeamDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
	assert.Equal(t, "BOS", detail.Abbrev)
	assert.Equal(t, "Boston Bruins", detail.Name)
	require.NotNil(t, detail.Record)
	assert.Equal(t, 30, detail.Record.Wins)
	require.NotNil(t, detail.Starter)
	assert.Equal(t, "Jeremy Swayman", detail.Starter.Name)
	assert.Equal(t, []string{"Hampus Lindholm"}, detail.Injuries)
}

func TestGETTeamDetailStandingsUnavailable(t *testing.T) {
	standings := &fakeStandings{err: errors.New("upstream down")}
	stats := &fakeStats{}
	injuries := &fakeInjuries{}
	eng := engine.New(standings, &fakeSchedule{}, stats, injuries)

	store, err := tracking.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	s := NewServer(eng, stats, injuries, store, &fakeResults{})

	rr := doRequest(t, s, http.MethodGet, "/api/teams/BOS", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var detail TeamDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
	assert.Equal(t, "BOS", detail.Abbrev)
	assert.Nil(t, detail.Record)
	assert.Empty(t, detail.RecentForm)
}

func TestGETTeamUnknown(t *testing.T) {
	s := newTestServer(t)

	rr := doRequest(t, s, http.MethodGet, "/api/teams/QQQ", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAccuracyPipeline(t *testing.T) {
	s := newTestServer(t)

	rr := doRequest(t, s, http.MethodPost, "/api/accuracy/store/2026-01-15", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, s, http.MethodPost, "/api/accuracy/grade/2026-01-15", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, s, http.MethodGet, "/api/accuracy/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Stats  tracking.AccuracyStats `json:"stats"`
		Recent []tracking.Record      `json:"recent"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Stats.TotalGames)
	assert.Equal(t, 1, resp.Stats.CorrectPicks)
	require.Len(t, resp.Recent, 1)
	assert.Equal(t, "BOS", resp.Recent[0].Pick)
}

func TestGradePendingEndpoint(t *testing.T) {
	s := newTestServer(t)

	doRequest(t, s, http.MethodPost, "/api/accuracy/store/2026-01-15", "")

	rr := doRequest(t, s, http.MethodPost, "/api/accuracy/grade-pending", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp["dates"])
	assert.Equal(t, 1, resp["graded"])
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rr := doRequest(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)

	rr := doRequest(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var m map[string]int64
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	assert.Contains(t, m, "upstream_requests")
	assert.Contains(t, m, "predictions_stored")
}
