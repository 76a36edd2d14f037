package nhlapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chladner/hockeyquant/internal/nhl"
)

func newTestServer(t *testing.T, routes map[string]string) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL, 5*time.Second)
}

func TestFetchStandings(t *testing.T) {
	_, client := newTestServer(t, map[string]string{
		"/standings/now": `{"standings":[
			{"teamAbbrev":{"default":"BOS"},"wins":25,"losses":10,"otLosses":3,"points":53,"goalFor":130,"goalAgainst":95},
			{"teamAbbrev":{"default":""},"wins":1,"losses":1},
			{"teamAbbrev":{"default":"TOR"},"wins":20,"losses":14,"otLosses":4,"points":44,"goalFor":120,"goalAgainst":115}
		]}`,
	})

	records, err := client.FetchStandings(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "BOS", records[0].Team)
	assert.Equal(t, 25, records[0].Wins)
	assert.Equal(t, 38, records[0].GamesPlayed())
	assert.Equal(t, "TOR", records[1].Team)
}

func TestFetchStandingsUpstreamError(t *testing.T) {
	_, client := newTestServer(t, map[string]string{})

	_, err := client.FetchStandings(context.Background())
	assert.ErrorContains(t, err, "status 404")
}

func TestFetchTeamGamesCurrentSeason(t *testing.T) {
	_, client := newTestServer(t, map[string]string{
		"/club-schedule-season/BOS/now": `{"games":[
			{"gameDate":"2026-01-10","gameState":"OFF",
			 "homeTeam":{"abbrev":"BOS","score":4},"awayTeam":{"abbrev":"TOR","score":3},
			 "periodDescriptor":{"number":4}},
			{"gameDate":"2026-01-20T00:00:00Z","gameState":"FUT",
			 "homeTeam":{"abbrev":"NYR"},"awayTeam":{"abbrev":"BOS"}}
		]}`,
	})

	games, err := client.FetchTeamGames(context.Background(), "BOS", nhl.SeasonCurrent)
	require.NoError(t, err)
	require.Len(t, games, 2)

	assert.Equal(t, "2026-01-10", games[0].Date)
	assert.True(t, games[0].Completed())
	assert.Equal(t, 4, games[0].LastPeriod)
	assert.Equal(t, 4, games[0].HomeScore)

	// Date component truncated, missing period defaults to regulation.
	assert.Equal(t, "2026-01-20", games[1].Date)
	assert.False(t, games[1].Completed())
	assert.Equal(t, 3, games[1].LastPeriod)
}

func TestFetchTeamGamesSpecificSeason(t *testing.T) {
	_, client := newTestServer(t, map[string]string{
		"/club-schedule-season/BOS/20242025": `{"games":[]}`,
	})

	games, err := client.FetchTeamGames(context.Background(), "BOS", "20242025")
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestFetchGamesForDate(t *testing.T) {
	_, client := newTestServer(t, map[string]string{
		"/schedule/2026-01-15": `{"gameWeek":[
			{"date":"2026-01-14","games":[
				{"awayTeam":{"abbrev":"DET"},"homeTeam":{"abbrev":"MTL"}}
			]},
			{"date":"2026-01-15","games":[
				{"awayTeam":{"abbrev":"TOR"},"homeTeam":{"abbrev":"BOS"}},
				{"awayTeam":{"abbrev":"SJS"},"homeTeam":{"abbrev":"NYR"}}
			]}
		]}`,
	})

	matchups, err := client.FetchGamesForDate(context.Background(), "2026-01-15")
	require.NoError(t, err)
	require.Len(t, matchups, 2)
	assert.Equal(t, "TOR", matchups[0].Away)
	assert.Equal(t, "BOS", matchups[0].Home)
}

func TestFetchFirstGameTime(t *testing.T) {
	_, client := newTestServer(t, map[string]string{
		"/schedule/2026-01-15": `{"gameWeek":[
			{"date":"2026-01-15","games":[
				{"awayTeam":{"abbrev":"TOR"},"homeTeam":{"abbrev":"BOS"},"startTimeUTC":"2026-01-16T00:00:00Z"},
				{"awayTeam":{"abbrev":"SJS"},"homeTeam":{"abbrev":"NYR"},"startTimeUTC":"2026-01-15T23:00:00Z"}
			]}
		]}`,
	})

	first, err := client.FetchFirstGameTime(context.Background(), "2026-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.January, 15, 23, 0, 0, 0, time.UTC), first)
}

func TestFetchFirstGameTimeNoGames(t *testing.T) {
	_, client := newTestServer(t, map[string]string{
		"/schedule/2026-07-01": `{"gameWeek":[]}`,
	})

	first, err := client.FetchFirstGameTime(context.Background(), "2026-07-01")
	require.NoError(t, err)
	assert.True(t, first.IsZero())
}

func TestFetchResults(t *testing.T) {
	_, client := newTestServer(t, map[string]string{
		"/score/2026-01-15": `{"games":[
			{"id":2025020701,"gameState":"OFF",
			 "awayTeam":{"abbrev":"TOR","score":2},"homeTeam":{"abbrev":"BOS","score":5}},
			{"id":2025020702,"gameState":"LIVE",
			 "awayTeam":{"abbrev":"SJS","score":1},"homeTeam":{"abbrev":"NYR","score":1}}
		]}`,
	})

	results, err := client.FetchResults(context.Background(), "2026-01-15")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "BOS", results[0].Winner)
	assert.Equal(t, 5, results[0].HomeFinal)
}
