package tracking

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chladner/hockeyquant/internal/core/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "predictions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func prediction(away, home, pick, confidence string, diff float64) model.GamePrediction {
	return model.GamePrediction{
		Away:       &model.TeamAnalysis{Team: away, FinalScore: 50},
		Home:       &model.TeamAnalysis{Team: home, FinalScore: 50 + diff},
		Pick:       pick,
		Diff:       diff,
		Confidence: confidence,
	}
}

func TestStoreSlateAndGrade(t *testing.T) {
	store := openTestStore(t)

	stored, err := store.StoreSlate("2026-01-15", []model.GamePrediction{
		prediction("TOR", "BOS", "BOS", model.ConfidenceStrong, 12),
		prediction("SJS", "NYR", "NYR", model.ConfidenceClose, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stored)

	graded, err := store.GradeDate("2026-01-15", []model.GameResult{
		{AwayTeam: "TOR", HomeTeam: "BOS", AwayFinal: 2, HomeFinal: 5, Winner: "BOS"},
		{AwayTeam: "SJS", HomeTeam: "NYR", AwayFinal: 4, HomeFinal: 3, Winner: "SJS"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, graded)

	stats, recent, err := store.Stats(Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalGames)
	assert.Equal(t, 1, stats.CorrectPicks)
	assert.Equal(t, 50.0, stats.AccuracyPct)
	assert.Equal(t, 1, stats.Strong.Correct)
	assert.Equal(t, 0, stats.Close.Correct)
	assert.Len(t, recent, 2)
}

func TestStoreSlateIdempotent(t *testing.T) {
	store := openTestStore(t)

	first, err := store.StoreSlate("2026-01-15", []model.GamePrediction{
		prediction("TOR", "BOS", "BOS", model.ConfidenceStrong, 12),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	// A rerun for the same date stores nothing.
	second, err := store.StoreSlate("2026-01-15", []model.GamePrediction{
		prediction("TOR", "BOS", "TOR", model.ConfidenceClose, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, second)
}

func TestGradeDateUnstoredGamesSkipped(t *testing.T) {
	store := openTestStore(t)

	_, err := store.StoreSlate("2026-01-15", []model.GamePrediction{
		prediction("TOR", "BOS", "BOS", model.ConfidenceStrong, 12),
	})
	require.NoError(t, err)

	graded, err := store.GradeDate("2026-01-15", []model.GameResult{
		{AwayTeam: "DET", HomeTeam: "MTL", AwayFinal: 1, HomeFinal: 2, Winner: "MTL"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, graded)
}

func TestGradeDateTieNeverCorrect(t *testing.T) {
	store := openTestStore(t)

	_, err := store.StoreSlate("2026-01-15", []model.GamePrediction{
		prediction("TOR", "BOS", "BOS", model.ConfidenceStrong, 12),
	})
	require.NoError(t, err)

	graded, err := store.GradeDate("2026-01-15", []model.GameResult{
		{AwayTeam: "TOR", HomeTeam: "BOS", AwayFinal: 3, HomeFinal: 3, Winner: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, graded)

	stats, _, err := store.Stats(Filter{})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.CorrectPicks)
}

func TestPendingDates(t *testing.T) {
	store := openTestStore(t)

	_, err := store.StoreSlate("2026-01-14", []model.GamePrediction{
		prediction("TOR", "BOS", "BOS", model.ConfidenceStrong, 12),
	})
	require.NoError(t, err)
	_, err = store.StoreSlate("2026-01-15", []model.GamePrediction{
		prediction("SJS", "NYR", "NYR", model.ConfidenceClose, 2),
	})
	require.NoError(t, err)

	pending, err := store.PendingDates()
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-14", "2026-01-15"}, pending)

	_, err = store.GradeDate("2026-01-14", []model.GameResult{
		{AwayTeam: "TOR", HomeTeam: "BOS", AwayFinal: 2, HomeFinal: 5, Winner: "BOS"},
	})
	require.NoError(t, err)

	pending, err = store.PendingDates()
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-15"}, pending)
}

func TestStatsFilters(t *testing.T) {
	store := openTestStore(t)

	_, err := store.StoreSlate("2026-01-14", []model.GamePrediction{
		prediction("TOR", "BOS", "BOS", model.ConfidenceStrong, 12),
		prediction("DET", "MTL", "MTL", model.ConfidenceModerate, 6),
	})
	require.NoError(t, err)
	_, err = store.StoreSlate("2026-01-15", []model.GamePrediction{
		prediction("SJS", "BOS", "BOS", model.ConfidenceClose, 2),
	})
	require.NoError(t, err)

	_, err = store.GradeDate("2026-01-14", []model.GameResult{
		{AwayTeam: "TOR", HomeTeam: "BOS", AwayFinal: 2, HomeFinal: 5, Winner: "BOS"},
		{AwayTeam: "DET", HomeTeam: "MTL", AwayFinal: 4, HomeFinal: 1, Winner: "DET"},
	})
	require.NoError(t, err)
	_, err = store.GradeDate("2026-01-15", []model.GameResult{
		{AwayTeam: "SJS", HomeTeam: "BOS", AwayFinal: 1, HomeFinal: 3, Winner: "BOS"},
	})
	require.NoError(t, err)

	byPick, _, err := store.Stats(Filter{Pick: "BOS"})
	require.NoError(t, err)
	assert.Equal(t, 2, byPick.TotalGames)
	assert.Equal(t, 2, byPick.CorrectPicks)

	byTier, _, err := store.Stats(Filter{Confidence: model.ConfidenceModerate})
	require.NoError(t, err)
	assert.Equal(t, 1, byTier.TotalGames)
	assert.Equal(t, 0, byTier.CorrectPicks)

	byDate, _, err := store.Stats(Filter{StartDate: "2026-01-15"})
	require.NoError(t, err)
	assert.Equal(t, 1, byDate.TotalGames)

	ungradedExcluded, _, err := store.Stats(Filter{EndDate: "2026-01-13"})
	require.NoError(t, err)
	assert.Equal(t, 0, ungradedExcluded.TotalGames)
}
