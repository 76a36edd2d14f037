package tracking

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/chladner/hockeyquant/internal/core/model"
)

// Filter narrows an accuracy query. Zero values mean no constraint.
type Filter struct {
	StartDate  string
	EndDate    string
	Pick       string
	Confidence string
}

// TierStats is hit rate within one confidence tier.
type TierStats struct {
	Total   int     `json:"total"`
	Correct int     `json:"correct"`
	Pct     float64 `json:"pct"`
}

// AccuracyStats summarizes graded predictions overall and per tier.
type AccuracyStats struct {
	TotalGames   int       `json:"total_games"`
	CorrectPicks int       `json:"correct_picks"`
	AccuracyPct  float64   `json:"accuracy_pct"`
	Strong       TierStats `json:"strong"`
	Moderate     TierStats `json:"moderate"`
	Close        TierStats `json:"close"`
}

const recentLimit = 50

// Stats computes accuracy over every graded prediction matching the filter
// and returns the most recent rows for display.
func (s *Store) Stats(f Filter) (AccuracyStats, []Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT game_date, game_id, away_team, home_team, away_score, home_score,
		pick, confidence, diff, away_final, home_final, actual_winner, correct
		FROM predictions WHERE correct IS NOT NULL`
	var args []any

	if f.StartDate != "" {
		query += ` AND game_date >= ?`
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		query += ` AND game_date <= ?`
		args = append(args, f.EndDate)
	}
	if f.Pick != "" {
		query += ` AND pick = ?`
		args = append(args, strings.ToUpper(f.Pick))
	}
	if f.Confidence != "" {
		query += ` AND confidence = ?`
		args = append(args, strings.ToUpper(f.Confidence))
	}
	query += ` ORDER BY game_date DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return AccuracyStats{}, nil, fmt.Errorf("query graded predictions: %w", err)
	}
	defer rows.Close()

	var stats AccuracyStats
	var recent []Record

	for rows.Next() {
		rec, correct, err := scanRecord(rows)
		if err != nil {
			return AccuracyStats{}, nil, err
		}

		stats.TotalGames++
		if correct {
			stats.CorrectPicks++
		}

		tier := &stats.Close
		switch rec.Confidence {
		case model.ConfidenceStrong:
			tier = &stats.Strong
		case model.ConfidenceModerate:
			tier = &stats.Moderate
		}
		tier.Total++
		if correct {
			tier.Correct++
		}

		if len(recent) < recentLimit {
			recent = append(recent, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return AccuracyStats{}, nil, err
	}

	stats.AccuracyPct = pct(stats.CorrectPicks, stats.TotalGames)
	stats.Strong.Pct = pct(stats.Strong.Correct, stats.Strong.Total)
	stats.Moderate.Pct = pct(stats.Moderate.Correct, stats.Moderate.Total)
	stats.Close.Pct = pct(stats.Close.Correct, stats.Close.Total)

	return stats, recent, nil
}

func scanRecord(rows *sql.Rows) (Record, bool, error) {
	var rec Record
	var awayFinal, homeFinal sql.NullInt64
	var winner sql.NullString
	var correct sql.NullInt64

	err := rows.Scan(
		&rec.GameDate, &rec.GameID, &rec.AwayTeam, &rec.HomeTeam,
		&rec.AwayScore, &rec.HomeScore, &rec.Pick, &rec.Confidence, &rec.Diff,
		&awayFinal, &homeFinal, &winner, &correct,
	)
	if err != nil {
		return Record{}, false, fmt.Errorf("scan prediction: %w", err)
	}

	if awayFinal.Valid {
		v := int(awayFinal.Int64)
		rec.AwayFinal = &v
	}
	if homeFinal.Valid {
		v := int(homeFinal.Int64)
		rec.HomeFinal = &v
	}
	if winner.Valid {
		rec.Winner = &winner.String
	}
	hit := false
	if correct.Valid {
		hit = correct.Int64 == 1
		rec.Correct = &hit
	}
	return rec, hit, nil
}

func pct(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
