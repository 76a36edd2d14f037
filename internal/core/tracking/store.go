package tracking

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/telemetry"
)

// Store persists slate predictions in SQLite so picks can be graded against
// final scores after the fact. One row per game; the result columns stay
// NULL until grading fills them.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Record is one stored prediction, optionally graded.
type Record struct {
	GameDate   string   `json:"game_date"`
	GameID     string   `json:"game_id"`
	AwayTeam   string   `json:"away_team"`
	HomeTeam   string   `json:"home_team"`
	AwayScore  float64  `json:"away_score"`
	HomeScore  float64  `json:"home_score"`
	Pick       string   `json:"pick"`
	Confidence string   `json:"confidence"`
	Diff       float64  `json:"diff"`
	AwayFinal  *int     `json:"away_final,omitempty"`
	HomeFinal  *int     `json:"home_final,omitempty"`
	Winner     *string  `json:"actual_winner,omitempty"`
	Correct    *bool    `json:"correct,omitempty"`
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			game_date     TEXT NOT NULL,
			game_id       TEXT NOT NULL UNIQUE,
			away_team     TEXT NOT NULL,
			home_team     TEXT NOT NULL,
			away_score    REAL NOT NULL,
			home_score    REAL NOT NULL,
			pick          TEXT NOT NULL,
			confidence    TEXT NOT NULL,
			diff          REAL NOT NULL,
			away_final    INTEGER,
			home_final    INTEGER,
			actual_winner TEXT,
			correct       INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_date ON predictions(game_date)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}

	var count int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM predictions`).Scan(&count); err != nil {
		db.Close()
		return nil, fmt.Errorf("read row count: %w", err)
	}

	telemetry.Infof("tracking: opened %s, %d stored predictions", path, count)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// StoreSlate inserts one row per prediction for date. Idempotent: a date
// with rows already stored is left untouched so a rerun near puck drop
// cannot overwrite the graded snapshot.
func (s *Store) StoreSlate(date string, predictions []model.GamePrediction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM predictions WHERE game_date = ?`, date).Scan(&existing); err != nil {
		return 0, fmt.Errorf("check existing: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	stored := 0
	for _, p := range predictions {
		gameID := fmt.Sprintf("%s_%s_%s", date, p.Away.Team, p.Home.Team)
		_, err := s.db.Exec(
			`INSERT INTO predictions (
				game_date, game_id, away_team, home_team,
				away_score, home_score, pick, confidence, diff
			) VALUES (?,?,?,?,?,?,?,?,?)`,
			date, gameID, p.Away.Team, p.Home.Team,
			p.Away.FinalScore, p.Home.FinalScore, p.Pick, p.Confidence, p.Diff,
		)
		if err != nil {
			return stored, fmt.Errorf("insert prediction %s: %w", gameID, err)
		}
		stored++
	}
	telemetry.Metrics.PredictionsStored.Add(int64(stored))
	return stored, nil
}

// GradeDate fills the result columns for date from final scores. Returns
// how many rows were graded.
func (s *Store) GradeDate(date string, results []model.GameResult) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	graded := 0
	for _, r := range results {
		gameID := fmt.Sprintf("%s_%s_%s", date, r.AwayTeam, r.HomeTeam)

		var pick string
		err := s.db.QueryRow(`SELECT pick FROM predictions WHERE game_id = ?`, gameID).Scan(&pick)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return graded, fmt.Errorf("lookup %s: %w", gameID, err)
		}

		correct := 0
		if r.Winner != "" && pick == r.Winner {
			correct = 1
		}

		_, err = s.db.Exec(
			`UPDATE predictions SET away_final = ?, home_final = ?, actual_winner = ?, correct = ?
			 WHERE game_id = ?`,
			r.AwayFinal, r.HomeFinal, r.Winner, correct, gameID,
		)
		if err != nil {
			return graded, fmt.Errorf("grade %s: %w", gameID, err)
		}
		graded++
	}
	telemetry.Metrics.PredictionsGraded.Add(int64(graded))
	return graded, nil
}

// PendingDates lists dates that still have ungraded predictions.
func (s *Store) PendingDates() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT DISTINCT game_date FROM predictions WHERE correct IS NULL ORDER BY game_date`)
	if err != nil {
		return nil, fmt.Errorf("query pending dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan pending date: %w", err)
		}
		dates = append(dates, d)
	}
	telemetry.Metrics.PendingSlates.Set(int64(len(dates)))
	return dates, rows.Err()
}
