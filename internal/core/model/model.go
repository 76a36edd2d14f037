package model

import "time"

// GameResultKind classifies a completed game from one team's perspective.
type GameResultKind string

const (
	ResultWin    GameResultKind = "W"
	ResultLoss   GameResultKind = "L"
	ResultOTLoss GameResultKind = "OTL"
)

// Confidence tiers for a slate pick, by absolute score differential.
const (
	ConfidenceStrong   = "STRONG"
	ConfidenceModerate = "MODERATE"
	ConfidenceClose    = "CLOSE"
)

// TeamSeasonRecord is one row of the season standings table. Immutable per
// fetch.
type TeamSeasonRecord struct {
	Team          string  `json:"team"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	OTLosses      int     `json:"otl"`
	Points        int     `json:"points"`
	GoalsFor      int     `json:"goals_for"`
	GoalsAgainst  int     `json:"goals_against"`
	XGoalsFor     float64 `json:"xgf"`
	XGoalsAgainst float64 `json:"xga"`
}

// GamesPlayed is wins + losses + OT losses.
func (r TeamSeasonRecord) GamesPlayed() int {
	return r.Wins + r.Losses + r.OTLosses
}

// WinPct weights OT losses at half a win.
func (r TeamSeasonRecord) WinPct() float64 {
	gp := r.GamesPlayed()
	if gp == 0 {
		return 0
	}
	return (float64(r.Wins) + 0.5*float64(r.OTLosses)) / float64(gp)
}

// PointsPct is points earned over points available.
func (r TeamSeasonRecord) PointsPct() float64 {
	gp := r.GamesPlayed()
	if gp == 0 {
		return 0
	}
	return float64(r.Points) / float64(gp*2)
}

// ScheduleGame is one raw entry of a team's season schedule as the provider
// reports it. Completed games carry final scores and the period reached.
type ScheduleGame struct {
	Date       string `json:"date"` // YYYY-MM-DD
	State      string `json:"state"`
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	HomeScore  int    `json:"home_score"`
	AwayScore  int    `json:"away_score"`
	LastPeriod int    `json:"last_period"`
}

// Completed reports whether the game reached a terminal state.
func (g ScheduleGame) Completed() bool {
	return g.State == "OFF" || g.State == "FINAL"
}

// GameLogEntry is a completed game from one team's perspective.
type GameLogEntry struct {
	Date         string         `json:"date"`
	Opponent     string         `json:"opponent"`
	IsAway       bool           `json:"is_away"`
	Result       GameResultKind `json:"result"`
	GoalsFor     int            `json:"goals_for"`
	GoalsAgainst int            `json:"goals_against"`
}

// HeadToHeadEntry is a completed meeting from the perspective of a fixed
// first team.
type HeadToHeadEntry struct {
	Date         string `json:"date"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	Won          bool   `json:"won"`
	GoalDiff     int    `json:"goal_diff"`
}

// Matchup is one scheduled game on a slate.
type Matchup struct {
	Away string `json:"away"`
	Home string `json:"home"`
}

// GoalieProfile carries the normalized stats of one goalie. Save percentage
// and GAA are recomputed from raw shot and goal counts, never read
// pre-aggregated.
type GoalieProfile struct {
	Name        string  `json:"name"`
	GamesPlayed int     `json:"games_played"`
	GSAx        float64 `json:"gsax"`
	SavePct     float64 `json:"sv_pct"`
	GAA         float64 `json:"gaa"`
}

// SpecialTeamsRecord is a team's derived power-play and penalty-kill rates.
type SpecialTeamsRecord struct {
	Team               string  `json:"team"`
	PowerPlayPct       float64 `json:"pp_pct"`
	PenaltyKillPct     float64 `json:"pk_pct"`
	PKSituationsPerGame float64 `json:"pk_situations_per_game"`
}

// Multiplier is one situational adjustment: a factor near 1.0 plus a
// human-readable summary of why.
type Multiplier struct {
	Factor  float64 `json:"factor"`
	Summary string  `json:"summary"`
}

// Neutral is the no-adjustment multiplier with an explanatory summary.
func Neutral(summary string) Multiplier {
	return Multiplier{Factor: 1.0, Summary: summary}
}

// TeamAnalysis is the full scored breakdown for one side of a matchup.
// Constructed fresh per analysis; never mutated afterward.
type TeamAnalysis struct {
	Team         string         `json:"team"`
	BaseScore    float64        `json:"base_score"`
	FinalScore   float64        `json:"final_score"`
	Goalie       *GoalieProfile `json:"goalie,omitempty"`
	Backup       *GoalieProfile `json:"backup_goalie,omitempty"`
	Fatigue      Multiplier     `json:"fatigue"`
	Streak       Multiplier     `json:"streak"`
	SpecialTeams Multiplier     `json:"special_teams"`
	Injury       Multiplier     `json:"injury"`
	HeadToHead   Multiplier     `json:"h2h"`
}

// GamePrediction is one slate matchup with both sides resolved.
type GamePrediction struct {
	Away       *TeamAnalysis `json:"away"`
	Home       *TeamAnalysis `json:"home"`
	Pick       string        `json:"pick"`
	Diff       float64       `json:"diff"`
	Confidence string        `json:"confidence"`
	Factors    []string      `json:"factors"`
}

// GameResult is a final score for grading stored predictions.
type GameResult struct {
	GameID    string `json:"game_id"`
	AwayTeam  string `json:"away_team"`
	HomeTeam  string `json:"home_team"`
	AwayFinal int    `json:"away_final"`
	HomeFinal int    `json:"home_final"`
	Winner    string `json:"winner"` // empty when the provider reports a tie
}

// InjurySnapshot is the injury feed's view of the league at FetchedAt.
type InjurySnapshot struct {
	Teams     map[string][]string `json:"teams"`
	FetchedAt time.Time           `json:"fetched_at"`
}

// GoalieSeason is one raw goalie row from the season stats tables.
type GoalieSeason struct {
	Name        string
	Team        string
	GamesPlayed int
	XGoals      float64
	Goals       float64
	ShotsOnGoal float64
	IceTimeSec  float64
}

// Profile normalizes the raw season counts into a GoalieProfile.
func (g GoalieSeason) Profile() GoalieProfile {
	svPct := 0.900
	if g.ShotsOnGoal > 0 {
		svPct = (g.ShotsOnGoal - g.Goals) / g.ShotsOnGoal
	}
	gaa := 3.0
	if g.IceTimeSec > 0 {
		gaa = g.Goals / (g.IceTimeSec / 60) * 60
	}
	return GoalieProfile{
		Name:        g.Name,
		GamesPlayed: g.GamesPlayed,
		GSAx:        g.XGoals - g.Goals,
		SavePct:     svPct,
		GAA:         gaa,
	}
}

// SkaterSeason is one raw skater row from the season stats tables.
type SkaterSeason struct {
	Name             string
	Team             string
	Goals            float64
	PrimaryAssists   float64
	SecondaryAssists float64
	IceTimeSec       float64
	XGoalsFor        float64
}

// Points is goals plus all assists.
func (s SkaterSeason) Points() float64 {
	return s.Goals + s.PrimaryAssists + s.SecondaryAssists
}

// TeamSplits groups a team's season-aggregate counting stats across the
// all-situations, power-play, and penalty-kill splits.
type TeamSplits struct {
	Team             string
	GamesPlayed      float64
	PenaltiesFor     float64 // penalties taken (shorthanded situations)
	PenaltiesAgainst float64 // penalties drawn (power-play opportunities)
	PPGoalsFor       float64
	PKGoalsAgainst   float64
	XGoalsFor        float64
	XGoalsAgainst    float64
}
