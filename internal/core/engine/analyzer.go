package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/telemetry"
)

// Base score weights. Goaltending carries almost as much as shot quality;
// record terms are mostly tiebreakers.
const (
	offenseWeight   = 40.0
	defenseWeight   = 15.0
	pointsPctWeight = 10.0
	goalieWeight    = 30.0
	winPctWeight    = 5.0

	xgShare     = 0.8
	actualShare = 0.2
)

// Confidence tier thresholds on the absolute score differential.
const (
	strongDiff   = 10.0
	moderateDiff = 5.0
)

// AnalyzeTeam scores one side of a matchup. The five multipliers are
// computed independently; one of them degrading to neutral never blocks the
// others. Returns ErrNoSeasonRecord when the standings cannot resolve the
// team or it has no completed games.
func (e *Engine) AnalyzeTeam(ctx context.Context, team, opponent string, isAway bool, goalieOverride string) (*model.TeamAnalysis, error) {
	record, err := e.teamRecord(ctx, team)
	if err != nil {
		return nil, err
	}

	offense, defense := teamQuality(record)

	goalie := e.Starter(team, goalieOverride)
	backup := e.Backup(team)
	goalieScore := GoalieScore(goalie)

	baseScore := offense*offenseWeight +
		defense*defenseWeight +
		record.PointsPct()*pointsPctWeight +
		goalieScore*goalieWeight +
		record.WinPct()*winPctWeight

	fatigue := e.fatigueMultiplier(ctx, team, opponent, isAway)
	streak := streakMultiplier(e.LastTen(ctx, team), record)
	specialTeams := specialTeamsMultiplier(e.specialTeamsRecord(team), e.specialTeamsRecord(opponent))
	injury := e.injuryMultiplier(team)
	h2h := e.headToHeadMultiplier(ctx, team, opponent)

	finalScore := baseScore * fatigue.Factor * streak.Factor * specialTeams.Factor * injury.Factor * h2h.Factor

	return &model.TeamAnalysis{
		Team:         team,
		BaseScore:    baseScore,
		FinalScore:   finalScore,
		Goalie:       goalie,
		Backup:       backup,
		Fatigue:      fatigue,
		Streak:       streak,
		SpecialTeams: specialTeams,
		Injury:       injury,
		HeadToHead:   h2h,
	}, nil
}

// teamRecord resolves the team's standings row and enriches it with the
// expected-goals aggregates from the stats tables.
func (e *Engine) teamRecord(ctx context.Context, team string) (model.TeamSeasonRecord, error) {
	for _, record := range e.cache.Standings(ctx) {
		if record.Team != team {
			continue
		}
		if record.GamesPlayed() == 0 {
			return model.TeamSeasonRecord{}, fmt.Errorf("%w: %s has no completed games", ErrNoSeasonRecord, team)
		}
		if splits, ok := e.stats.TeamSplits(team); ok {
			record.XGoalsFor = splits.XGoalsFor
			record.XGoalsAgainst = splits.XGoalsAgainst
		}
		return record, nil
	}
	return model.TeamSeasonRecord{}, fmt.Errorf("%w: %s not in standings", ErrNoSeasonRecord, team)
}

// teamQuality blends expected-goal shares with actual goal shares, weighted
// toward the shot-quality signal. Missing xG falls back to a coin-flip
// share, keeping the blend finite.
func teamQuality(record model.TeamSeasonRecord) (offense, defense float64) {
	xgfPct, xgaPct := 0.5, 0.5
	if totalXG := record.XGoalsFor + record.XGoalsAgainst; totalXG > 0 {
		xgfPct = record.XGoalsFor / totalXG
		xgaPct = record.XGoalsAgainst / totalXG
	}

	gfPct, gaPct := 0.5, 0.5
	if totalGoals := record.GoalsFor + record.GoalsAgainst; totalGoals > 0 {
		gfPct = float64(record.GoalsFor) / float64(totalGoals)
		gaPct = float64(record.GoalsAgainst) / float64(totalGoals)
	}

	offense = xgfPct*xgShare + gfPct*actualShare
	defense = (1-xgaPct)*xgShare + (1-gaPct)*actualShare
	return offense, defense
}

// AnalyzeDate runs a fresh full slate for date (YYYY-MM-DD): clears the run
// cache, refreshes the injury feed once, and analyzes both sides of every
// game. Per-game failures are logged and skipped; only a failed game-list
// fetch aborts the slate. Results are ordered most confident first.
func (e *Engine) AnalyzeDate(ctx context.Context, date string) ([]model.GamePrediction, error) {
	e.cache.Clear()
	if err := e.injuries.Refresh(ctx); err != nil {
		telemetry.Warnf("engine: injury refresh failed: %v", err)
	}
	return e.analyzeSlate(ctx, date, nil)
}

// AnalyzeDateWithOverrides recomputes a slate with per-team starting-goalie
// overrides. The already-warmed run cache is reused: an override changes
// only the goaltending term, never schedule-derived data.
func (e *Engine) AnalyzeDateWithOverrides(ctx context.Context, date string, overrides map[string]string) ([]model.GamePrediction, error) {
	return e.analyzeSlate(ctx, date, overrides)
}

func (e *Engine) analyzeSlate(ctx context.Context, date string, overrides map[string]string) ([]model.GamePrediction, error) {
	matchups, err := e.schedule.FetchGamesForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("fetch slate for %s: %w", date, err)
	}

	predictions := make([]model.GamePrediction, 0, len(matchups))
	for _, m := range matchups {
		away, err := e.AnalyzeTeam(ctx, m.Away, m.Home, true, overrides[m.Away])
		if err != nil {
			telemetry.Metrics.GamesSkipped.Inc()
			telemetry.Warnf("engine: skipping %s @ %s: %v", m.Away, m.Home, err)
			continue
		}
		home, err := e.AnalyzeTeam(ctx, m.Home, m.Away, false, overrides[m.Home])
		if err != nil {
			telemetry.Metrics.GamesSkipped.Inc()
			telemetry.Warnf("engine: skipping %s @ %s: %v", m.Away, m.Home, err)
			continue
		}

		predictions = append(predictions, buildPrediction(away, home))
	}
	telemetry.Metrics.SlatesAnalyzed.Inc()
	telemetry.Metrics.GamesPredicted.Add(int64(len(predictions)))

	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Diff > predictions[j].Diff
	})
	return predictions, nil
}

func buildPrediction(away, home *model.TeamAnalysis) model.GamePrediction {
	diff := home.FinalScore - away.FinalScore
	winner, loser := home, away
	if diff <= 0 {
		winner, loser = away, home
		diff = -diff
	}

	confidence := model.ConfidenceClose
	switch {
	case diff >= strongDiff:
		confidence = model.ConfidenceStrong
	case diff >= moderateDiff:
		confidence = model.ConfidenceModerate
	}

	return model.GamePrediction{
		Away:       away,
		Home:       home,
		Pick:       winner.Team,
		Diff:       diff,
		Confidence: confidence,
		Factors:    keyFactors(winner, loser),
	}
}

// keyFactors derives up to three short explanations using the same triggers
// the multiplier summaries use.
func keyFactors(winner, loser *model.TeamAnalysis) []string {
	var factors []string
	if winner.Streak.Factor > 1.02 {
		factors = append(factors, winner.Team+" hot")
	}
	if loser.Streak.Factor < 0.95 {
		factors = append(factors, loser.Team+" cold")
	}
	if winner.Injury.Factor > loser.Injury.Factor+0.02 {
		factors = append(factors, loser.Team+" injuries")
	}
	if loser.Fatigue.Factor < 0.95 {
		factors = append(factors, loser.Team+" fatigued")
	}
	if winner.HeadToHead.Factor > 1.02 {
		factors = append(factors, winner.Team+" H2H edge")
	}

	if len(factors) > 3 {
		factors = factors[:3]
	}
	return factors
}
