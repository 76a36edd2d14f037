package scheduler

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/chladner/hockeyquant/internal/adapters/outbound/discord"
	"github.com/chladner/hockeyquant/internal/config"
	"github.com/chladner/hockeyquant/internal/core/engine"
	"github.com/chladner/hockeyquant/internal/core/model"
	"github.com/chladner/hockeyquant/internal/core/tracking"
	"github.com/chladner/hockeyquant/internal/nhl"
	"github.com/chladner/hockeyquant/internal/telemetry"
)

// ResultsProvider supplies game start times and final scores for grading.
// Satisfied by *nhlapi.Client.
type ResultsProvider interface {
	FetchFirstGameTime(ctx context.Context, date string) (time.Time, error)
	FetchResults(ctx context.Context, date string) ([]model.GameResult, error)
}

// Scheduler drives the accuracy-tracking pipeline: snapshot each day's
// slate shortly before the first game, grade results overnight, keep the
// injury feed warm in between.
type Scheduler struct {
	s        gocron.Scheduler
	eng      *engine.Engine
	store    *tracking.Store
	results  ResultsProvider
	injuries engine.InjuryProvider
	notify   *discord.Notifier
	tuning   config.SchedulerTuning
	location *time.Location

	// lastInjuries is nil until the first successful poll; the initial
	// snapshot is never reported as a change.
	lastInjuries map[string][]string
}

func New(eng *engine.Engine, store *tracking.Store, results ResultsProvider, injuries engine.InjuryProvider, notify *discord.Notifier, tuning config.SchedulerTuning, tz string) (*Scheduler, error) {
	location, err := time.LoadLocation(tz)
	if err != nil {
		telemetry.Warnf("scheduler: unknown timezone %q, using UTC", tz)
		location = time.UTC
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	if notify == nil {
		notify = discord.NewNotifier("")
	}

	return &Scheduler{
		s:        s,
		eng:      eng,
		store:    store,
		results:  results,
		injuries: injuries,
		notify:   notify,
		tuning:   tuning,
		location: location,
	}, nil
}

func (s *Scheduler) Start() error {
	// Plan today's snapshot each morning.
	_, err := s.s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(s.tuning.PlanHour), uint(s.tuning.PlanMinute), 0))),
		gocron.NewTask(s.planToday),
	)
	if err != nil {
		return fmt.Errorf("create plan job: %w", err)
	}

	// Grade yesterday (and anything older still pending) overnight.
	_, err = s.s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(s.tuning.GradeHour), uint(s.tuning.GradeMinute), 0))),
		gocron.NewTask(s.gradePending),
	)
	if err != nil {
		return fmt.Errorf("create grade job: %w", err)
	}

	_, err = s.s.NewJob(
		gocron.DurationJob(time.Duration(s.tuning.InjuryPollHours)*time.Hour),
		gocron.NewTask(s.refreshInjuries),
	)
	if err != nil {
		return fmt.Errorf("create injury poll job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

// planToday looks up the first puck drop of the day and schedules a
// one-shot slate snapshot shortly before it.
func (s *Scheduler) planToday() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	date := time.Now().In(s.location).Format("2006-01-02")
	first, err := s.results.FetchFirstGameTime(ctx, date)
	if err != nil {
		telemetry.Warnf("scheduler: first game lookup for %s failed: %v", date, err)
		return
	}
	if first.IsZero() {
		telemetry.Infof("scheduler: no games on %s", date)
		return
	}

	storeAt := first.Add(-time.Duration(s.tuning.StoreLeadMin) * time.Minute)
	if storeAt.Before(time.Now()) {
		s.storeSlate(date)
		return
	}

	_, err = s.s.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(storeAt)),
		gocron.NewTask(func() { s.storeSlate(date) }),
	)
	if err != nil {
		telemetry.Errorf("scheduler: snapshot job for %s: %v", date, err)
		return
	}
	telemetry.Infof("scheduler: slate snapshot for %s at %s", date, storeAt.In(s.location).Format(time.Kitchen))
}

func (s *Scheduler) storeSlate(date string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	predictions, err := s.eng.AnalyzeDate(ctx, date)
	if err != nil {
		telemetry.Errorf("scheduler: analyze %s: %v", date, err)
		return
	}

	stored, err := s.store.StoreSlate(date, predictions)
	if err != nil {
		telemetry.Errorf("scheduler: store %s: %v", date, err)
		return
	}
	telemetry.Infof("scheduler: stored %d predictions for %s", stored, date)

	if stored > 0 && s.notify.Enabled() {
		if err := s.notify.SlatePicks(ctx, date, predictions); err != nil {
			telemetry.Warnf("scheduler: slate notification: %v", err)
		}
	}
}

// gradePending grades every date that still has ungraded predictions.
func (s *Scheduler) gradePending() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dates, err := s.store.PendingDates()
	if err != nil {
		telemetry.Errorf("scheduler: pending dates: %v", err)
		return
	}

	total := 0
	for _, date := range dates {
		results, err := s.results.FetchResults(ctx, date)
		if err != nil {
			telemetry.Warnf("scheduler: results for %s: %v", date, err)
			continue
		}
		graded, err := s.store.GradeDate(date, results)
		if err != nil {
			telemetry.Errorf("scheduler: grade %s: %v", date, err)
			continue
		}
		total += graded

		if graded > 0 && s.notify.Enabled() {
			stats, _, err := s.store.Stats(tracking.Filter{StartDate: date, EndDate: date})
			if err != nil {
				telemetry.Warnf("scheduler: stats for %s: %v", date, err)
				continue
			}
			if err := s.notify.GradeSummary(ctx, date, stats.TotalGames, stats.CorrectPicks); err != nil {
				telemetry.Warnf("scheduler: grade notification: %v", err)
			}
		}
	}
	if total > 0 {
		telemetry.Infof("scheduler: graded %d predictions across %d dates", total, len(dates))
	}
}

func (s *Scheduler) refreshInjuries() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.injuries.Refresh(ctx); err != nil {
		telemetry.Warnf("scheduler: injury refresh: %v", err)
		return
	}

	first := s.lastInjuries == nil
	if first {
		s.lastInjuries = make(map[string][]string)
	}

	changes := make(map[string][]string)
	for _, team := range nhl.AllTeams() {
		current := s.injuries.Injuries(team)
		if !slices.Equal(current, s.lastInjuries[team]) {
			if !first {
				changes[team] = current
			}
			s.lastInjuries[team] = current
		}
	}
	if len(changes) > 0 && s.notify.Enabled() {
		if err := s.notify.InjuryUpdate(ctx, changes); err != nil {
			telemetry.Warnf("scheduler: injury notification: %v", err)
		}
	}
}
