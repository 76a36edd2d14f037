package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SchedulerTuning holds the cron-side knobs for the tracking jobs.
type SchedulerTuning struct {
	PlanHour        int `yaml:"plan_hour"`
	PlanMinute      int `yaml:"plan_minute"`
	StoreLeadMin    int `yaml:"store_lead_min"`
	GradeHour       int `yaml:"grade_hour"`
	GradeMinute     int `yaml:"grade_minute"`
	InjuryPollHours int `yaml:"injury_poll_hours"`
}

// Tuning is the optional operational overlay loaded from YAML. Scoring
// weights are deliberately not here; the model constants live in the engine.
type Tuning struct {
	Scheduler SchedulerTuning `yaml:"scheduler"`
}

// DefaultTuning matches the cadence the tracking pipeline was designed for:
// plan the day's slate each morning, store it 15 minutes before the first
// puck drop, grade overnight.
func DefaultTuning() Tuning {
	return Tuning{
		Scheduler: SchedulerTuning{
			PlanHour:        9,
			PlanMinute:      0,
			StoreLeadMin:    15,
			GradeHour:       3,
			GradeMinute:     30,
			InjuryPollHours: 2,
		},
	}
}

// LoadTuning reads the overlay at path, or returns defaults when path is
// empty. A missing or malformed file is an error so a bad deploy fails loud.
func LoadTuning(path string) (Tuning, error) {
	if path == "" {
		return DefaultTuning(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning: %w", err)
	}

	t := DefaultTuning()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("parse tuning: %w", err)
	}

	return t, nil
}
