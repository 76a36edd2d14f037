package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTuningEmptyPathDefaults(t *testing.T) {
	tuning, err := LoadTuning("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning(), tuning)
	assert.Equal(t, 9, tuning.Scheduler.PlanHour)
	assert.Equal(t, 15, tuning.Scheduler.StoreLeadMin)
}

func TestLoadTuningOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"scheduler:\n  plan_hour: 7\n  store_lead_min: 30\n",
	), 0o644))

	tuning, err := LoadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, 7, tuning.Scheduler.PlanHour)
	assert.Equal(t, 30, tuning.Scheduler.StoreLeadMin)
	// Unset keys keep their defaults.
	assert.Equal(t, 3, tuning.Scheduler.GradeHour)
}

func TestLoadTuningMissingFile(t *testing.T) {
	_, err := LoadTuning(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadTuningMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scheduler: [not a map"), 0o644))

	_, err := LoadTuning(path)
	assert.Error(t, err)
}
