package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DEFAULT_DAILY_GOAL", "")
	t.Setenv("REMINDER_INTERVAL", "")
	t.Setenv("REMINDER_DEDUPE", "")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 2000, cfg.DefaultDailyGoal)
	assert.Equal(t, time.Minute, cfg.ReminderInterval)
	assert.False(t, cfg.ReminderDedupe)
	assert.Equal(t, 30, cfg.LogRetentionDays)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DEFAULT_DAILY_GOAL", "1800")
	t.Setenv("REMINDER_INTERVAL", "30s")
	t.Setenv("REMINDER_DEDUPE", "true")
	t.Setenv("ANALYSIS_DELAY", "not-a-duration")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 1800, cfg.DefaultDailyGoal)
	assert.Equal(t, 30*time.Second, cfg.ReminderInterval)
	assert.True(t, cfg.ReminderDedupe)
	assert.Equal(t, 2*time.Second, cfg.AnalysisDelay)
}

func TestLoad_InvalidGoalFallsBack(t *testing.T) {
	t.Setenv("DEFAULT_DAILY_GOAL", "0")
	assert.Equal(t, 2000, Load().DefaultDailyGoal)
}

func TestLocation(t *testing.T) {
	cfg := &Config{DefaultTimezone: "UTC"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.DefaultTimezone = "Mars/Olympus_Mons"
	assert.Equal(t, time.UTC, cfg.Location())
}
