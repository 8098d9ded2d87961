package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alexanderramin/careflow/internal/workflow"
)

// Config holds all runtime configuration for careflow.
type Config struct {
	DBPath              string
	APIURL              string
	APIToken            string
	TimeoutMs           int
	MaxRetries          int
	CancelLeadHours     float64
	RescheduleLeadHours float64
	TrendEpsilon        float64
	TrendDays           int
	Location            *time.Location
	Offline             bool
	LogCalls            bool
	ConfirmationGated   bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	wf := workflow.DefaultConfig()
	return Config{
		APIURL:              "http://localhost:8081/parkinson-care",
		TimeoutMs:           10000,
		MaxRetries:          1,
		CancelLeadHours:     wf.CancelLeadHours,
		RescheduleLeadHours: wf.RescheduleLeadHours,
		TrendEpsilon:        wf.TrendEpsilon,
		TrendDays:           7,
		Location:            time.Local,
		ConfirmationGated:   true,
	}
}

// Load reads configuration from environment variables, falling back to
// defaults for any unset or invalid values.
func Load() (Config, error) {
	cfg := DefaultConfig()

	cfg.DBPath = os.Getenv("CAREFLOW_DB")
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, err
		}
		cfg.DBPath = filepath.Join(home, ".careflow", "careflow.db")
	}

	if v := os.Getenv("CAREFLOW_API_URL"); v != "" {
		cfg.APIURL = v
	}
	cfg.APIToken = os.Getenv("CAREFLOW_API_TOKEN")

	if v := os.Getenv("CAREFLOW_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("CAREFLOW_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	applyHoursEnv(&cfg.CancelLeadHours, "CAREFLOW_CANCEL_LEAD_HOURS")
	applyHoursEnv(&cfg.RescheduleLeadHours, "CAREFLOW_RESCHEDULE_LEAD_HOURS")
	if v := os.Getenv("CAREFLOW_TREND_EPSILON"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.TrendEpsilon = f
		}
	}
	if v := os.Getenv("CAREFLOW_TREND_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TrendDays = n
		}
	}
	if v := os.Getenv("CAREFLOW_TZ"); v != "" {
		if loc, err := time.LoadLocation(v); err == nil {
			cfg.Location = loc
		}
	}
	if v := os.Getenv("CAREFLOW_OFFLINE"); v != "" {
		cfg.Offline, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CAREFLOW_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CAREFLOW_CONFIRMATION_GATED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ConfirmationGated = b
		}
	}

	return cfg, nil
}

// Workflow projects the thresholds used by the pure workflow functions.
func (c Config) Workflow() workflow.Config {
	return workflow.Config{
		CancelLeadHours:     c.CancelLeadHours,
		RescheduleLeadHours: c.RescheduleLeadHours,
		TrendEpsilon:        c.TrendEpsilon,
	}
}

// Timeout returns the backend request timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Now returns the current time in the configured calendar location.
func (c Config) Now() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc)
}

func applyHoursEnv(dst *float64, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return
	}
	*dst = f
}
