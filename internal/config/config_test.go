package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CAREFLOW_DB", "/tmp/careflow-test.db")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/careflow-test.db", cfg.DBPath)
	assert.Equal(t, "http://localhost:8081/parkinson-care", cfg.APIURL)
	assert.Equal(t, 2.0, cfg.CancelLeadHours)
	assert.Equal(t, 4.0, cfg.RescheduleLeadHours)
	assert.Equal(t, 0.5, cfg.TrendEpsilon)
	assert.Equal(t, 7, cfg.TrendDays)
	assert.False(t, cfg.Offline)
	assert.True(t, cfg.ConfirmationGated)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CAREFLOW_DB", "/tmp/x.db")
	t.Setenv("CAREFLOW_API_URL", "http://backend:9000")
	t.Setenv("CAREFLOW_CANCEL_LEAD_HOURS", "6")
	t.Setenv("CAREFLOW_TREND_EPSILON", "0.25")
	t.Setenv("CAREFLOW_TZ", "America/Bogota")
	t.Setenv("CAREFLOW_OFFLINE", "true")
	t.Setenv("CAREFLOW_TIMEOUT_MS", "2500")
	t.Setenv("CAREFLOW_CONFIRMATION_GATED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://backend:9000", cfg.APIURL)
	assert.Equal(t, 6.0, cfg.Workflow().CancelLeadHours)
	assert.Equal(t, 0.25, cfg.Workflow().TrendEpsilon)
	assert.Equal(t, "America/Bogota", cfg.Location.String())
	assert.True(t, cfg.Offline)
	assert.Equal(t, int64(2500), cfg.Timeout().Milliseconds())
	assert.False(t, cfg.ConfirmationGated)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CAREFLOW_DB", "/tmp/x.db")
	t.Setenv("CAREFLOW_RESCHEDULE_LEAD_HOURS", "soon")
	t.Setenv("CAREFLOW_TREND_DAYS", "-3")
	t.Setenv("CAREFLOW_TZ", "Mars/Olympus")
	t.Setenv("CAREFLOW_CONFIRMATION_GATED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4.0, cfg.RescheduleLeadHours)
	assert.Equal(t, 7, cfg.TrendDays)
	assert.NotNil(t, cfg.Location)
	assert.True(t, cfg.ConfirmationGated)
}
