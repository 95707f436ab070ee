package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_RejeitaTetoDeTentativasNaoPositivo(t *testing.T) {
	t.Setenv("FETCH_MAX_RETRIES", "0")

	_, err := NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FETCH_MAX_RETRIES")
}

func TestNewConfig_RejeitaOverrideNegativo(t *testing.T) {
	t.Setenv("BACKFILL_OVERRIDE_HOURS", "-2")

	_, err := NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BACKFILL_OVERRIDE_HOURS")
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.Equal(t, 5, cfg.Fetch.RetryDelaySeconds)
	assert.Equal(t, 24, cfg.Backfill.MaxHours)
	assert.Equal(t, "hourly_data", cfg.Report.HourlyTableID)
	assert.NotNil(t, cfg.Report.Location)
}
