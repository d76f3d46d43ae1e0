package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)

	threshold, err := cfg.Reports.Threshold()
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(threshold))
}

func TestLoadPlatformDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://platform/db")
	t.Setenv("PORT", "9999")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://platform/db", cfg.DatabaseURL)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	t.Setenv("MARKET_REPORTS_EXPENSIVE_THRESHOLD", "lots")

	_, err := Load()
	require.Error(t, err)
}
