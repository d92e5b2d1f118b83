package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKOFFICE_JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "backoffice.db", cfg.DBPath)
	assert.Equal(t, time.Hour, cfg.SweepExpireInterval)
	assert.Equal(t, 10*time.Minute, cfg.SweepOverdueInterval)
	assert.Equal(t, "strict", cfg.SettlementReplayPolicy)
	assert.Equal(t, 256, cfg.EventBufferSize)
}

func TestLoad_RequiresSecretWhenAuthEnabled(t *testing.T) {
	t.Setenv("BACKOFFICE_JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_AuthDisabledSkipsSecret(t *testing.T) {
	t.Setenv("BACKOFFICE_JWT_SECRET", "")
	t.Setenv("BACKOFFICE_AUTH_DISABLED", "true")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.AuthDisabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BACKOFFICE_JWT_SECRET", "s3cret")
	t.Setenv("BACKOFFICE_ADDR", ":9090")
	t.Setenv("BACKOFFICE_SWEEP_OVERDUE_INTERVAL", "30s")
	t.Setenv("BACKOFFICE_SETTLEMENT_REPLAY_POLICY", "idempotent")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 30*time.Second, cfg.SweepOverdueInterval)
	assert.Equal(t, "idempotent", cfg.SettlementReplayPolicy)
}
