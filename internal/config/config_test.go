package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	for k, v := range map[string]string{
		"APP_ENV":    "test",
		"APP_PORT":   "8080",
		"DB_USER":    "app",
		"DB_HOST":    "localhost",
		"DB_PORT":    "3306",
		"DB_NAME":    "booking",
		"JWT_SECRET": "test-secret",
	} {
		t.Setenv(k, v)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)
	cfg := Load()

	require.Equal(t, "test", cfg.Env)
	assert.Equal(t, 25, cfg.DBMaxOpen)
	assert.Equal(t, 25, cfg.DBMaxIdle)
	assert.Equal(t, 30*time.Minute, cfg.DBConnLifetime)
	assert.Equal(t, 10*time.Minute, cfg.HoldTTL)
	assert.Equal(t, time.Duration(0), cfg.SessionBuffer)
}

func TestLoadOverridesPoolSettings(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_MAX_OPEN", "5")
	t.Setenv("DB_MAX_IDLE", "2")
	t.Setenv("DB_CONN_LIFETIME_MIN", "5")
	t.Setenv("HOLD_TTL_MIN", "3")
	t.Setenv("HALL_BUFFER_MIN", "20")

	cfg := Load()
	assert.Equal(t, 5, cfg.DBMaxOpen)
	assert.Equal(t, 2, cfg.DBMaxIdle)
	assert.Equal(t, 5*time.Minute, cfg.DBConnLifetime)
	assert.Equal(t, 3*time.Minute, cfg.HoldTTL)
	assert.Equal(t, 20*time.Minute, cfg.SessionBuffer)
}
