package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammadpnp/roster-import/internal/config"
)

func missingDotEnv(t *testing.T) string {
	return filepath.Join(t.TempDir(), ".env")
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "PORT", "IMPORT_MAX_IDENTIFIER_ATTEMPTS", "IMPORT_NO_GROUP_PLACEHOLDER", "REDIS_ADDRESS", "LOG_LEVEL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := config.Load(missingDotEnv(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 20, cfg.Import.MaxIdentifierAttempts)
	assert.Equal(t, "None", cfg.Import.NoGroupPlaceholder)
	assert.Equal(t, 10*time.Minute, cfg.Import.LockTTL)
	assert.Empty(t, cfg.Redis.Address)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.ErrorIs(t, cfg.RequireDatabase(), config.ErrDatabaseURLRequired)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/roster")
	t.Setenv("PORT", "9090")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("IMPORT_MAX_IDENTIFIER_ATTEMPTS", "5")
	t.Setenv("IMPORT_LOCK_TTL_SECONDS", "30")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")

	cfg, err := config.Load(missingDotEnv(t))
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/roster", cfg.DatabaseURL)
	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, 5, cfg.Import.MaxIdentifierAttempts)
	assert.Equal(t, 30*time.Second, cfg.Import.LockTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.NoError(t, cfg.RequireDatabase())
}

func TestLoadReadsDotEnv(t *testing.T) {
	t.Setenv("IMPORT_NO_GROUP_PLACEHOLDER", "")
	require.NoError(t, os.Unsetenv("IMPORT_NO_GROUP_PLACEHOLDER"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("IMPORT_NO_GROUP_PLACEHOLDER=brak\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "brak", cfg.Import.NoGroupPlaceholder)
}

func TestLoadRejectsNonPositiveAttempts(t *testing.T) {
	t.Setenv("IMPORT_MAX_IDENTIFIER_ATTEMPTS", "0")

	_, err := config.Load(missingDotEnv(t))
	require.Error(t, err)
}
