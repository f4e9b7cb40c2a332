package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-account/pkg/login"
)

func TestLoad_Defaults(t *testing.T) {
	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, config.AppConfig.Port)
	assert.Equal(t, "memory", config.PersistenceConfig.Type)
	assert.Equal(t, "./data", config.PersistenceConfig.DataDir)
	assert.Equal(t, 2, config.PasswordConfig.HashVersion)
	assert.Equal(t, "localhost", config.DatabaseConfig.Host)
	assert.Equal(t, uint16(5432), config.DatabaseConfig.Port)
	assert.Equal(t, slog.LevelInfo, config.LogConfig.SlogLevel())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("IDM_PERSISTENCE", "file")
	t.Setenv("IDM_DATA_DIR", "/var/lib/idm")
	t.Setenv("PASSWORD_HASH_VERSION", "3")
	t.Setenv("IDM_PG_PORT", "6543")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ADMIN_USERNAME", "root")

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, config.AppConfig.Port)
	assert.Equal(t, "file", config.PersistenceConfig.Type)
	assert.Equal(t, "/var/lib/idm", config.PersistenceConfig.DataDir)
	assert.Equal(t, uint16(6543), config.DatabaseConfig.ToDbConfig().Port)
	assert.Equal(t, slog.LevelDebug, config.LogConfig.SlogLevel())
	assert.Equal(t, "root", config.AdminConfig.Username)

	hasher, err := config.PasswordConfig.Hasher()
	require.NoError(t, err)
	hash, err := hasher.Hash("pw")
	require.NoError(t, err)
	assert.Equal(t, login.PasswordV3, login.DetectVersion(hash))
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("Persistence", func(t *testing.T) {
		t.Setenv("IDM_PERSISTENCE", "mongo")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("HashVersion", func(t *testing.T) {
		t.Setenv("PASSWORD_HASH_VERSION", "7")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_ToDbConfig(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, Database: "idm_db", User: "idm", Password: "pwd"}
	got := d.ToDbConfig()

	assert.Equal(t, "db", got.Host)
	assert.Equal(t, uint16(5432), got.Port)
	assert.Equal(t, "idm_db", got.Database)
	assert.Equal(t, "idm", got.User)
	assert.Equal(t, "pwd", got.Password)
}
