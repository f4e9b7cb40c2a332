package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/simple-account/pkg/login"
)

// AppConfig holds the HTTP listener settings
type AppConfig struct {
	Port int `env:"APP_PORT" env-default:"4000"`
}

// PersistenceConfig selects the account store
type PersistenceConfig struct {
	Type    string `env:"IDM_PERSISTENCE" env-default:"memory"` // memory, file or postgres
	DataDir string `env:"IDM_DATA_DIR" env-default:"./data"`
}

// PasswordConfig selects the hashing version used for new credentials
type PasswordConfig struct {
	HashVersion int `env:"PASSWORD_HASH_VERSION" env-default:"2"`
}

// Hasher returns a hasher that writes HashVersion and verifies every version
func (p PasswordConfig) Hasher() (login.PasswordHasher, error) {
	return login.NewMultiVersionHasher(login.PasswordVersion(p.HashVersion))
}

// JwtConfig holds the key used to verify bearer tokens
type JwtConfig struct {
	Secret string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
}

// AdminConfig names the administrator account created at startup
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME"`
	Email    string `env:"ADMIN_EMAIL"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
}

// SlogLevel maps Level onto a slog level, defaulting to info
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type Config struct {
	AppConfig         AppConfig
	DatabaseConfig    DatabaseConfig
	PersistenceConfig PersistenceConfig
	PasswordConfig    PasswordConfig
	JwtConfig         JwtConfig
	AdminConfig       AdminConfig
	LogConfig         LogConfig
}

// Load reads the configuration from environment variables
func Load() (Config, error) {
	config := Config{}
	if err := cleanenv.ReadEnv(&config); err != nil {
		return Config{}, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks the values cleanenv cannot
func (c Config) Validate() error {
	switch c.PersistenceConfig.Type {
	case "memory", "file", "postgres":
	default:
		return fmt.Errorf("invalid IDM_PERSISTENCE %q (supported: memory, file, postgres)", c.PersistenceConfig.Type)
	}
	if c.PersistenceConfig.Type == "file" && c.PersistenceConfig.DataDir == "" {
		return fmt.Errorf("IDM_DATA_DIR is required for file persistence")
	}
	if _, err := c.PasswordConfig.Hasher(); err != nil {
		return fmt.Errorf("invalid PASSWORD_HASH_VERSION: %w", err)
	}
	return nil
}
