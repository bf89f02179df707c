// Package config reads settings from the environment, after loading an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrDatabaseURLRequired = errors.New("DATABASE_URL is required")

type Config struct {
	DatabaseURL string
	Port        string
	AutoMigrate bool

	Import ImportConfig
	Redis  RedisConfig
	Log    LogConfig
}

type ImportConfig struct {
	BaseDir               string
	MaxIdentifierAttempts int
	NoGroupPlaceholder    string
	LockTTL               time.Duration
}

type RedisConfig struct {
	// Address is empty when runs are serialised in-process only.
	Address  string
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads dotEnvPath (".env" when empty) if it exists, then the process
// environment. Variables already set in the environment win over the file.
func Load(dotEnvPath string) (Config, error) {
	if dotEnvPath == "" {
		dotEnvPath = ".env"
	}
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("stat %s: %w", dotEnvPath, err)
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("IMPORT_BASE_DIR", ".")
	v.SetDefault("IMPORT_MAX_IDENTIFIER_ATTEMPTS", 20)
	v.SetDefault("IMPORT_NO_GROUP_PLACEHOLDER", "None")
	v.SetDefault("IMPORT_LOCK_TTL_SECONDS", 600)
	v.SetDefault("REDIS_ADDRESS", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.AutomaticEnv()

	cfg := Config{
		DatabaseURL: v.GetString("DATABASE_URL"),
		Port:        v.GetString("PORT"),
		AutoMigrate: v.GetBool("AUTO_MIGRATE"),
		Import: ImportConfig{
			BaseDir:               v.GetString("IMPORT_BASE_DIR"),
			MaxIdentifierAttempts: v.GetInt("IMPORT_MAX_IDENTIFIER_ATTEMPTS"),
			NoGroupPlaceholder:    v.GetString("IMPORT_NO_GROUP_PLACEHOLDER"),
			LockTTL:               time.Duration(v.GetInt("IMPORT_LOCK_TTL_SECONDS")) * time.Second,
		},
		Redis: RedisConfig{
			Address:  v.GetString("REDIS_ADDRESS"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if cfg.Import.MaxIdentifierAttempts <= 0 {
		return Config{}, fmt.Errorf("IMPORT_MAX_IDENTIFIER_ATTEMPTS must be positive, got %d", cfg.Import.MaxIdentifierAttempts)
	}
	if cfg.Import.LockTTL <= 0 {
		return Config{}, fmt.Errorf("IMPORT_LOCK_TTL_SECONDS must be positive, got %s", cfg.Import.LockTTL)
	}
	return cfg, nil
}

// RequireDatabase reports whether a database connection string is configured.
func (c Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return ErrDatabaseURLRequired
	}
	return nil
}
