package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Auth     AuthConfig
	Backup   BackupConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	Mode           string
	AllowedOrigins []string
}

// Addr is the listen address of the bridge. The bridge binds to loopback by default.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type DatabaseConfig struct {
	Driver string // sqlite3 or postgres
	Path   string // sqlite3 file path, ":memory:" for an in-memory store
	DSN    string // postgres connection string
}

type LogConfig struct {
	Level string
}

type AuthConfig struct {
	Enabled         bool
	PinHash         string
	JWTSecret       string
	TokenTTLMinutes int
}

type BackupConfig struct {
	Dir      string
	Schedule string // cron spec, empty disables scheduled backups
}

// Load reads configuration from an optional .env file and the environment.
// envFile may be empty, in which case ./.env is tried and silently ignored if missing.
func Load(envFile string) *Config {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	} else {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetDefault("SERVER_HOST", "127.0.0.1")
	v.SetDefault("SERVER_PORT", "17845")
	v.SetDefault("SERVER_MODE", "release")
	v.SetDefault("SERVER_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("DB_DRIVER", "sqlite3")
	v.SetDefault("DB_PATH", "poultry.db")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("AUTH_PIN_HASH", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL_MINUTES", 12*60)
	v.SetDefault("BACKUP_DIR", "")
	v.SetDefault("BACKUP_SCHEDULE", "")

	v.AutomaticEnv()

	return &Config{
		Server: ServerConfig{
			Host:           v.GetString("SERVER_HOST"),
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			AllowedOrigins: splitList(v.GetString("SERVER_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("DB_DRIVER")),
			Path:   v.GetString("DB_PATH"),
			DSN:    v.GetString("DB_DSN"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Auth: AuthConfig{
			Enabled:         v.GetBool("AUTH_ENABLED"),
			PinHash:         v.GetString("AUTH_PIN_HASH"),
			JWTSecret:       v.GetString("JWT_SECRET"),
			TokenTTLMinutes: v.GetInt("JWT_TTL_MINUTES"),
		},
		Backup: BackupConfig{
			Dir:      v.GetString("BACKUP_DIR"),
			Schedule: v.GetString("BACKUP_SCHEDULE"),
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
