package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"todolists/database"
	"todolists/infrastructure/sessions"
	"todolists/logging"
)

// AppConfig holds application-wide system configuration.
type AppConfig struct {
	HTTPAddr    string
	HTTPLogPath string
	Database    *database.Config
	Logging     *logging.Config
	Session     *sessions.Config
}

// duration decodes TOML strings such as "15m" into a time.Duration.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// fileConfig mirrors the optional TOML config file.
type fileConfig struct {
	HTTP struct {
		Addr    string `toml:"addr"`
		LogPath string `toml:"log_path"`
	} `toml:"http"`
	Database struct {
		database.Config
		ConnMaxLifetime duration `toml:"conn_max_lifetime"`
		ConnMaxIdleTime duration `toml:"conn_max_idle_time"`
	} `toml:"database"`
	Logging logging.Config `toml:"logging"`
	Session struct {
		Store         string   `toml:"store"`
		CookieName    string   `toml:"cookie_name"`
		TTL           duration `toml:"ttl"`
		SecureCookie  bool     `toml:"secure_cookie"`
		PruneInterval duration `toml:"prune_interval"`
	} `toml:"session"`
}

func defaultFileConfig() *fileConfig {
	fc := &fileConfig{}
	fc.HTTP.Addr = ":8080"

	fc.Database.Path = "./todolists.db"
	fc.Database.MaxOpenConns = 25
	fc.Database.MaxIdleConns = 5
	fc.Database.BusyTimeoutMs = 5000
	fc.Database.EnableForeignKeys = true
	fc.Database.EnableWAL = true
	fc.Database.ConnMaxLifetime = duration{time.Hour}
	fc.Database.ConnMaxIdleTime = duration{15 * time.Minute}

	fc.Logging = *logging.DefaultConfig()

	session := sessions.DefaultConfig()
	fc.Session.Store = session.Store
	fc.Session.CookieName = session.CookieName
	fc.Session.TTL = duration{session.TTL}
	fc.Session.SecureCookie = session.SecureCookie
	fc.Session.PruneInterval = duration{session.PruneInterval}
	return fc
}

// LoadAppConfigFromEnv loads complete application configuration from environment variables.
func LoadAppConfigFromEnv() *AppConfig {
	return buildAppConfig(defaultFileConfig())
}

// LoadAppConfig layers configuration: built-in defaults, then the TOML file at path
// (skipped when path is empty), then environment variables.
func LoadAppConfig(path string) (*AppConfig, error) {
	fc := defaultFileConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, fc); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	return buildAppConfig(fc), nil
}

func buildAppConfig(fc *fileConfig) *AppConfig {
	return &AppConfig{
		HTTPAddr:    getEnvWithDefault("HTTP_ADDR", fc.HTTP.Addr),
		HTTPLogPath: getEnvWithDefault("HTTP_LOG_PATH", fc.HTTP.LogPath),
		Database:    loadDatabaseConfig(fc),
		Logging:     loadLoggingConfig(fc),
		Session:     loadSessionConfig(fc),
	}
}

func loadDatabaseConfig(fc *fileConfig) *database.Config {
	return &database.Config{
		Path:              getEnvWithDefault("DB_PATH", fc.Database.Path),
		MaxOpenConns:      getEnvIntWithDefault("DB_MAX_OPEN_CONNS", fc.Database.MaxOpenConns),
		MaxIdleConns:      getEnvIntWithDefault("DB_MAX_IDLE_CONNS", fc.Database.MaxIdleConns),
		ConnMaxLifetime:   getEnvDurationWithDefault("DB_CONN_MAX_LIFETIME", fc.Database.ConnMaxLifetime.Duration),
		ConnMaxIdleTime:   getEnvDurationWithDefault("DB_CONN_MAX_IDLE_TIME", fc.Database.ConnMaxIdleTime.Duration),
		BusyTimeoutMs:     getEnvIntWithDefault("DB_BUSY_TIMEOUT_MS", fc.Database.BusyTimeoutMs),
		EnableForeignKeys: getEnvBoolWithDefault("DB_ENABLE_FOREIGN_KEYS", fc.Database.EnableForeignKeys),
		EnableWAL:         getEnvBoolWithDefault("DB_ENABLE_WAL", fc.Database.EnableWAL),
	}
}

func loadLoggingConfig(fc *fileConfig) *logging.Config {
	return &logging.Config{
		Level:  getEnvWithDefault("LOG_LEVEL", fc.Logging.Level),
		Format: getEnvWithDefault("LOG_FORMAT", fc.Logging.Format),
		Output: getEnvWithDefault("LOG_OUTPUT", fc.Logging.Output),
	}
}

func loadSessionConfig(fc *fileConfig) *sessions.Config {
	return &sessions.Config{
		Store:         strings.ToLower(getEnvWithDefault("SESSION_STORE", fc.Session.Store)),
		CookieName:    getEnvWithDefault("SESSION_COOKIE_NAME", fc.Session.CookieName),
		TTL:           getEnvDurationWithDefault("SESSION_TTL", fc.Session.TTL.Duration),
		SecureCookie:  getEnvBoolWithDefault("SESSION_SECURE_COOKIE", fc.Session.SecureCookie),
		PruneInterval: getEnvDurationWithDefault("SESSION_PRUNE_INTERVAL", fc.Session.PruneInterval.Duration),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(v string, def bool) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// Helper functions for environment variable parsing.
func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return parseBool(value, defaultValue)
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
