package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/salesapi/accounts/internal/repository"
)

// Config aggregates every setting of the server and the salesctl tool.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Import   ImportConfig
	Client   ClientConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	database, err := loadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	redis, err := loadRedisConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		Log:      logCfg,
		Database: database,
		Redis:    redis,
		Import:   loadImportConfig(database),
		Client:   ClientConfig{BaseURL: strings.TrimSuffix(getEnvOrDefault("SALES_API_URL", "http://127.0.0.1:5000"), "/")},
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "5000"
	}

	origins := parseListEnv("CORS_ALLOWED_ORIGINS", []string{"*"})

	if strings.Contains(port, ":") {
		// Allow ":5000" or "127.0.0.1:5000".
		return ServerConfig{Addr: port, AllowedOrigins: origins}, nil
	}

	if _, err := strconv.Atoi(port); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, AllowedOrigins: origins}, nil
}

type LogConfig struct {
	Dev bool
}

func loadLogConfig() (LogConfig, error) {
	dev, err := parseBoolEnv("LOG_DEV", false)
	if err != nil {
		return LogConfig{}, err
	}
	return LogConfig{Dev: dev}, nil
}

// DatabaseConfig selects the accounts database.
type DatabaseConfig struct {
	Dialect repository.Dialect
	DSN     string
}

func loadDatabaseConfig() (DatabaseConfig, error) {
	dialect, err := repository.ParseDialect(getEnvOrDefault("DATABASE_DRIVER", string(repository.SQLite)))
	if err != nil {
		return DatabaseConfig{}, err
	}

	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		if dialect != repository.SQLite {
			return DatabaseConfig{}, fmt.Errorf("DATABASE_URL is required for driver %q", dialect)
		}
		dsn = "file:data/sales.db?mode=ro"
	}

	return DatabaseConfig{Dialect: dialect, DSN: dsn}, nil
}

// RedisConfig describes the optional Redis used for the account view cache and
// import events.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// Enabled reports whether a Redis address was configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

func loadRedisConfig() (RedisConfig, error) {
	db, err := parseIntEnv("REDIS_DB", 0)
	if err != nil {
		return RedisConfig{}, err
	}

	ttl, err := parseDurationEnv("ACCOUNT_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return RedisConfig{}, err
	}
	if ttl < 0 {
		return RedisConfig{}, fmt.Errorf("invalid ACCOUNT_CACHE_TTL value %q: must not be negative", ttl)
	}

	return RedisConfig{
		Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
		CacheTTL: ttl,
	}, nil
}

// ImportConfig describes the bulk import run by salesctl. The server opens
// the SQLite file read-only, so the import needs its own writable DSN.
type ImportConfig struct {
	CSVPath string
	DSN     string
}

func loadImportConfig(database DatabaseConfig) ImportConfig {
	dsn := strings.TrimSpace(os.Getenv("IMPORT_DATABASE_URL"))
	if dsn == "" {
		dsn = database.DSN
		if database.Dialect == repository.SQLite {
			dsn = strings.Replace(dsn, "mode=ro", "mode=rwc", 1)
		}
	}
	return ImportConfig{
		CSVPath: getEnvOrDefault("ACCOUNTS_CSV", "data/sales.csv"),
		DSN:     dsn,
	}
}

type ClientConfig struct {
	BaseURL string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseListEnv(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}
