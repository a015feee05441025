package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"profile-service-go/pkg/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type Config struct {
	HTTPPort           string
	Env                string
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration
	Profile            ProfileConfig
	DB                 DBConfig
}

type ProfileConfig struct {
	// MaskReadErrors serves the default profile when the store fails on read.
	MaskReadErrors bool
}

type DBConfig struct {
	Driver          string
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	SQLitePath      string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RedisKeyPrefix  string
	ConnectTimeout  time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	RequireOnStart  bool
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	src, err := newSource(log)
	if err != nil {
		return Config{}, fmt.Errorf("load config file: %w", err)
	}

	cfg := Config{
		HTTPPort:           src.getString("HTTP_PORT", "3000"),
		Env:                src.getString("ENV", "development"),
		CORSAllowedOrigins: splitCSV(src.getString("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		RequestTimeout:     src.getDuration("HTTP_REQUEST_TIMEOUT", 30*time.Second),
		Profile: ProfileConfig{
			MaskReadErrors: src.getBool("PROFILE_MASK_READ_ERRORS", true),
		},
		DB: DBConfig{
			Driver:          strings.ToLower(src.getString("DB_DRIVER", DriverPostgres)),
			DSN:             src.getString("DB_DSN", ""),
			Host:            src.getString("DB_HOST", "localhost"),
			Port:            src.getString("DB_PORT", "5432"),
			User:            src.getString("DB_USER", "postgres"),
			Password:        src.getString("DB_PASSWORD", "postgres"),
			Name:            src.getString("DB_NAME", "profiles"),
			SSLMode:         src.getString("DB_SSLMODE", "disable"),
			TimeZone:        src.getString("DB_TIMEZONE", "UTC"),
			SQLitePath:      src.getString("DB_SQLITE_PATH", "./data/profiles.db"),
			RedisAddr:       src.getString("DB_REDIS_ADDR", "localhost:6379"),
			RedisPassword:   src.getString("DB_REDIS_PASSWORD", ""),
			RedisDB:         src.getInt("DB_REDIS_DB", 0),
			RedisKeyPrefix:  src.getString("DB_REDIS_KEY_PREFIX", "profiles"),
			ConnectTimeout:  src.getDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
			MaxOpenConns:    src.getInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    src.getInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: src.getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			RequireOnStart:  src.getBool("DB_REQUIRE_ON_START", false),
		},
	}

	if err := cfg.DB.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c DBConfig) validate() error {
	switch c.Driver {
	case DriverPostgres, DriverSQLite, DriverRedis, DriverMemory:
		return nil
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Driver)
	}
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		result = append(result, part)
	}
	return result
}

func parseInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseBool(value string, fallback bool) bool {
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
