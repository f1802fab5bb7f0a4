package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Occupancy  OccupancyConfig
	Auth       AuthConfig
	Redis      RedisConfig
	Monitoring MonitoringConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	// MockPath switches the store to the JSON-file backend when set.
	MockPath string `mapstructure:"mock_path"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// OccupancyConfig controls the availability computation.
type OccupancyConfig struct {
	// ActivityWindowSeconds defines how recently a motion event must
	// have occurred for its room to count as busy.
	ActivityWindowSeconds int `mapstructure:"activity_window_seconds"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// IngestPerMinute caps motion submissions per sensor token; zero
	// disables rate limiting.
	IngestPerMinute int `mapstructure:"ingest_per_minute"`
}

type MonitoringConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetEnvPrefix("ROOMHUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Load config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults. Keys without a meaningful default still need
	// to be registered so environment-only values reach Unmarshal.
	viper.SetDefault("database.postgres.host", "")
	viper.SetDefault("database.postgres.port", 5432)
	viper.SetDefault("database.postgres.user", "")
	viper.SetDefault("database.postgres.password", "")
	viper.SetDefault("database.postgres.dbname", "")
	viper.SetDefault("database.postgres.sslmode", "disable")
	viper.SetDefault("database.mock_path", "")

	// Occupancy defaults: 15 minutes of inactivity frees a room
	viper.SetDefault("occupancy.activity_window_seconds", 900)

	// Auth defaults
	viper.SetDefault("auth.jwt_secret", "")
	viper.SetDefault("auth.token_ttl", "12h")

	// Redis defaults
	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ingest_per_minute", 0)

	// Monitoring defaults
	viper.SetDefault("monitoring.log_level", "info")
}

func validateConfig(config *Config) error {
	if config.Database.MockPath == "" && config.Database.Postgres.Host == "" {
		return fmt.Errorf("either a postgres host or a mock store path is required")
	}
	if config.Occupancy.ActivityWindowSeconds <= 0 {
		return fmt.Errorf("activity window must be positive")
	}
	if config.Auth.JWTSecret == "" {
		return fmt.Errorf("auth jwt secret is required")
	}
	return nil
}
