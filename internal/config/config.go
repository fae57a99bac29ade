package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Market   Market   `mapstructure:"market"`
	Trading  Trading  `mapstructure:"trading"`
	Oracle   Oracle   `mapstructure:"oracle"`
	Logger   Logger   `mapstructure:"logger"`
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
}

// Market holds the configuration for the price simulation and session clock.
type Market struct {
	TickInterval   int     `mapstructure:"tick_interval"` // seconds
	HistoryLimit   int     `mapstructure:"history_limit"`
	SeedLength     int     `mapstructure:"seed_length"`
	TickVolatility float64 `mapstructure:"tick_volatility"`
	SeedVolatility float64 `mapstructure:"seed_volatility"`
	OpenHour       int     `mapstructure:"open_hour"`
	CloseHour      int     `mapstructure:"close_hour"`
}

// Trading holds the configuration for accounts and settlement.
type Trading struct {
	StartingBalance float64 `mapstructure:"starting_balance"`
}

// Oracle holds the configuration for the external price oracle.
type Oracle struct {
	Enabled        bool    `mapstructure:"enabled"`
	BaseURL        string  `mapstructure:"base_url"`
	ChunkSize      int     `mapstructure:"chunk_size"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
	SyncInterval   int     `mapstructure:"sync_interval"` // seconds, 0 disables auto-sync
}

// Server holds the configuration for the HTTP API.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("market.tick_interval", 1)
	viper.SetDefault("market.history_limit", 50)
	viper.SetDefault("market.seed_length", 30)
	viper.SetDefault("market.tick_volatility", 0.0015)
	viper.SetDefault("market.seed_volatility", 0.005)
	viper.SetDefault("market.open_hour", 9)
	viper.SetDefault("market.close_hour", 15)
	viper.SetDefault("trading.starting_balance", 100000)
	viper.SetDefault("oracle.chunk_size", 15)
	viper.SetDefault("oracle.rate_limit", 5) // requests per second
	viper.SetDefault("oracle.rate_limit_burst", 2)
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.dsn", "novatrade.db")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
