// Package config loads service configuration from the environment.
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the full service configuration.
type Config struct {
	Port        string
	DatabaseURL string
	RedisAddr   string
	KafkaBroker string

	// Scheduler and evaluation tunables.
	CheckInterval           time.Duration
	MinRecheck              time.Duration
	CacheTTL                time.Duration
	PerSourceTimeout        time.Duration
	DefaultMaxNotifications int
	SourceBudgetPerMinute   int

	// Upstream endpoints, overridable for staging and tests.
	FrankfurterURL string
	OpenRatesURL   string
	CoinGeckoURL   string
}

// Load reads configuration from environment variables, with a local .env file
// as a convenience. Defaults match the documented tunables.
func Load() (*Config, error) {
	// Ignore a missing .env; real deployments set the environment directly.
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("KAFKA_BROKER", "")

	viper.SetDefault("CHECK_INTERVAL_MINUTES", 5)
	viper.SetDefault("MIN_RECHECK_SECONDS", 60)
	viper.SetDefault("CACHE_TTL_SECONDS", 300)
	viper.SetDefault("PER_SOURCE_TIMEOUT_MS", 5000)
	viper.SetDefault("MAX_NOTIFICATIONS_PER_ALERT", 1)
	viper.SetDefault("SOURCE_BUDGET_PER_MINUTE", 30)

	viper.SetDefault("FRANKFURTER_URL", "https://api.frankfurter.dev/v1")
	viper.SetDefault("OPEN_RATES_URL", "https://cdn.jsdelivr.net/npm/@fawazahmed0/currency-api@latest/v1")
	viper.SetDefault("COINGECKO_URL", "https://api.coingecko.com/api/v3")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:        viper.GetString("PORT"),
		DatabaseURL: viper.GetString("PGSQL_URL"),
		RedisAddr:   viper.GetString("REDIS_ADDR"),
		KafkaBroker: viper.GetString("KAFKA_BROKER"),

		CheckInterval:           time.Duration(viper.GetInt("CHECK_INTERVAL_MINUTES")) * time.Minute,
		MinRecheck:              time.Duration(viper.GetInt("MIN_RECHECK_SECONDS")) * time.Second,
		CacheTTL:                time.Duration(viper.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		PerSourceTimeout:        time.Duration(viper.GetInt("PER_SOURCE_TIMEOUT_MS")) * time.Millisecond,
		DefaultMaxNotifications: viper.GetInt("MAX_NOTIFICATIONS_PER_ALERT"),
		SourceBudgetPerMinute:   viper.GetInt("SOURCE_BUDGET_PER_MINUTE"),

		FrankfurterURL: viper.GetString("FRANKFURTER_URL"),
		OpenRatesURL:   viper.GetString("OPEN_RATES_URL"),
		CoinGeckoURL:   viper.GetString("COINGECKO_URL"),
	}

	return cfg, nil
}
