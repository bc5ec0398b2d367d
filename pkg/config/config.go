package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// MigrationsDir points at the SQL migration files applied on startup.
	MigrationsDir string

	// RateLimitPerMinute caps API requests per client IP. Zero disables
	// rate limiting.
	RateLimitPerMinute int

	// Credit servicing knobs. Days past due before a credit turns overdue,
	// days past due before it defaults, and the daily penalty rate charged
	// on the overdue amount.
	OverdueAfterDays int
	DefaultAfterDays int
	PenaltyDailyRate float64
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("MIGRATIONS_DIR", "migrations")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 300)
	viper.SetDefault("OVERDUE_AFTER_DAYS", 30)
	viper.SetDefault("DEFAULT_AFTER_DAYS", 90)
	viper.SetDefault("PENALTY_DAILY_RATE", 0.001)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.MigrationsDir = viper.GetString("MIGRATIONS_DIR")
	cfg.RateLimitPerMinute = viper.GetInt("RATE_LIMIT_PER_MINUTE")

	cfg.OverdueAfterDays = viper.GetInt("OVERDUE_AFTER_DAYS")
	cfg.DefaultAfterDays = viper.GetInt("DEFAULT_AFTER_DAYS")
	cfg.PenaltyDailyRate = viper.GetFloat64("PENALTY_DAILY_RATE")
	if cfg.PenaltyDailyRate < 0 {
		log.Printf("Warning: negative PENALTY_DAILY_RATE (%f). Defaulting to 0.001.\n", cfg.PenaltyDailyRate)
		cfg.PenaltyDailyRate = 0.001
	}

	return cfg, nil
}
