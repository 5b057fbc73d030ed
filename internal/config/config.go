package config

import "github.com/kelseyhightower/envconfig"

// Config holds the application configuration, loaded from the environment.
type Config struct {
	AppEnv       string `envconfig:"APP_ENV" default:"dev"`
	ServerPort   int    `envconfig:"PORT" default:"8080"`
	DatabasePath string `envconfig:"DATABASE_PATH" default:"./digest.db"`

	// FetchIntervalMinutes is the aggregation cadence. The exact value is a
	// tunable, not a correctness property.
	FetchIntervalMinutes int `envconfig:"FETCH_INTERVAL_MINUTES" default:"60"`
	// DigestCron is a standard 5-field cron spec for the daily digest run.
	DigestCron string `envconfig:"DIGEST_CRON" default:"0 8 * * *"`
	// LookbackDays bounds both new fetches and digest candidate queries.
	LookbackDays int `envconfig:"LOOKBACK_DAYS" default:"7"`

	NewsAPIKey string `envconfig:"NEWSAPI_KEY"`

	SMTPHost     string `envconfig:"SMTP_HOST" default:"localhost"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	MailFrom     string `envconfig:"MAIL_FROM" default:"digest@localhost"`

	JWTSecret string `envconfig:"JWT_SECRET"`
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
