package config

import (
	"fmt"
	"net/url"

	"github.com/spf13/viper"
)

type Config struct {
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     int    `mapstructure:"DB_PORT"`
	DBName     string `mapstructure:"DB_NAME"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBSSL      bool   `mapstructure:"DB_SSL"`
	DBMaxConns int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns int32  `mapstructure:"DB_MIN_CONNS"`

	ElationClientID     string `mapstructure:"ELATION_CLIENT_ID"`
	ElationClientSecret string `mapstructure:"ELATION_CLIENT_SECRET"`
	ElationTokenURL     string `mapstructure:"ELATION_TOKEN_URL"`
	ElationPatientURL   string `mapstructure:"ELATION_URL_PATIENT"`
	ElationMessageURL   string `mapstructure:"ELATION_URL_MESSAGE"`

	// Optional: when both are set, a chart note thread is posted to the
	// practice after each successful reconciliation.
	ElationSenderID   int64 `mapstructure:"ELATION_MESSAGE_SENDER_ID"`
	ElationPracticeID int64 `mapstructure:"ELATION_MESSAGE_PRACTICE_ID"`

	ResendAPIKey string `mapstructure:"RESEND_API_KEY"`
	FromEmail    string `mapstructure:"FROM_EMAIL"`
	NotifyEmail  string `mapstructure:"NOTIFY_EMAIL"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "3030")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("ELATION_TOKEN_URL", "https://sandbox.elationemr.com/api/2.0/oauth2/token/")
	v.SetDefault("FROM_EMAIL", "Rume Health <onboarding@resend.dev>")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DB_HOST")
	v.BindEnv("DB_PORT")
	v.BindEnv("DB_NAME")
	v.BindEnv("DB_USER")
	v.BindEnv("DB_PASSWORD")
	v.BindEnv("DB_SSL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("ELATION_CLIENT_ID")
	v.BindEnv("ELATION_CLIENT_SECRET")
	v.BindEnv("ELATION_TOKEN_URL")
	v.BindEnv("ELATION_URL_PATIENT")
	v.BindEnv("ELATION_URL_MESSAGE")
	v.BindEnv("ELATION_MESSAGE_SENDER_ID")
	v.BindEnv("ELATION_MESSAGE_PRACTICE_ID")
	v.BindEnv("RESEND_API_KEY")
	v.BindEnv("FROM_EMAIL")
	v.BindEnv("NOTIFY_EMAIL")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// DatabaseDSN assembles a pgx-compatible connection URL from the discrete
// database parameters.
func (c *Config) DatabaseDSN() string {
	sslMode := "disable"
	if c.DBSSL {
		sslMode = "require"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     c.DBName,
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String()
}

// MessageThreadsEnabled reports whether the optional chart-note thread
// feature is configured.
func (c *Config) MessageThreadsEnabled() bool {
	return c.ElationSenderID != 0 && c.ElationPracticeID != 0
}

// Validate checks that the configuration is safe to run. The service cannot
// operate without database access, EMR credentials, and an email provider
// key, so all of those are required up front rather than failing on the
// first request.
func (c *Config) Validate() error {
	if c.DBName == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.DBUser == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.ElationClientID == "" || c.ElationClientSecret == "" {
		return fmt.Errorf("ELATION_CLIENT_ID and ELATION_CLIENT_SECRET are required")
	}
	if c.ElationPatientURL == "" {
		return fmt.Errorf("ELATION_URL_PATIENT is required")
	}
	if c.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY is required")
	}
	if c.NotifyEmail == "" {
		return fmt.Errorf("NOTIFY_EMAIL is required")
	}
	if c.MessageThreadsEnabled() && c.ElationMessageURL == "" {
		return fmt.Errorf("ELATION_URL_MESSAGE is required when message thread ids are set")
	}
	return nil
}
