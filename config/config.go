// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Batch sizes allowed by the BLS timeseries API per request tier.
const (
	registeredTierBatchSize = 50
	publicTierBatchSize     = 25
)

// Config holds all application configuration.
type Config struct {
	// PostgreSQL: either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// JWT signing secret (required in production).
	JWTSecret string

	// Server
	Debug      bool
	Port       string
	TLSDomains []string

	// BLS OEWS pipeline
	BLSBaseURL         string
	BLSRegistrationKey string
	BLSSurveyYear      int
	BLSRequestTimeout  time.Duration
	BLSRequestDelay    time.Duration

	// Cron expression for the scheduled pipeline trigger; empty disables it.
	PipelineSchedule string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("DB_USER", "technova")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "compintel")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("PORT", ":9000")
	v.SetDefault("TLS_DOMAINS", "comp.technova.app")
	v.SetDefault("DEBUG", false)
	v.SetDefault("BLS_API_BASE_URL", "https://api.bls.gov/publicAPI/v2")
	// BLS OEWS releases in April each year, so the prior survey year is the
	// freshest one available for most of the calendar year.
	v.SetDefault("BLS_SURVEY_YEAR", 2024)
	v.SetDefault("BLS_REQUEST_TIMEOUT", "30s")
	v.SetDefault("BLS_REQUEST_DELAY", "500ms")

	cfg := &Config{
		DatabaseURL:        v.GetString("DATABASE_URL"),
		DBUser:             v.GetString("DB_USER"),
		DBPass:             v.GetString("DB_PASSWORD"),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetString("DB_PORT"),
		DBName:             v.GetString("DB_NAME"),
		DBSSLMode:          v.GetString("DB_SSLMODE"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		Debug:              v.GetBool("DEBUG"),
		Port:               v.GetString("PORT"),
		TLSDomains:         splitTrimmed(v.GetString("TLS_DOMAINS")),
		BLSBaseURL:         v.GetString("BLS_API_BASE_URL"),
		BLSRegistrationKey: strings.TrimSpace(v.GetString("BLS_REGISTRATION_KEY")),
		BLSSurveyYear:      v.GetInt("BLS_SURVEY_YEAR"),
		BLSRequestTimeout:  v.GetDuration("BLS_REQUEST_TIMEOUT"),
		BLSRequestDelay:    v.GetDuration("BLS_REQUEST_DELAY"),
		PipelineSchedule:   v.GetString("PIPELINE_SCHEDULE"),
	}

	cfg.validate()
	return cfg
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

// BLSBatchSize returns the maximum series per request for the configured tier:
// 50 with a registration key, 25 on the public tier.
func (c *Config) BLSBatchSize() int {
	if c.BLSRegistrationKey != "" {
		return registeredTierBatchSize
	}
	return publicTierBatchSize
}

func (c *Config) validate() {
	if c.DatabaseURL == "" && c.DBPass == "" {
		log.Fatal("config: DATABASE_URL or DB_PASSWORD must be set")
	}
	if c.JWTSecret == "" {
		log.Fatal("config: JWT_SECRET must be set")
	}
	if c.BLSSurveyYear < 2000 {
		log.Fatalf("config: BLS_SURVEY_YEAR %d is not a plausible survey year", c.BLSSurveyYear)
	}
}

func newViper() *viper.Viper {
	// Silently load .env; OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
