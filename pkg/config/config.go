package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"legaluplift/pkg/models"
	"legaluplift/pkg/payloads"
)

const defaultTCPALanguage = "By clicking Submit, I agree to be contacted about my claim by a law firm or legal " +
	"service provider at the phone number and email provided, including by autodialed calls, prerecorded " +
	"messages and text messages. Consent is not a condition of any purchase or service."

// Config holds all application configuration values
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	LeadMarketURL       string `env:"LEADMARKET_URL"`
	LeadMarketAPIKey    string `env:"LEADMARKET_API_KEY"`
	LeadMarketAPIAction string `env:"LEADMARKET_API_ACTION" envDefault:"pingPostConsent"`
	LeadMarketType      string `env:"LEADMARKET_TYPE" envDefault:"37"`
	LeadMarketSource    string `env:"LEADMARKET_SRC" envDefault:"AutoLegalUplift_"`
	DefaultIPAddress    string `env:"LEADMARKET_DEFAULT_IP" envDefault:"75.2.92.149"`
	LandingPageURL      string `env:"LANDING_PAGE_URL"`
	TCPALanguage        string `env:"TCPA_LANGUAGE"`

	TrustedFormAPIKey   string `env:"TRUSTEDFORM_API_KEY"`
	TrustedFormCertHost string `env:"TRUSTEDFORM_CERT_HOST" envDefault:"cert.trustedform.com"`

	TimingCutoff    string `env:"TIMING_CUTOFF" envDefault:"over_90_days"`
	CompensationMin int    `env:"COMPENSATION_MIN" envDefault:"75000"`
	CompensationMax int    `env:"COMPENSATION_MAX" envDefault:"125000"`

	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	MaxSessions int           `env:"MAX_SESSIONS" envDefault:"10000"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`
}

// LoadConfig reads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TCPALanguage == "" {
		cfg.TCPALanguage = defaultTCPALanguage
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env.Parse cannot.
func (c *Config) Validate() error {
	var errs []error
	if c.LeadMarketURL == "" {
		errs = append(errs, errors.New("LEADMARKET_URL is required"))
	}
	if _, err := models.ParseTiming(c.TimingCutoff); err != nil {
		errs = append(errs, fmt.Errorf("TIMING_CUTOFF: %w", err))
	}
	if c.CompensationMin <= 0 || c.CompensationMax < c.CompensationMin {
		errs = append(errs, fmt.Errorf("invalid compensation range %d-%d", c.CompensationMin, c.CompensationMax))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.MaxSessions <= 0 {
		errs = append(errs, errors.New("MAX_SESSIONS must be positive"))
	}
	return errors.Join(errs...)
}

// Campaign returns the marketplace campaign fields sent with every lead.
func (c *Config) Campaign() payloads.Campaign {
	return payloads.Campaign{
		Key:       c.LeadMarketAPIKey,
		APIAction: c.LeadMarketAPIAction,
		Type:      c.LeadMarketType,
		Source:    c.LeadMarketSource,
	}
}

func (c *Config) Compensation() models.CompensationRange {
	return models.CompensationRange{Min: c.CompensationMin, Max: c.CompensationMax}
}

func (c *Config) Cutoff() models.Timing {
	return models.Timing(c.TimingCutoff)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
