package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port              int
	JWTSecret         string
	DatabaseURL       string
	CORSOrigins       []string
	FreeCredits       int64
	RazorpayKeyID     string
	RazorpayKeySecret string
	AirtableAPIKey    string
	AirtableBaseID    string
	AirtableTable     string
	LogLevel          string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 4000)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("FREE_CREDITS", 5)
	v.SetDefault("AIRTABLE_TABLE", "JobApplications")
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Port:              v.GetInt("PORT"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		CORSOrigins:       splitTrim(v.GetString("CORS_ORIGINS")),
		FreeCredits:       v.GetInt64("FREE_CREDITS"),
		RazorpayKeyID:     v.GetString("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: v.GetString("RAZORPAY_KEY_SECRET"),
		AirtableAPIKey:    v.GetString("AIRTABLE_API_KEY"),
		AirtableBaseID:    v.GetString("AIRTABLE_BASE_ID"),
		AirtableTable:     v.GetString("AIRTABLE_TABLE"),
		LogLevel:          v.GetString("LOG_LEVEL"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.RazorpayKeySecret == "" {
		return nil, fmt.Errorf("RAZORPAY_KEY_SECRET is required")
	}
	if cfg.FreeCredits < 0 {
		return nil, fmt.Errorf("FREE_CREDITS must not be negative, got %d", cfg.FreeCredits)
	}

	return cfg, nil
}

func splitTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
