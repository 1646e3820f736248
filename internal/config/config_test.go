package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	t.Setenv("RAZORPAY_KEY_SECRET", "rzp-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, int64(5), cfg.FreeCredits)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "JobApplications", cfg.AirtableTable)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("FREE_CREDITS", "10")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://staging.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, int64(10), cfg.FreeCredits)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.CORSOrigins)
}

func TestLoadRequiredVars(t *testing.T) {
	cases := []struct {
		name  string
		unset string
	}{
		{"missing jwt secret", "JWT_SECRET"},
		{"missing database url", "DATABASE_URL"},
		{"missing gateway secret", "RAZORPAY_KEY_SECRET"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.unset, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.unset)
		})
	}
}

func TestLoadRejectsNegativeFreeCredits(t *testing.T) {
	setRequired(t)
	t.Setenv("FREE_CREDITS", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FREE_CREDITS")
}
