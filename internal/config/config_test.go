package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseConfig() *Config {
	return &Config{
		JWTSecret:        "a-development-secret-that-is-long-enough",
		Port:             "8480",
		DBPassword:       "s3cret-db-password",
		DBSSLMode:        "require",
		Env:              "development",
		AssetMaxUploadMB: 10,
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()
	assert.NoError(t, baseConfig().Validate())
}

func TestConfig_Validate_RequiredFields(t *testing.T) {
	t.Parallel()
	cfg := baseConfig()
	cfg.Port = ""
	assert.ErrorContains(t, cfg.Validate(), "PORT")

	cfg = baseConfig()
	cfg.JWTSecret = ""
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg = baseConfig()
	cfg.AssetMaxUploadMB = 0
	assert.ErrorContains(t, cfg.Validate(), "ASSET_MAX_UPLOAD_MB")
}

func TestConfig_Validate_ProductionRules(t *testing.T) {
	t.Parallel()
	cfg := baseConfig()
	cfg.Env = "production"
	cfg.JWTSecret = "your-secret-key-change-in-production"
	assert.ErrorContains(t, cfg.Validate(), "default value")

	cfg = baseConfig()
	cfg.Env = "production"
	cfg.JWTSecret = "short"
	assert.ErrorContains(t, cfg.Validate(), "32 characters")

	cfg = baseConfig()
	cfg.Env = "prod"
	cfg.DBPassword = "password"
	assert.ErrorContains(t, cfg.Validate(), "DB_PASSWORD")

	cfg = baseConfig()
	cfg.Env = "production"
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_DevelopmentIsLenient(t *testing.T) {
	t.Parallel()
	cfg := baseConfig()
	cfg.JWTSecret = "short-dev-secret"
	cfg.DBPassword = "password"
	assert.NoError(t, cfg.Validate())
}
