package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("DATABASE_URL", "postgresql://localhost/workshop_test")
	os.Unsetenv("PORT")
	os.Unsetenv("AWS_REGION")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.True(t, cfg.IsTest())
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}

func TestGetEnvFallback(t *testing.T) {
	t.Setenv("SOME_UNSET_KEY", "")
	assert.Equal(t, "fallback", getEnv("SOME_UNSET_KEY", "fallback"))

	t.Setenv("SOME_SET_KEY", "value")
	assert.Equal(t, "value", getEnv("SOME_SET_KEY", "value"))
}
