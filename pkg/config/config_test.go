package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 18, cfg.Vetting.HoroscopeThreshold)
	assert.Equal(t, 60, cfg.Scoring.SuccessThreshold)
	assert.NotEmpty(t, cfg.Stages.Parser)
	assert.NotEmpty(t, cfg.Stages.Proposal)
}

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, Defaults(), cfg)
	})

	t.Run("yaml overrides merge over defaults", func(t *testing.T) {
		dir := t.TempDir()
		yaml := `
http:
  port: "9999"
scoring:
  success_threshold: 75
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(yaml), 0o600))

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "9999", cfg.HTTP.Port)
		assert.Equal(t, 75, cfg.Scoring.SuccessThreshold)

		// Untouched sections keep their defaults.
		assert.Equal(t, Defaults().Vetting, cfg.Vetting)
		assert.Equal(t, Defaults().Scoring.Expression, cfg.Scoring.Expression)
	})

	t.Run("environment overrides win", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "7777")
		t.Setenv("DB_PATH", "/tmp/other.sqlite")

		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "7777", cfg.HTTP.Port)
		assert.Equal(t, "/tmp/other.sqlite", cfg.Database.Path)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("http: ["), 0o600))

		_, err := Load(dir)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("empty database path", func(t *testing.T) {
		cfg := Defaults()
		cfg.Database.Path = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("inverted horoscope range", func(t *testing.T) {
		cfg := Defaults()
		cfg.Vetting.HoroscopeMin = 40
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative seed counts", func(t *testing.T) {
		cfg := Defaults()
		cfg.Seed.Grooms = -1
		assert.Error(t, cfg.Validate())
	})
}
