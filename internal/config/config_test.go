package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/config"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()

	v := viper.New()
	config.SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(newViper(t))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultUserAgent, cfg.Crawler.UserAgent)
	assert.Equal(t, 30*time.Second, cfg.Crawler.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.Crawler.BrowserIdleLimit)
	assert.Equal(t, 2*time.Second, cfg.Crawler.BrowserSettle)
	assert.Equal(t, 10, cfg.Enrichment.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Enrichment.TaskTimeout)
	assert.Equal(t, 14, cfg.Dedup.WindowDays)
	assert.Equal(t, 14*24*time.Hour, cfg.Dedup.Window())
	assert.Equal(t, "newsletter_*.json", cfg.Dedup.Pattern)
	assert.Equal(t, "data/articles", cfg.Content.OutputDir)
}

func TestLoad_Overrides(t *testing.T) {
	t.Parallel()

	v := newViper(t)
	v.Set("enrichment.concurrency", 3)
	v.Set("crawler.default_rate_limit", "2500ms")
	v.Set("dedup.window_days", 7)

	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Enrichment.Concurrency)
	assert.Equal(t, 2500*time.Millisecond, cfg.Crawler.DefaultRateLimit)
	assert.Equal(t, 7, cfg.Dedup.WindowDays)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(v *viper.Viper)
		field  string
	}{
		{"zero concurrency", func(v *viper.Viper) { v.Set("enrichment.concurrency", 0) }, "enrichment.concurrency"},
		{"zero window", func(v *viper.Viper) { v.Set("dedup.window_days", 0) }, "dedup.window_days"},
		{"inverted jitter", func(v *viper.Viper) {
			v.Set("crawler.jitter_min", "1s")
			v.Set("crawler.jitter_max", "10ms")
		}, "crawler.jitter_max"},
		{"missing sources file", func(v *viper.Viper) { v.Set("crawler.sources_file", "") }, "crawler.sources_file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := newViper(t)
			tt.mutate(v)

			_, err := config.Load(v)
			require.Error(t, err)
			assert.ErrorIs(t, err, config.ErrConfigInvalid)

			var vErr *config.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}
