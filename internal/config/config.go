// Package config provides typed runtime configuration for newsdesk.
// Values come from viper (config file, environment, flags) and are
// validated before any network work starts.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/jonesrussell/north-cloud/newsdesk/internal/logger"
)

// Config is the complete runtime configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Logger     logger.Config    `mapstructure:"logger"`
	Crawler    CrawlerConfig    `mapstructure:"crawler"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment"`
	Dedup      DedupConfig      `mapstructure:"dedup"`
	Curation   CurationConfig   `mapstructure:"curation"`
	Content    ContentConfig    `mapstructure:"content"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// CrawlerConfig configures listing fetches.
type CrawlerConfig struct {
	// SourcesFile is the path of the strategy table.
	SourcesFile string `mapstructure:"sources_file"`
	// UserAgent is sent on every request.
	UserAgent string `mapstructure:"user_agent"`
	// RequestTimeout bounds a single HTTP request.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// DefaultRateLimit is the minimum gap between requests when a source sets none.
	DefaultRateLimit time.Duration `mapstructure:"default_rate_limit"`
	// JitterMin and JitterMax bound the random extra delay added to every gap.
	JitterMin time.Duration `mapstructure:"jitter_min"`
	JitterMax time.Duration `mapstructure:"jitter_max"`
	// MaxBodySize caps response bodies in bytes.
	MaxBodySize int `mapstructure:"max_body_size"`
	// RespectRobotsTxt enables the robots.txt gate.
	RespectRobotsTxt bool `mapstructure:"respect_robots_txt"`
	// BrowserIdleLimit caps the wait for network idle after the page is ready.
	BrowserIdleLimit time.Duration `mapstructure:"browser_idle_limit"`
	// BrowserSettle is the pause after network idle, before reading the DOM.
	BrowserSettle time.Duration `mapstructure:"browser_settle"`
	// BrowserTimeout bounds one headless navigation.
	BrowserTimeout time.Duration `mapstructure:"browser_timeout"`
	// OutputDir receives crawl snapshots.
	OutputDir string `mapstructure:"output_dir"`
}

// EnrichmentConfig configures the secondary metadata pass.
type EnrichmentConfig struct {
	Concurrency   int           `mapstructure:"concurrency"`
	TaskTimeout   time.Duration `mapstructure:"task_timeout"`
	IntroMaxChars int           `mapstructure:"intro_max_chars"`
	IntroMinLead  int           `mapstructure:"intro_min_lead"`
	SkipDates     bool          `mapstructure:"skip_dates"`
}

// DedupConfig configures the duplicate index.
type DedupConfig struct {
	Dir        string `mapstructure:"dir"`
	Pattern    string `mapstructure:"pattern"`
	WindowDays int    `mapstructure:"window_days"`
}

// Window returns the trailing window as a duration.
func (d DedupConfig) Window() time.Duration {
	return time.Duration(d.WindowDays) * 24 * time.Hour
}

// CurationConfig configures the external selector.
type CurationConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model"`
	OutputDir  string        `mapstructure:"output_dir"`
	PromptsDir string        `mapstructure:"prompts_dir"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ContentConfig configures body extraction and the article cache.
type ContentConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	TopN      int    `mapstructure:"top_n"`
}

// MetricsConfig configures batch metrics output.
type MetricsConfig struct {
	// Textfile is written in the Prometheus text format when set.
	Textfile string `mapstructure:"textfile"`
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParseFailed, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	checks := []struct {
		ok     bool
		field  string
		value  any
		reason string
	}{
		{c.Crawler.SourcesFile != "", "crawler.sources_file", c.Crawler.SourcesFile, "must be set"},
		{c.Crawler.RequestTimeout > 0, "crawler.request_timeout", c.Crawler.RequestTimeout, "must be positive"},
		{c.Crawler.DefaultRateLimit >= 0, "crawler.default_rate_limit", c.Crawler.DefaultRateLimit, "must be non-negative"},
		{c.Crawler.JitterMin >= 0, "crawler.jitter_min", c.Crawler.JitterMin, "must be non-negative"},
		{c.Crawler.JitterMax >= c.Crawler.JitterMin, "crawler.jitter_max", c.Crawler.JitterMax, "must be >= jitter_min"},
		{c.Crawler.OutputDir != "", "crawler.output_dir", c.Crawler.OutputDir, "must be set"},
		{c.Enrichment.Concurrency > 0, "enrichment.concurrency", c.Enrichment.Concurrency, "must be positive"},
		{c.Enrichment.TaskTimeout > 0, "enrichment.task_timeout", c.Enrichment.TaskTimeout, "must be positive"},
		{c.Enrichment.IntroMaxChars > 0, "enrichment.intro_max_chars", c.Enrichment.IntroMaxChars, "must be positive"},
		{c.Dedup.Dir != "", "dedup.dir", c.Dedup.Dir, "must be set"},
		{c.Dedup.Pattern != "", "dedup.pattern", c.Dedup.Pattern, "must be set"},
		{c.Dedup.WindowDays > 0, "dedup.window_days", c.Dedup.WindowDays, "must be positive"},
		{c.Content.OutputDir != "", "content.output_dir", c.Content.OutputDir, "must be set"},
		{c.Content.TopN >= 0, "content.top_n", c.Content.TopN, "must be non-negative"},
		{c.Curation.OutputDir != "", "curation.output_dir", c.Curation.OutputDir, "must be set"},
	}

	for _, check := range checks {
		if !check.ok {
			return &ValidationError{Field: check.field, Value: check.value, Reason: check.reason}
		}
	}

	return nil
}
