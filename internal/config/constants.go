package config

import "time"

// Default configuration values.
const (
	DefaultSourcesFile      = "configs/sources.yml"
	DefaultUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultRequestTimeout   = 30 * time.Second
	DefaultRateLimit        = 1 * time.Second
	DefaultJitterMin        = 100 * time.Millisecond
	DefaultJitterMax        = 500 * time.Millisecond
	DefaultMaxBodySize      = 10 * 1024 * 1024 // 10MB
	DefaultBrowserIdleLimit = 10 * time.Second
	DefaultBrowserSettle    = 2 * time.Second
	DefaultBrowserTimeout   = 30 * time.Second
	DefaultCrawlOutputDir   = "data/crawled_data"
	DefaultConcurrency      = 10
	DefaultTaskTimeout      = 30 * time.Second
	DefaultIntroMaxChars    = 500
	DefaultIntroMinLead     = 20
	DefaultDedupDir         = "data/newsletters"
	DefaultDedupPattern     = "newsletter_*.json"
	DefaultDedupWindowDays  = 14
	DefaultCurationModel    = "gemini-2.5-flash"
	DefaultCurationDir      = "data/curated"
	DefaultPromptsDir       = "prompts"
	DefaultCurationTimeout  = 2 * time.Minute
	DefaultContentOutputDir = "data/articles"
	DefaultContentTopN      = 1
)

// Defaults returns the nested default maps registered with viper.
func Defaults() map[string]any {
	return map[string]any{
		"app": map[string]any{
			"name":        "newsdesk",
			"environment": "production",
			"debug":       false,
		},
		"logger": map[string]any{
			"level":       "info",
			"development": false,
			"encoding":    "console",
		},
		"crawler": map[string]any{
			"sources_file":       DefaultSourcesFile,
			"user_agent":         DefaultUserAgent,
			"request_timeout":    DefaultRequestTimeout.String(),
			"default_rate_limit": DefaultRateLimit.String(),
			"jitter_min":         DefaultJitterMin.String(),
			"jitter_max":         DefaultJitterMax.String(),
			"max_body_size":      DefaultMaxBodySize,
			"respect_robots_txt": false,
			"browser_idle_limit": DefaultBrowserIdleLimit.String(),
			"browser_settle":     DefaultBrowserSettle.String(),
			"browser_timeout":    DefaultBrowserTimeout.String(),
			"output_dir":         DefaultCrawlOutputDir,
		},
		"enrichment": map[string]any{
			"concurrency":     DefaultConcurrency,
			"task_timeout":    DefaultTaskTimeout.String(),
			"intro_max_chars": DefaultIntroMaxChars,
			"intro_min_lead":  DefaultIntroMinLead,
			"skip_dates":      false,
		},
		"dedup": map[string]any{
			"dir":         DefaultDedupDir,
			"pattern":     DefaultDedupPattern,
			"window_days": DefaultDedupWindowDays,
		},
		"curation": map[string]any{
			"api_key":     "",
			"model":       DefaultCurationModel,
			"output_dir":  DefaultCurationDir,
			"prompts_dir": DefaultPromptsDir,
			"timeout":     DefaultCurationTimeout.String(),
		},
		"content": map[string]any{
			"output_dir": DefaultContentOutputDir,
			"top_n":      DefaultContentTopN,
		},
		"metrics": map[string]any{
			"textfile": "",
		},
	}
}

// SetDefaults registers Defaults on v.
func SetDefaults(v interface{ SetDefault(key string, value any) }) {
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}
}
