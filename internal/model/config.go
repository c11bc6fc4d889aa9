package model

import "time"

// Config is the complete posterior configuration
type Config struct {
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	HTTP    HTTPConfig    `yaml:"http" mapstructure:"http"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	LLM     LLMConfig     `yaml:"llm" mapstructure:"llm"`
}

// CacheConfig controls memoization of rendered reports
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl" validate:"gte=0"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl" validate:"gte=0"`
}

// HTTPConfig controls fetching of remote input files
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent" validate:"required"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes" validate:"gt=0"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy" validate:"omitempty,url"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy" validate:"omitempty,url"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"` // Comma-separated hosts or domain suffixes, "*" for all
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Format        string `yaml:"format" mapstructure:"format" validate:"oneof=text json markdown html"`
	Verbose       bool   `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool   `yaml:"include_footer" mapstructure:"include_footer"`
}

// LoggingConfig controls the diagnostic event log
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	File  string `yaml:"file,omitempty" mapstructure:"file"` // JSON event log, appended; empty disables
}

// LLMConfig controls the optional narrative summary
type LLMConfig struct {
	Provider  string        `yaml:"provider,omitempty" mapstructure:"provider" validate:"omitempty,oneof=openai ollama"`
	Model     string        `yaml:"model,omitempty" mapstructure:"model"`
	APIKey    string        `yaml:"-" mapstructure:"api_key"`
	BaseURL   string        `yaml:"base_url,omitempty" mapstructure:"base_url" validate:"omitempty,url"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	MaxTokens int           `yaml:"max_tokens" mapstructure:"max_tokens" validate:"gte=0"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".posterior/cache",
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Posterior/0.1 (+https://github.com/ppiankov/posterior)",
			MaxBodyBytes:  1_000_000,
			RespectRobots: true,
		},
		Output: OutputConfig{
			Format:        "text",
			IncludeFooter: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		LLM: LLMConfig{
			Model:     "gpt-4o-mini",
			Timeout:   60 * time.Second,
			MaxTokens: 600,
		},
	}
}
