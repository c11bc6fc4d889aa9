package validate

import (
	"strings"
	"testing"

	"github.com/ppiankov/posterior/internal/model"
)

func TestConfig_Defaults(t *testing.T) {
	if err := Config(model.DefaultConfig()); err != nil {
		t.Errorf("Expected default config to be valid, got %v", err)
	}
}

func TestConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *model.Config)
		field  string
	}{
		{"unknown format", func(c *model.Config) { c.Output.Format = "pdf" }, "Format"},
		{"unknown log level", func(c *model.Config) { c.Logging.Level = "loud" }, "Level"},
		{"zero timeout", func(c *model.Config) { c.HTTP.Timeout = 0 }, "Timeout"},
		{"bad proxy", func(c *model.Config) { c.HTTP.HTTPProxy = "not a url" }, "HTTPProxy"},
		{"unknown llm provider", func(c *model.Config) { c.LLM.Provider = "oracle" }, "Provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := model.DefaultConfig()
			tt.mutate(cfg)

			err := Config(cfg)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Expected error to name %s, got %v", tt.field, err)
			}
		})
	}
}

func TestConfig_Nil(t *testing.T) {
	if err := Config(nil); err == nil {
		t.Error("Expected error for nil config")
	}
}
