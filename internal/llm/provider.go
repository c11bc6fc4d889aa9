package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/posterior/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a plain-language narrative of a finished report
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Report is the calculated report to describe
	Report model.Report

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	// Summary is the generated summary text
	Summary string

	// QuotedPercentages are the N% figures found in the summary (for verification)
	QuotedPercentages []int

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI; Ollama ignores it
	APIKey string

	// BaseURL for OpenAI-compatible endpoints
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration

	// StrictNumbers rejects summaries quoting percentages absent from the report
	StrictNumbers bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns the disabled configuration
func DefaultConfig() Config {
	return Config{
		Provider:      "",
		Timeout:       60 * time.Second,
		StrictNumbers: true,
		MaxTokens:     600,
	}
}

// BuildPrompt constructs the default prompt.
// The model is given the finished numbers and told not to produce new ones.
func BuildPrompt(report model.Report) string {
	var b strings.Builder

	b.WriteString(`You are describing the result of a naive Bayesian calculation. The numbers are final and were computed without you.

CRITICAL RULES:
1. You MUST ONLY quote percentages that appear in the results below.
2. DO NOT recompute, adjust, or round the percentages differently.
3. Describe which facts favour which hypothesis using the conditional probabilities.
4. Never claim that a hypothesis is true or false, only how the given facts weigh it.

`)
	fmt.Fprintf(&b, "Thesis: %s\n\nFacts:\n", report.Thesis)
	for i, fact := range report.Facts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, fact)
	}

	b.WriteString("\nResults:\n")
	for _, o := range report.Outcomes {
		fmt.Fprintf(&b, "- %s: prior %.4g, posterior %d%%\n", o.Hypothesis, o.Chance, o.Percentage)
	}

	if len(report.Score.Signals) > 0 {
		b.WriteString("\nKey Signals:\n")
		for i, signal := range report.Score.Signals {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "- %s: %s\n", signal.Type, signal.Description)
		}
	}

	b.WriteString("\nProvide a 3-4 sentence plain-language explanation of this result.")
	return b.String()
}

// reportPercentages lists every percentage the summary is allowed to quote
func reportPercentages(report model.Report) []int {
	allowed := make([]int, 0, len(report.Outcomes)+1)
	for _, o := range report.Outcomes {
		allowed = append(allowed, o.Percentage)
	}
	return append(allowed, report.Score.PercentSum)
}
