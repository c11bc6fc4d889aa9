package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/posterior/internal/model"
	"go.uber.org/zap"
)

// Summarizer attaches an optional narrative to a finished report.
// It runs after calculation and never changes the numbers.
type Summarizer struct {
	provider Provider
	config   Config
	logger   *zap.Logger
}

// NewSummarizer creates a summarizer; an empty provider yields a disabled one
func NewSummarizer(config Config, logger *zap.Logger) (*Summarizer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}

	return &Summarizer{provider: provider, config: config, logger: logger}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider name, or "" when disabled
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary asks the provider for a narrative.
// Provider failures degrade to warnings; the returned error is reserved for misuse.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) (*model.LLMSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	logger := s.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if !s.provider.IsAvailable(ctx) {
		logger.Warn("LLM provider not available", zap.String("provider", s.provider.Name()))
		return &model.LLMSummary{
			Enabled:  false,
			Provider: s.provider.Name(),
			Warnings: []string{fmt.Sprintf("LLM provider %s is not available", s.provider.Name())},
		}, nil
	}

	summary := &model.LLMSummary{
		Enabled:       true,
		Provider:      s.provider.Name(),
		Model:         s.config.Model,
		StrictNumbers: s.config.StrictNumbers,
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:    report,
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		logger.Warn("LLM summary failed", zap.String("provider", s.provider.Name()), zap.Error(err))
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("LLM summary generation failed: %v", err))
		return summary, nil
	}

	if resp.Model != "" {
		summary.Model = resp.Model
	}
	summary.SummaryMD = resp.Summary
	summary.Warnings = append(summary.Warnings,
		fmt.Sprintf("Tokens used: %d", resp.TokensUsed),
		fmt.Sprintf("Verified %d quoted percentages against the report", len(resp.QuotedPercentages)))

	logger.Info("LLM summary generated",
		zap.String("provider", summary.Provider),
		zap.String("model", summary.Model),
		zap.Int("tokens", resp.TokensUsed))

	return summary, nil
}

// RenderSeparateMarkdown renders the summary as a standalone Markdown document
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# LLM Summary\n\n")
	b.WriteString("> **GENERATED CONTENT.** The percentages were determined independently by the calculation; ")
	b.WriteString("this text only describes them.\n\n")

	fmt.Fprintf(&b, "- **Provider:** %s\n", summary.Provider)
	fmt.Fprintf(&b, "- **Model:** %s\n", summary.Model)
	fmt.Fprintf(&b, "- **Strict Numbers Mode:** %t\n\n", summary.StrictNumbers)

	if summary.SummaryMD == "" {
		b.WriteString("_No summary generated._\n")
	} else {
		b.WriteString(summary.SummaryMD)
		b.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}
