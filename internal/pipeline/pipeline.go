package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/posterior/internal/cache"
	"github.com/ppiankov/posterior/internal/llm"
	"github.com/ppiankov/posterior/internal/model"
	"github.com/ppiankov/posterior/internal/score"
	"github.com/ppiankov/posterior/internal/validate"
	"go.uber.org/zap"
)

// Pipeline runs load, ingest, validate, calculate and render for one input at a time
type Pipeline struct {
	loader     *Loader
	validator  *validate.Validator
	scorer     *score.Scorer
	renderer   *Renderer
	summarizer *llm.Summarizer // Optional LLM summarizer (nil if disabled)
	memo       *Memo
	config     *model.Config
	logger     *zap.Logger
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Create LLM summarizer if configured
	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg), logger)
		if err != nil {
			logger.Warn("Failed to initialize LLM provider", zap.Error(err))
		} else {
			summarizer = s
		}
	}

	var memo *Memo
	if cfg.Cache.Enabled {
		// Zero TTL lets each cache layer apply its own expiry
		memo = NewMemo(cache.FromConfig(cfg.Cache, logger), 0, logger)
	}

	return &Pipeline{
		loader:     NewLoader(cfg.HTTP, logger),
		validator:  validate.NewValidator(logger),
		scorer:     score.NewScorer(logger),
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		summarizer: summarizer,
		memo:       memo,
		config:     cfg,
		logger:     logger,
	}
}

// Load reads a source to completion
func (p *Pipeline) Load(ctx context.Context, source string) (*Input, error) {
	return p.loader.Load(ctx, source)
}

// Check ingests and validates an input without calculating
func (p *Pipeline) Check(in *Input) (*model.Model, error) {
	m, err := in.Model(p.logger)
	if err != nil {
		return nil, err
	}
	if err := p.validator.Validate(m); err != nil {
		return m, err
	}
	return m, nil
}

// Evaluate builds the complete report for an input
func (p *Pipeline) Evaluate(ctx context.Context, in *Input) (*model.Report, error) {
	// 1. Ingest and validate
	m, err := p.Check(in)
	if err != nil {
		return nil, err
	}

	// 2. A report needs a thesis to be about
	if !m.HasThesis() {
		return nil, model.NewError(model.CodeMissingThesis, model.KeywordThesis, "no thesis was declared")
	}

	// 3. Calculate
	result, err := p.scorer.Calculate(m)
	if err != nil {
		return nil, err
	}

	// 4. Build report (without LLM summary yet)
	report := BuildReport(m, result, in.Source)

	// 5. Generate LLM summary if enabled (after scoring, never affects percentages)
	if p.summarizer != nil && p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, *report)
		if err != nil {
			p.logger.Warn("LLM summary generation failed", zap.Error(err))
		} else if summary != nil {
			report.LLM = summary
		}
	}

	return report, nil
}

// RunResult is the rendered outcome of Run
type RunResult struct {
	Source string
	Output []byte
	Report *model.Report // nil when served from cache
	Cached bool
}

// Run loads, evaluates and renders a source, memoizing the rendered output
func (p *Pipeline) Run(ctx context.Context, source string, format string) (*RunResult, error) {
	in, err := p.Load(ctx, source)
	if err != nil {
		return nil, err
	}

	var report *model.Report
	out, cached, err := p.memo.Get(p.memoKey(format, in), func() ([]byte, bool, error) {
		r, err := p.Evaluate(ctx, in)
		if err != nil {
			return nil, false, err
		}
		report = r
		out, err := p.renderer.Render(r, format)
		if err != nil {
			return nil, false, err
		}
		// A report whose narrative failed is served once but not memoized
		return out, !p.narrativeMissing(r), nil
	})
	if err != nil {
		return nil, err
	}

	return &RunResult{Source: in.Source, Output: out, Report: report, Cached: cached}, nil
}

// Render renders an already evaluated report
func (p *Pipeline) Render(report *model.Report, format string) ([]byte, error) {
	return p.renderer.Render(report, format)
}

// memoKey covers every setting that changes the rendered bytes
func (p *Pipeline) memoKey(format string, in *Input) string {
	variant := fmt.Sprintf("%s|footer=%t", format, p.config.Output.IncludeFooter)
	if p.summarizer != nil && p.summarizer.IsEnabled() {
		variant = fmt.Sprintf("%s+llm:%s:%s", variant, p.summarizer.ProviderName(), p.config.LLM.Model)
	}
	return cache.Key(variant, in.Data)
}

func (p *Pipeline) narrativeMissing(r *model.Report) bool {
	if p.summarizer == nil || !p.summarizer.IsEnabled() {
		return false
	}
	return r.LLM == nil || !r.LLM.Enabled || r.LLM.SummaryMD == ""
}

// BuildReport assembles the report for a calculated model
func BuildReport(m *model.Model, result model.Score, source string) *model.Report {
	outcomes := make([]model.Outcome, len(m.Hypotheses))
	for i, h := range m.Hypotheses {
		outcomes[i] = model.Outcome{
			Hypothesis: h,
			Chance:     m.Chances[i],
			Score:      result.Scores[i],
			Posterior:  result.Posterior[i],
			Percentage: result.Percentages[i],
		}
	}

	return &model.Report{
		ID:          uuid.NewString(),
		Source:      source,
		GeneratedAt: time.Now().UTC(),
		Thesis:      m.ThesisText(),
		Facts:       append([]string(nil), m.Facts...),
		Outcomes:    outcomes,
		Longest:     m.LongestHypothesis(),
		Score:       result,
	}
}
