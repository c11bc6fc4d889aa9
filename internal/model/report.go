package model

import "time"

// Report is the finished evaluation of one thesis
type Report struct {
	ID          string      `json:"id"`                 // Unique report identifier
	Source      string      `json:"source"`             // File path or URL the model was read from
	GeneratedAt time.Time   `json:"generated_at"`       // When the calculation ran
	Thesis      string      `json:"thesis"`             // Proposition under evaluation
	Facts       []string    `json:"facts"`              // Facts considered, in declaration order
	Outcomes    []Outcome   `json:"outcomes"`           // One entry per hypothesis, in declaration order
	Longest     int         `json:"longest_hypothesis"` // Rune length of the longest hypothesis (layout basis)
	Score       Score       `json:"score"`              // Calculation breakdown and signals
	LLM         *LLMSummary `json:"llm,omitempty"`      // Optional narrative, never affects percentages
}

// Outcome pairs a hypothesis with its computed share
type Outcome struct {
	Hypothesis string  `json:"hypothesis"`
	Chance     float64 `json:"chance"`     // Prior weight as declared
	Score      float64 `json:"score"`      // chance * product of the hypothesis row
	Posterior  float64 `json:"posterior"`  // score / total score
	Percentage int     `json:"percentage"` // round(100 * posterior)
}

// Score is the transparent calculation breakdown
type Score struct {
	Percentages []int     `json:"percentages"`
	Scores      []float64 `json:"scores"`
	Posterior   []float64 `json:"posterior"`
	Total       float64   `json:"total"`       // Sum of scores
	PercentSum  int       `json:"percent_sum"` // Not guaranteed to be 100
	Signals     []Signal  `json:"signals"`
}

// Signal represents a diagnostic observation with transparent data
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalRoundingDrift      SignalType = "rounding_drift"      // Percentages do not add up to 100
	SignalDominantHypothesis SignalType = "dominant_hypothesis" // Leading hypothesis and its margin
	SignalPosteriorEntropy   SignalType = "posterior_entropy"   // How spread out the posterior is
	SignalWeakEvidence       SignalType = "weak_evidence"       // Fact that cannot discriminate hypotheses
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// LLMSummary contains an optional LLM-generated narrative of the report
type LLMSummary struct {
	Enabled       bool     `json:"enabled"`
	Provider      string   `json:"provider,omitempty"`
	Model         string   `json:"model,omitempty"`
	StrictNumbers bool     `json:"strict_numbers"` // Summary may only quote percentages from the report
	SummaryMD     string   `json:"summary_md,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}
