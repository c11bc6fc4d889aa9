package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/posterior/internal/model"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// dominanceMargin is the posterior gap below which the leader is called a near tie
const dominanceMargin = 0.05

// signals generates diagnostic observations; none of them alter the percentages
func (s *Scorer) signals(m *model.Model, result model.Score) []model.Signal {
	var signals []model.Signal

	if sig, ok := detectRoundingDrift(result); ok {
		signals = append(signals, sig)
	}

	signals = append(signals, dominantHypothesis(m.Hypotheses, result))
	signals = append(signals, posteriorEntropy(result.Posterior))
	signals = append(signals, detectWeakEvidence(m)...)

	for _, sig := range signals {
		s.logger.Debug("Signal generated",
			zap.String("type", string(sig.Type)),
			zap.String("severity", string(sig.Severity)))
	}
	return signals
}

// detectRoundingDrift reports percentages that do not add up to 100
func detectRoundingDrift(result model.Score) (model.Signal, bool) {
	drift := result.PercentSum - 100
	if drift == 0 {
		return model.Signal{}, false
	}

	return model.Signal{
		Type:        model.SignalRoundingDrift,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("Percentages add up to %d%% due to independent rounding", result.PercentSum),
		Data: map[string]interface{}{
			"percent_sum": result.PercentSum,
			"drift":       drift,
		},
	}, true
}

// dominantHypothesis names the leading hypothesis and its margin over the runner-up
func dominantHypothesis(hypotheses []string, result model.Score) model.Signal {
	leader := floats.MaxIdx(result.Posterior)

	runnerUp := 0.0
	for i, p := range result.Posterior {
		if i != leader && p > runnerUp {
			runnerUp = p
		}
	}
	margin := result.Posterior[leader] - runnerUp

	severity := model.SeverityInfo
	description := fmt.Sprintf("Leading hypothesis %q with %d%%", hypotheses[leader], result.Percentages[leader])
	if len(result.Posterior) > 1 && margin < dominanceMargin {
		severity = model.SeverityWarning
		description = fmt.Sprintf("Near tie: %q leads by %.1f points", hypotheses[leader], margin*100)
	}

	return model.Signal{
		Type:        model.SignalDominantHypothesis,
		Severity:    severity,
		Description: description,
		Data: map[string]interface{}{
			"index":      leader + 1,
			"hypothesis": hypotheses[leader],
			"posterior":  result.Posterior[leader],
			"margin":     margin,
		},
	}
}

// posteriorEntropy measures how spread out the distribution is.
// Normalized entropy is 0 for a certain outcome and 1 for a uniform one.
func posteriorEntropy(posterior []float64) model.Signal {
	nats := stat.Entropy(posterior)
	bits := nats / math.Ln2

	normalized := 0.0
	if len(posterior) > 1 {
		normalized = nats / math.Log(float64(len(posterior)))
	}

	severity := model.SeverityInfo
	if normalized > 0.9 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalPosteriorEntropy,
		Severity:    severity,
		Description: fmt.Sprintf("Posterior entropy: %.3f bits (%.0f%% of maximum)", bits, normalized*100),
		Data: map[string]interface{}{
			"bits":       bits,
			"normalized": normalized,
			"formula":    "-Σ p log2 p / log2 n",
		},
	}
}

// detectWeakEvidence flags facts whose column is identical for every hypothesis.
// Such a fact multiplies every score by the same value and cannot move the posterior.
func detectWeakEvidence(m *model.Model) []model.Signal {
	if len(m.Hypotheses) < 2 || len(m.Table) < 2 {
		return nil
	}

	var signals []model.Signal
	for j, fact := range m.Facts {
		column := make([]float64, len(m.Table))
		for i, row := range m.Table {
			if j >= len(row) {
				return signals
			}
			column[i] = row[j]
		}

		if floats.Max(column)-floats.Min(column) > model.ScoreEpsilon {
			continue
		}

		signals = append(signals, model.Signal{
			Type:        model.SignalWeakEvidence,
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("Fact %q has the same probability under every hypothesis", fact),
			Data: map[string]interface{}{
				"fact_index":  j + 1,
				"fact":        fact,
				"probability": column[0],
			},
		})
	}
	return signals
}
