package validate

import (
	"math"

	"github.com/ppiankov/posterior/internal/model"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// Validator checks a fully ingested model for cross-field consistency
type Validator struct {
	logger *zap.Logger
}

// NewValidator creates a new validator; a nil logger disables diagnostics
func NewValidator(logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{logger: logger}
}

// Validate runs every consistency check in order and returns the first failure.
// Structural problems are reported before numeric ones.
func (v *Validator) Validate(m *model.Model) error {
	checks := []struct {
		name string
		fn   func(*model.Model) error
	}{
		{"hypotheses", checkHypotheses},
		{"hypothesis_count", checkHypothesisCount},
		{"chance_count", checkChanceCount},
		{"facts", checkFacts},
		{"fact_count", checkFactCount},
		{"normalization", checkNormalization},
		{"table", checkTable},
	}

	for _, c := range checks {
		if err := c.fn(m); err != nil {
			v.logger.Warn("Validation failed", zap.String("check", c.name), zap.Error(err))
			return err
		}
		v.logger.Debug("Validation check passed", zap.String("check", c.name))
	}

	v.logger.Info("Model is consistent",
		zap.Int("hypotheses", len(m.Hypotheses)),
		zap.Int("facts", len(m.Facts)))
	return nil
}

// Model is a convenience wrapper that validates without diagnostics
func Model(m *model.Model) error {
	return NewValidator(nil).Validate(m)
}

func checkHypotheses(m *model.Model) error {
	if len(m.Hypotheses) == 0 {
		return model.NewError(model.CodeMissingHypotheses, model.KeywordHypothesis,
			"no hypotheses were declared")
	}
	return nil
}

func checkHypothesisCount(m *model.Model) error {
	if m.DeclaredHypotheses > 0 && m.DeclaredHypotheses != len(m.Hypotheses) {
		return model.NewError(model.CodeCountMismatch, model.KeywordHypothesisCount,
			"%d hypotheses were declared, but %d were listed", m.DeclaredHypotheses, len(m.Hypotheses))
	}
	return nil
}

func checkChanceCount(m *model.Model) error {
	if len(m.Chances) != len(m.Hypotheses) {
		return model.NewError(model.CodeChanceCountMismatch, model.KeywordChance,
			"%d hypotheses but %d chances", len(m.Hypotheses), len(m.Chances))
	}
	return nil
}

func checkFacts(m *model.Model) error {
	if len(m.Facts) == 0 {
		return model.NewError(model.CodeMissingFacts, model.KeywordFact, "no facts were declared")
	}
	return nil
}

func checkFactCount(m *model.Model) error {
	if m.DeclaredFacts > 0 && m.DeclaredFacts != len(m.Facts) {
		return model.NewError(model.CodeCountMismatch, model.KeywordFactCount,
			"%d facts were declared, but %d were listed", m.DeclaredFacts, len(m.Facts))
	}
	return nil
}

func checkNormalization(m *model.Model) error {
	sum := floats.Sum(m.Chances)
	if math.IsNaN(sum) || math.Abs(sum-model.Certain) > model.ChanceTolerance {
		return model.NewError(model.CodeUnnormalizedChances, model.KeywordChance,
			"chances add up to %.10g, expected 1", sum)
	}
	return nil
}

func checkTable(m *model.Model) error {
	if !m.TableSized() {
		return model.NewError(model.CodeIncompleteTable, model.KeywordProb, "no table cells were given")
	}

	rows, cols := len(m.Hypotheses), len(m.Facts)
	if len(m.Table) != rows {
		return model.NewError(model.CodeIncompleteTable, model.KeywordProb,
			"table has %d rows for %d hypotheses", len(m.Table), rows)
	}
	for i, row := range m.Table {
		if len(row) != cols {
			return model.NewError(model.CodeIncompleteTable, model.KeywordProb,
				"table row %d has %d cells for %d facts", i+1, len(row), cols)
		}
		for j, p := range row {
			if !(p > model.Impossible && p <= model.Certain) {
				return model.NewError(model.CodeIncompleteTable, model.KeywordProb,
					"cell [%d][%d] (%q given %q) is missing", i+1, j+1, m.Facts[j], m.Hypotheses[i])
			}
		}
	}
	return nil
}
