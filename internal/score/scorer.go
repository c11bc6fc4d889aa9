package score

import (
	"math"

	"github.com/ppiankov/posterior/internal/model"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// Scorer computes the posterior distribution and generates signals
type Scorer struct {
	logger *zap.Logger
}

// NewScorer creates a new scorer
func NewScorer(logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{logger: logger}
}

// Calculate computes the calculation breakdown for a validated model.
// The model is only read, so calling it twice yields the same result.
func (s *Scorer) Calculate(m *model.Model) (model.Score, error) {
	if err := checkShape(m.Chances, m.Table); err != nil {
		return model.Score{}, err
	}
	if len(m.Hypotheses) != len(m.Chances) {
		return model.Score{}, model.NewError(model.CodeChanceCountMismatch, model.KeywordChance,
			"%d chances for %d hypotheses", len(m.Chances), len(m.Hypotheses))
	}

	// 1. Prior times the product of the hypothesis row
	scores := Scores(m.Chances, m.Table)
	total := floats.Sum(scores)

	// 2. Normalize
	posterior, err := normalize(scores, total)
	if err != nil {
		s.logger.Error("Calculation failed", zap.Error(err), zap.Float64s("scores", scores))
		return model.Score{}, err
	}

	// 3. Integer percentages, rounded independently
	percentages := roundPercentages(posterior)
	percentSum := 0
	for _, p := range percentages {
		percentSum += p
	}

	result := model.Score{
		Percentages: percentages,
		Scores:      scores,
		Posterior:   posterior,
		Total:       total,
		PercentSum:  percentSum,
	}
	result.Signals = s.signals(m, result)

	s.logger.Info("Posterior calculated",
		zap.Ints("percentages", percentages),
		zap.Float64("total", total),
		zap.Int("signals", len(result.Signals)))

	return result, nil
}

// Percentages computes only the integer distribution, in hypothesis order
func Percentages(chances []float64, table [][]float64) ([]int, error) {
	if err := checkShape(chances, table); err != nil {
		return nil, err
	}

	scores := Scores(chances, table)
	posterior, err := normalize(scores, floats.Sum(scores))
	if err != nil {
		return nil, err
	}
	return roundPercentages(posterior), nil
}

// Scores returns chance_i * Π_j table[i][j] for every hypothesis
func Scores(chances []float64, table [][]float64) []float64 {
	scores := make([]float64, len(chances))
	for i, chance := range chances {
		scores[i] = chance * floats.Prod(table[i])
	}
	return scores
}

func checkShape(chances []float64, table [][]float64) error {
	if len(chances) == 0 {
		return model.NewError(model.CodeMissingHypotheses, model.KeywordChance, "nothing to calculate")
	}
	if len(table) != len(chances) {
		return model.NewError(model.CodeIncompleteTable, model.KeywordProb,
			"table has %d rows for %d chances", len(table), len(chances))
	}
	return nil
}

func normalize(scores []float64, total float64) ([]float64, error) {
	if math.IsNaN(total) || math.Abs(total) < model.ScoreEpsilon {
		return nil, model.NewError(model.CodeDivisionByZero, "",
			"total score %g is too close to zero to normalize", total)
	}

	posterior := make([]float64, len(scores))
	for i, score := range scores {
		posterior[i] = score / total
	}
	return posterior, nil
}

func roundPercentages(posterior []float64) []int {
	percentages := make([]int, len(posterior))
	for i, p := range posterior {
		percentages[i] = int(math.Round(p * 100))
	}
	return percentages
}
