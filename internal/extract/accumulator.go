package extract

import (
	"github.com/ppiankov/posterior/internal/model"
	"go.uber.org/zap"
)

// Accumulator folds records into a model, one field per record
type Accumulator struct {
	model  *model.Model
	logger *zap.Logger
}

// NewAccumulator creates an accumulator over a fresh model.
// The logger is the caller's diagnostic sink; nil disables diagnostics.
func NewAccumulator(logger *zap.Logger) *Accumulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accumulator{
		model:  model.New(),
		logger: logger,
	}
}

// Model returns the model built so far
func (a *Accumulator) Model() *model.Model {
	return a.model
}

// Apply parses and applies one record. On error the model is left unchanged.
func (a *Accumulator) Apply(rec Record) error {
	m := a.model

	switch rec.Keyword {
	case model.KeywordThesis:
		thesis := rec.Value
		m.Thesis = &thesis

	case model.KeywordHypothesisCount:
		n, err := ParseCount(rec.Keyword, rec.Value)
		if err != nil {
			return err
		}
		m.DeclaredHypotheses = n

	case model.KeywordHypothesis:
		m.Hypotheses = append(m.Hypotheses, rec.Value)

	case model.KeywordChance:
		chance, err := ParseChance(rec.Value)
		if err != nil {
			return err
		}
		m.Chances = append(m.Chances, chance)

	case model.KeywordFactCount:
		n, err := ParseCount(rec.Keyword, rec.Value)
		if err != nil {
			return err
		}
		m.DeclaredFacts = n

	case model.KeywordFact:
		m.Facts = append(m.Facts, rec.Value)

	case model.KeywordProb:
		return a.applyCell(rec)

	default:
		a.logger.Warn("Unknown keyword ignored", zap.String("keyword", string(rec.Keyword)))
		return nil
	}

	a.logger.Debug("Record applied",
		zap.String("keyword", string(rec.Keyword)),
		zap.Int("hypotheses", len(m.Hypotheses)),
		zap.Int("facts", len(m.Facts)))

	return nil
}

// applyCell sets one probability table cell, sizing the table on first use.
// All checks run before the table is allocated.
func (a *Accumulator) applyCell(rec Record) error {
	m := a.model

	cell, err := ParseCell(rec.Fields)
	if err != nil {
		return err
	}

	rows, cols := m.TableShape()
	if !m.TableSized() {
		rows, cols = m.SizeHint()
		if rows == 0 || cols == 0 {
			return model.NewError(model.CodeTableNotSized, rec.Keyword,
				"table size unknown (hypotheses: %d, facts: %d); declare counts or list hypotheses and facts first",
				rows, cols)
		}
	}

	if cell.Row < 0 || cell.Row >= rows {
		return model.NewError(model.CodeIndexOutOfRange, rec.Keyword,
			"hypothesis index %d is out of range [1..%d]", cell.Row+1, rows)
	}
	if cell.Col < 0 || cell.Col >= cols {
		return model.NewError(model.CodeIndexOutOfRange, rec.Keyword,
			"fact index %d is out of range [1..%d]", cell.Col+1, cols)
	}
	if !ValidProbability(cell.Probability) {
		return model.NewError(model.CodeInvalidProbability, rec.Keyword,
			"probability %s at [%d][%d] must be in (0; 1]", rec.Fields[2], cell.Row+1, cell.Col+1)
	}

	if !m.TableSized() {
		m.Table = make([][]float64, rows)
		for i := range m.Table {
			m.Table[i] = make([]float64, cols)
		}
		a.logger.Debug("Probability table sized", zap.Int("rows", rows), zap.Int("cols", cols))
	}

	m.Table[cell.Row][cell.Col] = cell.Probability
	a.logger.Debug("Table cell filled",
		zap.Int("row", cell.Row),
		zap.Int("col", cell.Col),
		zap.Float64("probability", cell.Probability))

	return nil
}
