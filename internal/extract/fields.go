package extract

import (
	"regexp"
	"strconv"

	"github.com/ppiankov/posterior/internal/model"
)

var (
	naturalPattern = regexp.MustCompile(`^[1-9][0-9]*$`)
	decimalPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
)

// Cell is a parsed "prob" record with 0-based indices
type Cell struct {
	Row         int
	Col         int
	Probability float64
}

// ParseCount parses a natural number (>= 1) for a count record
func ParseCount(kw model.Keyword, value string) (int, error) {
	if !naturalPattern.MatchString(value) {
		return 0, model.NewError(model.CodeInvalidCount, kw, "%q is not a natural number", value)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, model.NewError(model.CodeInvalidCount, kw, "%q is too large", value)
	}
	return n, nil
}

// ParseChance parses a non-negative plain decimal (no sign, no exponent)
func ParseChance(value string) (float64, error) {
	if !decimalPattern.MatchString(value) {
		return 0, model.NewError(model.CodeInvalidNumber, model.KeywordChance, "%q is not a decimal", value)
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, model.NewError(model.CodeInvalidNumber, model.KeywordChance, "%q is not a decimal", value)
	}
	return f, nil
}

// ParseCell parses the three value parts of a "prob" record.
// Indices are converted from 1-based to 0-based. Neither the indices nor the
// probability are range-checked here; see Accumulator.Apply.
func ParseCell(fields []string) (Cell, error) {
	if len(fields) != 3 {
		return Cell{}, model.NewError(model.CodeMalformedRecord, model.KeywordProb,
			"expected 3 values, got %d", len(fields))
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return Cell{}, model.NewError(model.CodeInvalidNumber, model.KeywordProb,
			"hypothesis index %q is not an integer", fields[0])
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return Cell{}, model.NewError(model.CodeInvalidNumber, model.KeywordProb,
			"fact index %q is not an integer", fields[1])
	}
	p, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Cell{}, model.NewError(model.CodeInvalidNumber, model.KeywordProb,
			"probability %q is not a number", fields[2])
	}

	return Cell{Row: row - 1, Col: col - 1, Probability: p}, nil
}

// ValidProbability reports whether p lies in (Impossible, Certain]; NaN is rejected
func ValidProbability(p float64) bool {
	return p > model.Impossible && p <= model.Certain
}
