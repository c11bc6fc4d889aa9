package model

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	// Certain is the largest admissible probability
	Certain = 1.0

	// Impossible is the near-zero threshold: table cells must be strictly above it
	Impossible = 1e-9

	// ChanceTolerance is the absolute tolerance for the hypothesis chances summing to 1
	ChanceTolerance = 1e-9

	// ScoreEpsilon guards the posterior normalization against a vanishing total
	ScoreEpsilon = 1e-10
)

// Model is the in-memory description of one thesis evaluation.
// It is built by a single ingestion session and is not safe for concurrent mutation.
type Model struct {
	Thesis     *string   `json:"thesis,omitempty"`
	Hypotheses []string  `json:"hypotheses"`
	Chances    []float64 `json:"chances"`
	Facts      []string  `json:"facts"`

	// Declared counts are optional hints; zero means "not declared"
	DeclaredHypotheses int `json:"declared_hypotheses,omitempty"`
	DeclaredFacts      int `json:"declared_facts,omitempty"`

	// Table[i][j] = P(fact j | hypothesis i); nil until sized, zero cells are unset
	Table [][]float64 `json:"table,omitempty"`
}

// New creates an empty model
func New() *Model {
	return &Model{}
}

// HasThesis reports whether a thesis was recorded
func (m *Model) HasThesis() bool {
	return m.Thesis != nil
}

// ThesisText returns the thesis or "" when absent
func (m *Model) ThesisText() string {
	if m.Thesis == nil {
		return ""
	}
	return *m.Thesis
}

// TableSized reports whether the probability table has been allocated
func (m *Model) TableSized() bool {
	return m.Table != nil
}

// TableShape returns the allocated rows and columns of the probability table
func (m *Model) TableShape() (rows, cols int) {
	if m.Table == nil {
		return 0, 0
	}
	rows = len(m.Table)
	if rows > 0 {
		cols = len(m.Table[0])
	}
	return rows, cols
}

// SizeHint resolves the size the table would get right now: the declared count
// when present, otherwise the number of items accumulated so far.
func (m *Model) SizeHint() (rows, cols int) {
	rows, cols = len(m.Hypotheses), len(m.Facts)
	if m.DeclaredHypotheses > 0 {
		rows = m.DeclaredHypotheses
	}
	if m.DeclaredFacts > 0 {
		cols = m.DeclaredFacts
	}
	return rows, cols
}

// LongestHypothesis returns the rune length of the longest hypothesis, which is the
// layout basis for rendered reports. Without hypotheses the thesis is measured instead.
func (m *Model) LongestHypothesis() int {
	if len(m.Hypotheses) == 0 {
		return utf8.RuneCountInString(m.ThesisText())
	}
	longest := 0
	for _, h := range m.Hypotheses {
		if n := utf8.RuneCountInString(h); n > longest {
			longest = n
		}
	}
	return longest
}

// Clone returns a deep copy; the copy shares no slices with m
func (m *Model) Clone() *Model {
	c := &Model{
		Hypotheses:         slices.Clone(m.Hypotheses),
		Chances:            slices.Clone(m.Chances),
		Facts:              slices.Clone(m.Facts),
		DeclaredHypotheses: m.DeclaredHypotheses,
		DeclaredFacts:      m.DeclaredFacts,
	}
	if m.Thesis != nil {
		t := *m.Thesis
		c.Thesis = &t
	}
	if m.Table != nil {
		c.Table = make([][]float64, len(m.Table))
		for i, row := range m.Table {
			c.Table[i] = slices.Clone(row)
		}
	}
	return c
}

// Equal reports whether two models hold the same data
func (m *Model) Equal(o *Model) bool {
	if m == o {
		return true
	}
	if m == nil || o == nil {
		return false
	}
	if m.HasThesis() != o.HasThesis() || m.ThesisText() != o.ThesisText() {
		return false
	}
	if m.DeclaredHypotheses != o.DeclaredHypotheses || m.DeclaredFacts != o.DeclaredFacts {
		return false
	}
	if !slices.Equal(m.Hypotheses, o.Hypotheses) ||
		!slices.Equal(m.Chances, o.Chances) ||
		!slices.Equal(m.Facts, o.Facts) {
		return false
	}
	if (m.Table == nil) != (o.Table == nil) || len(m.Table) != len(o.Table) {
		return false
	}
	for i := range m.Table {
		if !slices.Equal(m.Table[i], o.Table[i]) {
			return false
		}
	}
	return true
}

func (m *Model) String() string {
	var b strings.Builder
	rows, cols := m.TableShape()
	thesis := "N/D"
	if m.HasThesis() {
		thesis = fmt.Sprintf("%q", m.ThesisText())
	}
	fmt.Fprintf(&b, "Model[thesis: %s, hypotheses: %d, chances: %d, facts: %d, table: %dx%d]",
		thesis, len(m.Hypotheses), len(m.Chances), len(m.Facts), rows, cols)
	return b.String()
}
