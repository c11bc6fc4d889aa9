package score

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/ppiankov/posterior/internal/model"
)

func newModel(chances []float64, table [][]float64) *model.Model {
	thesis := "Test thesis"
	m := &model.Model{Thesis: &thesis, Chances: chances, Table: table}
	for i := range chances {
		m.Hypotheses = append(m.Hypotheses, string(rune('A'+i)))
	}
	for j := range table[0] {
		m.Facts = append(m.Facts, string(rune('P'+j)))
	}
	return m
}

func TestScorer_Calculate_Percentages(t *testing.T) {
	tests := []struct {
		name    string
		chances []float64
		table   [][]float64
		want    []int
	}{
		{"even split", []float64{0.5, 0.5}, [][]float64{{1.0}, {1.0}}, []int{50, 50}},
		{"prior only", []float64{0.9, 0.1}, [][]float64{{1.0}, {1.0}}, []int{90, 10}},
		{"evidence moves posterior", []float64{0.5, 0.5}, [][]float64{{0.8}, {0.2}}, []int{80, 20}},
		{"straight product", []float64{0.5, 0.5}, [][]float64{{0.5, 0.5}, {1.0, 0.25}}, []int{50, 50}},
		{"single hypothesis", []float64{1.0}, [][]float64{{0.01}}, []int{100}},
	}

	scorer := NewScorer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := scorer.Calculate(newModel(tt.chances, tt.table))
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if diff := cmp.Diff(tt.want, result.Percentages); diff != "" {
				t.Errorf("Percentages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScorer_Calculate_Breakdown(t *testing.T) {
	scorer := NewScorer(nil)

	result, err := scorer.Calculate(newModel([]float64{0.5, 0.5}, [][]float64{{0.8}, {0.2}}))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	approx := cmpopts.EquateApprox(0, 1e-12)
	if diff := cmp.Diff([]float64{0.4, 0.1}, result.Scores, approx); diff != "" {
		t.Errorf("Scores mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0.8, 0.2}, result.Posterior, approx); diff != "" {
		t.Errorf("Posterior mismatch (-want +got):\n%s", diff)
	}
	if math.Abs(result.Total-0.5) > 1e-12 {
		t.Errorf("Expected total 0.5, got %v", result.Total)
	}
	if result.PercentSum != 100 {
		t.Errorf("Expected percent sum 100, got %d", result.PercentSum)
	}
}

func TestScorer_Calculate_DivisionByZero(t *testing.T) {
	scorer := NewScorer(nil)

	_, err := scorer.Calculate(newModel([]float64{0, 0}, [][]float64{{1.0}, {1.0}}))
	if !errors.Is(err, model.ErrDivisionByZero) {
		t.Errorf("Expected DivisionByZero, got %v", err)
	}

	_, err = Percentages([]float64{0, 0}, [][]float64{{0.5}, {0.5}})
	if !errors.Is(err, model.ErrDivisionByZero) {
		t.Errorf("Expected DivisionByZero from Percentages, got %v", err)
	}
}

func TestScorer_Calculate_Idempotent(t *testing.T) {
	scorer := NewScorer(nil)
	m := newModel([]float64{0.2, 0.3, 0.5}, [][]float64{{0.9, 0.4}, {0.3, 0.7}, {0.6, 0.6}})
	before := m.Clone()

	first, err := scorer.Calculate(m)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := scorer.Calculate(m)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Second calculation differs (-first +second):\n%s", diff)
	}
	if !m.Equal(before) {
		t.Error("Expected calculation to leave the model unchanged")
	}
}

func TestScorer_Calculate_ShapeMismatch(t *testing.T) {
	scorer := NewScorer(nil)
	m := newModel([]float64{0.5, 0.5}, [][]float64{{1.0}, {1.0}})
	m.Table = m.Table[:1]

	_, err := scorer.Calculate(m)
	if !errors.Is(err, model.ErrIncompleteTable) {
		t.Errorf("Expected IncompleteTable, got %v", err)
	}
}

func TestScorer_Calculate_HypothesisChanceMismatch(t *testing.T) {
	m := newModel([]float64{0.5, 0.5}, [][]float64{{0.2}, {0.8}})
	m.Hypotheses = m.Hypotheses[:1]

	_, err := NewScorer(nil).Calculate(m)
	if !errors.Is(err, model.ErrChanceCountMismatch) {
		t.Errorf("Expected ChanceCountMismatch, got %v", err)
	}

	m.Hypotheses = append(m.Hypotheses, "B", "C")
	_, err = NewScorer(nil).Calculate(m)
	if !errors.Is(err, model.ErrChanceCountMismatch) {
		t.Errorf("Expected ChanceCountMismatch with extra hypotheses, got %v", err)
	}
}

func TestPercentages_RoundingIsIndependent(t *testing.T) {
	tests := []struct {
		name    string
		chances []float64
		want    []int
	}{
		{"thirds sum to 99", []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, []int{33, 33, 33}},
		{"halves round away from zero", []float64{0.125, 0.875}, []int{13, 88}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := make([][]float64, len(tt.chances))
			for i := range table {
				table[i] = []float64{1.0}
			}

			got, err := Percentages(tt.chances, table)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Percentages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
