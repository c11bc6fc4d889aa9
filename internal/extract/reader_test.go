package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/posterior/internal/model"
)

const sampleInput = `
# Will the bridge open on schedule?
thesis;The bridge opens on schedule

hypothesis-count;2
hypothesis;Contractor is on track
hypothesis-chance;0.7
hypothesis;Contractor is behind
hypothesis-chance;0.3

fact-count;2
fact;Steel delivery slipped a week
fact;Inspection passed first time

prob;1;1;0.2
prob;1;2;0.9
prob;2;1;0.8
prob;2;2;0.5
`

func TestIngest_Sample(t *testing.T) {
	m, err := IngestString(sampleInput, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if m.ThesisText() != "The bridge opens on schedule" {
		t.Errorf("Unexpected thesis %q", m.ThesisText())
	}
	if m.DeclaredHypotheses != 2 || m.DeclaredFacts != 2 {
		t.Errorf("Expected declared counts 2/2, got %d/%d", m.DeclaredHypotheses, m.DeclaredFacts)
	}
	if len(m.Hypotheses) != 2 || len(m.Chances) != 2 || len(m.Facts) != 2 {
		t.Fatalf("Unexpected list sizes: %s", m)
	}
	want := [][]float64{{0.2, 0.9}, {0.8, 0.5}}
	for i := range want {
		for j := range want[i] {
			if m.Table[i][j] != want[i][j] {
				t.Errorf("Expected table[%d][%d] = %v, got %v", i, j, want[i][j], m.Table[i][j])
			}
		}
	}
}

func TestIngest_LegacyKeywords(t *testing.T) {
	input := strings.Join([]string{
		"main_thesis;Legacy file",
		"hypos_count;1",
		"hypo;Only one",
		"hypo_chance;1.0",
		"facts_count;1",
		"fact;Something happened",
		"prob;1;1;0.5",
	}, "\n")

	m, err := IngestString(input, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if m.ThesisText() != "Legacy file" || len(m.Hypotheses) != 1 || m.Table[0][0] != 0.5 {
		t.Errorf("Legacy keywords not applied: %s", m)
	}
}

func TestIngest_ErrorCarriesLineNumber(t *testing.T) {
	input := "thesis;T\nhypothesis;A\nhypothesis-chance;lots\n"

	_, err := IngestString(input, nil)
	if !errors.Is(err, model.ErrInvalidNumber) {
		t.Fatalf("Expected InvalidNumber, got %v", err)
	}

	var e *model.Error
	if !errors.As(err, &e) {
		t.Fatalf("Expected *model.Error, got %T", err)
	}
	if e.Line != 3 {
		t.Errorf("Expected line 3, got %d", e.Line)
	}
	if !strings.Contains(err.Error(), "lots") {
		t.Errorf("Expected message to quote the offending value, got %q", err.Error())
	}
}

func TestIngest_AbortsOnFirstBadRecord(t *testing.T) {
	input := "hypothesis-count;1\nfact-count;1\nprob;2;1;0.5\nprob;1;1;0.5\n"

	m, err := IngestString(input, nil)
	if !errors.Is(err, model.ErrIndexOutOfRange) {
		t.Fatalf("Expected IndexOutOfRange, got %v", err)
	}
	if m != nil {
		t.Error("Expected no model on failure")
	}
}

func TestIngestLines(t *testing.T) {
	m, err := IngestLines([]string{"thesis;T", "", "noise", "fact;F"}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if m.ThesisText() != "T" || len(m.Facts) != 1 {
		t.Errorf("Unexpected model %s", m)
	}
}
