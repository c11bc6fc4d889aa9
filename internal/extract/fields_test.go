package extract

import (
	"errors"
	"math"
	"testing"

	"github.com/ppiankov/posterior/internal/model"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		value string
		want  int
		ok    bool
	}{
		{"1", 1, true},
		{"12", 12, true},
		{"0", 0, false},
		{"01", 0, false},
		{"-3", 0, false},
		{"2.0", 0, false},
		{"two", 0, false},
		{"99999999999999999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseCount(model.KeywordFactCount, tt.value)
			if tt.ok {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				if got != tt.want {
					t.Errorf("Expected %d, got %d", tt.want, got)
				}
				return
			}
			if !errors.Is(err, model.ErrInvalidCount) {
				t.Errorf("Expected InvalidCount, got %v", err)
			}
		})
	}
}

func TestParseChance(t *testing.T) {
	tests := []struct {
		value string
		want  float64
		ok    bool
	}{
		{"0.5", 0.5, true},
		{"1", 1, true},
		{"0", 0, true},
		{"1.25", 1.25, true},
		{".5", 0, false},
		{"5.", 0, false},
		{"-0.5", 0, false},
		{"1e-3", 0, false},
		{"NaN", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseChance(tt.value)
			if tt.ok {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				if got != tt.want {
					t.Errorf("Expected %v, got %v", tt.want, got)
				}
				return
			}
			if !errors.Is(err, model.ErrInvalidNumber) {
				t.Errorf("Expected InvalidNumber, got %v", err)
			}
		})
	}
}

func TestParseCell(t *testing.T) {
	cell, err := ParseCell([]string{"2", "3", "0.25"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cell.Row != 1 || cell.Col != 2 || cell.Probability != 0.25 {
		t.Errorf("Expected {1 2 0.25}, got %+v", cell)
	}

	bad := [][]string{
		{"x", "1", "0.5"},
		{"1", "1.5", "0.5"},
		{"1", "1", "half"},
	}
	for _, fields := range bad {
		if _, err := ParseCell(fields); !errors.Is(err, model.ErrInvalidNumber) {
			t.Errorf("Expected InvalidNumber for %v, got %v", fields, err)
		}
	}

	if _, err := ParseCell([]string{"1", "1"}); !errors.Is(err, model.ErrMalformedRecord) {
		t.Errorf("Expected MalformedRecord for short cell, got %v", err)
	}
}

func TestValidProbability(t *testing.T) {
	tests := []struct {
		p    float64
		want bool
	}{
		{1, true},
		{0.5, true},
		{2e-9, true},
		{1e-9, false},
		{0, false},
		{-0.1, false},
		{1.0000001, false},
		{math.NaN(), false},
		{math.Inf(1), false},
	}

	for _, tt := range tests {
		if got := ValidProbability(tt.p); got != tt.want {
			t.Errorf("ValidProbability(%v): expected %v, got %v", tt.p, tt.want, got)
		}
	}
}
