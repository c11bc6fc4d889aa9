package extract

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/posterior/internal/model"
	"go.uber.org/zap"
)

// maxLineBytes bounds a single input line
const maxLineBytes = 1 << 20

// Ingest reads r to completion and builds a model from its records.
// The first malformed record aborts ingestion; the returned error carries its line number.
func Ingest(r io.Reader, logger *zap.Logger) (*model.Model, error) {
	acc := NewAccumulator(logger)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := acc.applyLine(scanner.Text(), lineNo); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	acc.logger.Debug("Input consumed", zap.Int("lines", lineNo), zap.Stringer("model", acc.model))
	return acc.Model(), nil
}

// IngestString is Ingest over an in-memory document
func IngestString(s string, logger *zap.Logger) (*model.Model, error) {
	return Ingest(strings.NewReader(s), logger)
}

// IngestLines builds a model from already split lines
func IngestLines(lines []string, logger *zap.Logger) (*model.Model, error) {
	acc := NewAccumulator(logger)
	for i, line := range lines {
		if err := acc.applyLine(line, i+1); err != nil {
			return nil, err
		}
	}
	return acc.Model(), nil
}

// applyLine tokenizes and applies one line, annotating failures with lineNo
func (a *Accumulator) applyLine(line string, lineNo int) error {
	rec, ok, err := Tokenize(line)
	if err != nil {
		a.logger.Error("Malformed line", zap.Int("line", lineNo), zap.Error(err))
		return annotate(err, lineNo)
	}
	if !ok {
		a.logger.Debug("Irrelevant line skipped", zap.Int("line", lineNo))
		return nil
	}

	if err := a.Apply(rec); err != nil {
		a.logger.Error("Record rejected",
			zap.Int("line", lineNo),
			zap.String("keyword", rec.Raw),
			zap.Error(err))
		return annotate(err, lineNo)
	}

	return nil
}

func annotate(err error, lineNo int) error {
	var e *model.Error
	if errors.As(err, &e) {
		return e.AtLine(lineNo)
	}
	return fmt.Errorf("line %d: %w", lineNo, err)
}
