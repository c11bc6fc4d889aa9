package model

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies an ingestion, validation, or calculation failure
type Code string

const (
	// Tokenizer
	CodeMalformedRecord Code = "MalformedRecord"

	// Field parsers
	CodeInvalidCount       Code = "InvalidCount"
	CodeInvalidNumber      Code = "InvalidNumber"
	CodeInvalidProbability Code = "InvalidProbability"
	CodeIndexOutOfRange    Code = "IndexOutOfRange"

	// Accumulator
	CodeTableNotSized Code = "TableNotSized"

	// Validator
	CodeMissingHypotheses   Code = "MissingHypotheses"
	CodeMissingFacts        Code = "MissingFacts"
	CodeCountMismatch       Code = "CountMismatch"
	CodeChanceCountMismatch Code = "ChanceCountMismatch"
	CodeUnnormalizedChances Code = "UnnormalizedChances"
	CodeIncompleteTable     Code = "IncompleteTable"

	// Calculator and report
	CodeDivisionByZero Code = "DivisionByZero"
	CodeMissingThesis  Code = "MissingThesis"
)

// Sentinels for errors.Is; any *Error with the same code matches
var (
	ErrMalformedRecord     = &Error{Code: CodeMalformedRecord}
	ErrInvalidCount        = &Error{Code: CodeInvalidCount}
	ErrInvalidNumber       = &Error{Code: CodeInvalidNumber}
	ErrInvalidProbability  = &Error{Code: CodeInvalidProbability}
	ErrIndexOutOfRange     = &Error{Code: CodeIndexOutOfRange}
	ErrTableNotSized       = &Error{Code: CodeTableNotSized}
	ErrMissingHypotheses   = &Error{Code: CodeMissingHypotheses}
	ErrMissingFacts        = &Error{Code: CodeMissingFacts}
	ErrCountMismatch       = &Error{Code: CodeCountMismatch}
	ErrChanceCountMismatch = &Error{Code: CodeChanceCountMismatch}
	ErrUnnormalizedChances = &Error{Code: CodeUnnormalizedChances}
	ErrIncompleteTable     = &Error{Code: CodeIncompleteTable}
	ErrDivisionByZero      = &Error{Code: CodeDivisionByZero}
	ErrMissingThesis       = &Error{Code: CodeMissingThesis}
)

// Error is a fatal failure of one ingestion/validation/calculation cycle
type Error struct {
	Code    Code
	Keyword Keyword // Offending record kind, if any
	Line    int     // 1-based input line, 0 when not tied to a line
	Message string
	Cause   error
}

// NewError creates an error for the given code and record kind
func NewError(code Code, kw Keyword, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Keyword: kw,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Keyword != "" {
		fmt.Fprintf(&b, " (%s)", e.Keyword)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target carries the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// AtLine returns a copy of the error annotated with an input line number
func (e *Error) AtLine(line int) *Error {
	c := *e
	c.Line = line
	return &c
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
