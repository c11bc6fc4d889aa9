package extract

import (
	"strings"

	"github.com/ppiankov/posterior/internal/model"
)

// Record is one tokenized input line
type Record struct {
	Keyword model.Keyword // Canonical keyword
	Raw     string        // Keyword as written, lower-cased
	Value   string        // Trimmed remainder of a 2-part record
	Fields  []string      // Trimmed value parts of a 4-part record (row, col, probability)
}

// Tokenize splits one raw line into a record.
//
// It returns ok=false for lines that are irrelevant: blank lines and lines whose
// keyword is not recognized. A relevant but broken line (blank keyword, blank value,
// wrong number of parts) is a MalformedRecord error.
func Tokenize(line string) (rec Record, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Record{}, false, nil
	}

	head, rest, hasDelim := strings.Cut(line, model.Delimiter)
	raw := strings.ToLower(strings.TrimSpace(head))

	if raw == "" {
		return Record{}, false, model.NewError(model.CodeMalformedRecord, "",
			"missing keyword before %q", model.Delimiter)
	}

	kw, known := model.LookupKeyword(raw)
	if !known {
		return Record{}, false, nil
	}

	rec = Record{Keyword: kw, Raw: raw}

	if kw.Arity() == 4 {
		parts := strings.Split(line, model.Delimiter)
		if len(parts) != 4 {
			return Record{}, false, model.NewError(model.CodeMalformedRecord, kw,
				"expected 4 parts separated by %q, got %d", model.Delimiter, len(parts))
		}
		for i := 1; i < 4; i++ {
			p := strings.TrimSpace(parts[i])
			if p == "" {
				return Record{}, false, model.NewError(model.CodeMalformedRecord, kw,
					"part %d is empty", i+1)
			}
			rec.Fields = append(rec.Fields, p)
		}
		return rec, true, nil
	}

	value := strings.TrimSpace(rest)
	if !hasDelim || value == "" {
		return Record{}, false, model.NewError(model.CodeMalformedRecord, kw, "missing value")
	}
	rec.Value = value

	return rec, true, nil
}
