package model

import "strings"

// Delimiter separates the keyword from its value(s) on every record line
const Delimiter = ";"

// Keyword identifies the kind of a record line
type Keyword string

const (
	KeywordThesis          Keyword = "thesis"            // Free-text proposition under evaluation
	KeywordHypothesisCount Keyword = "hypothesis-count"  // Declared number of hypotheses (hint)
	KeywordHypothesis      Keyword = "hypothesis"        // One competing hypothesis
	KeywordChance          Keyword = "hypothesis-chance" // Prior weight of the next hypothesis
	KeywordFactCount       Keyword = "fact-count"        // Declared number of facts (hint)
	KeywordFact            Keyword = "fact"              // One piece of evidence
	KeywordProb            Keyword = "prob"              // Table cell: prob;row;col;p
)

// keywordAliases maps every accepted spelling to its canonical keyword.
// The underscore spellings are the ones used by older data files.
var keywordAliases = map[string]Keyword{
	"thesis":            KeywordThesis,
	"main_thesis":       KeywordThesis,
	"hypothesis-count":  KeywordHypothesisCount,
	"hypothesis_count":  KeywordHypothesisCount,
	"hypos_count":       KeywordHypothesisCount,
	"hypothesis":        KeywordHypothesis,
	"hypo":              KeywordHypothesis,
	"hypothesis-chance": KeywordChance,
	"hypothesis_chance": KeywordChance,
	"hypo_chance":       KeywordChance,
	"fact-count":        KeywordFactCount,
	"fact_count":        KeywordFactCount,
	"facts_count":       KeywordFactCount,
	"fact":              KeywordFact,
	"prob":              KeywordProb,
}

// LookupKeyword resolves a raw keyword (any case, surrounding blanks allowed)
func LookupKeyword(raw string) (Keyword, bool) {
	kw, ok := keywordAliases[strings.ToLower(strings.TrimSpace(raw))]
	return kw, ok
}

// Arity returns the number of delimiter-separated parts a record of this kind has
func (k Keyword) Arity() int {
	if k == KeywordProb {
		return 4
	}
	return 2
}

// Keywords returns the canonical keywords in the order they usually appear in a file
func Keywords() []Keyword {
	return []Keyword{
		KeywordThesis,
		KeywordHypothesisCount,
		KeywordHypothesis,
		KeywordChance,
		KeywordFactCount,
		KeywordFact,
		KeywordProb,
	}
}
