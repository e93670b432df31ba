// Package categorize assigns expense categories to bank-transaction
// descriptions with a keyword lookup table.
package categorize

import (
	"strings"
	"unicode"

	"github.com/fatih/camelcase"

	"github.com/zzptax/zzptax/internal/domain"
)

// Fallback is the category for descriptions no rule matches.
const Fallback = "Overig"

// Match is the outcome of categorizing one description.
type Match struct {
	Category string `json:"category"`
	Keyword  string `json:"keyword,omitempty"`
	Matched  bool   `json:"matched"`
}

type rule struct {
	name     string
	keywords [][]string
	raw      []string
}

// Categorizer matches descriptions against rules in order; the first rule
// with a matching keyword wins.
type Categorizer struct {
	rules []rule
}

// New builds a Categorizer. Keywords are tokenized the same way as
// descriptions, so "T-Mobile" and "t mobile" are the same keyword.
func New(rules []domain.CategoryRule) *Categorizer {
	c := &Categorizer{}
	for _, r := range rules {
		compiled := rule{name: r.Name}
		for _, kw := range r.Keywords {
			tokens := Tokenize(kw)
			if len(tokens) == 0 {
				continue
			}
			compiled.keywords = append(compiled.keywords, tokens)
			compiled.raw = append(compiled.raw, kw)
		}
		c.rules = append(c.rules, compiled)
	}
	return c
}

// Categorize returns the first matching category or Fallback.
func (c *Categorizer) Categorize(description string) Match {
	tokens := Tokenize(description)
	if len(tokens) == 0 {
		return Match{Category: Fallback}
	}
	for _, r := range c.rules {
		for i, kw := range r.keywords {
			if containsRun(tokens, kw) {
				return Match{Category: r.name, Keyword: r.raw[i], Matched: true}
			}
		}
	}
	return Match{Category: Fallback}
}

// Tokenize lowercases text and splits it on punctuation, whitespace and
// camel-case boundaries ("AlbertHeijn" becomes "albert", "heijn").
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var tokens []string
	for _, f := range fields {
		for _, part := range camelcase.Split(f) {
			if part = strings.ToLower(part); part != "" {
				tokens = append(tokens, part)
			}
		}
	}
	return tokens
}

// containsRun reports whether needle occurs as a contiguous run in haystack.
func containsRun(haystack, needle []string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
