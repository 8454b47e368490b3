// Package filter narrows collected tweets to those whose author profile
// mentions a configured term.
package filter

import (
	"regexp"

	"github.com/dialectlab/tweetsift/internal/model"
)

// TermSet holds the compiled profile filter terms. Each term matches as
// a whole word, case-insensitively, so "dc" matches "I live in DC" but
// not "dcmetro", and "GU" matches "GU student" but not "argue".
type TermSet struct {
	terms    []string
	patterns []*regexp.Regexp
}

// NewTermSet compiles the given terms. Terms are matched literally;
// regexp metacharacters in a term are escaped.
func NewTermSet(terms []string) *TermSet {
	ts := &TermSet{terms: terms}
	for _, term := range terms {
		if term == "" {
			continue
		}
		ts.patterns = append(ts.patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(term)+`\b`))
	}
	return ts
}

// Terms returns the original term list.
func (ts *TermSet) Terms() []string {
	return ts.terms
}

// Len returns the number of compiled patterns.
func (ts *TermSet) Len() int {
	return len(ts.patterns)
}

// Match reports whether any term matches the tweet's location OR any
// term matches its description. The two checks are independent; the
// same term does not need to hit both fields. An empty field never
// matches, and an empty term set matches nothing.
func (ts *TermSet) Match(t model.Tweet) bool {
	return ts.matchField(t.Location) || ts.matchField(t.Description)
}

func (ts *TermSet) matchField(field string) bool {
	if field == "" {
		return false
	}
	for _, p := range ts.patterns {
		if p.MatchString(field) {
			return true
		}
	}
	return false
}
