// Package contacts turns rendered page text into deduplicated, filtered sets of
// email addresses and Indian mobile numbers.
//
// Everything in this package is a pure function of its input. Recognition is
// done by an ordered list of named patterns per entity type, and every
// candidate then runs through a chain of independent rejection rules.
package contacts

import (
	"regexp"
	"strings"
)

// Pattern is a named recognition expression. When Join is set it builds the
// candidate from the submatches, otherwise the whole match is used.
type Pattern struct {
	Name string
	Expr *regexp.Regexp
	Join func(groups []string) string
}

// candidates returns every match of p in text.
func (p Pattern) candidates(text string) []string {
	if p.Join == nil {
		return p.Expr.FindAllString(text, -1)
	}
	var out []string
	for _, groups := range p.Expr.FindAllStringSubmatch(text, -1) {
		out = append(out, p.Join(groups))
	}
	return out
}

// Rule is one named predicate in a filter chain. Reject returns true when the
// candidate must be discarded.
type Rule struct {
	Name   string
	Reject func(candidate string) bool
}

// firstRejecting returns the name of the first rule that rejects candidate.
func firstRejecting(rules []Rule, candidate string) (string, bool) {
	for _, r := range rules {
		if r.Reject(candidate) {
			return r.Name, true
		}
	}
	return "", false
}

// containsAny builds a case-insensitive substring rule.
func containsAny(markers []string) func(string) bool {
	return func(candidate string) bool {
		lower := strings.ToLower(candidate)
		for _, m := range markers {
			if strings.Contains(lower, m) {
				return true
			}
		}
		return false
	}
}

// Record is the contact information found on one page. Both slices are
// ordered sets: first-seen order, no duplicates.
type Record struct {
	Emails []string `json:"emails"`
	Phones []string `json:"phones"`
}

// Empty reports whether nothing was found.
func (r Record) Empty() bool {
	return len(r.Emails) == 0 && len(r.Phones) == 0
}

// Extract runs both extractors over text.
func Extract(text string) Record {
	return Record{
		Emails: ExtractEmails(text),
		Phones: ExtractPhones(text),
	}
}

// EmailPatterns returns the names of the email recognition patterns in the
// order they are applied.
func EmailPatterns() []string {
	return patternNames(emailPatterns)
}

// PhonePatterns returns the names of the phone recognition patterns in the
// order they are applied.
func PhonePatterns() []string {
	return patternNames(phonePatterns)
}

func patternNames(patterns []Pattern) []string {
	names := make([]string, len(patterns))
	for i, p := range patterns {
		names[i] = p.Name
	}
	return names
}
