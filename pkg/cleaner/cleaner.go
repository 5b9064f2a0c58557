// Package cleaner normalises raw legal text coming out of OCR: Unicode
// normalisation, whitespace collapsing, and a fixed ordered list of
// substitution rules for common OCR misreads.
//
// Clean is idempotent: running it twice yields the same output as once. The
// rule list is deliberately ordered (whitespace collapsing first, so the
// punctuation rules see single spaces) and each rule is written so one pass
// reaches a fixed point.
package cleaner

import (
	"regexp"
	"strings"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Rule is one ordered find/replace correction.
type Rule struct {
	// Name identifies the rule in documentation and test output.
	Name string

	// Replacement is the substitution text.
	Replacement string

	pattern *regexp.Regexp
}

// Apply runs just this rule against the text.
func (r Rule) Apply(text string) string {
	return r.pattern.ReplaceAllString(text, r.Replacement)
}

// Pattern returns the rule's regular expression source.
func (r Rule) Pattern() string {
	return r.pattern.String()
}

// rules is the fixed correction sequence, applied in slice order.
var rules = []Rule{
	// OCR engines often emit the fi/fl ligature codepoints for scanned
	// print; downstream keyword matching expects plain letters.
	{Name: "ligature_fi", Replacement: "fi", pattern: regexp.MustCompile(`ﬁ`)},
	{Name: "ligature_fl", Replacement: "fl", pattern: regexp.MustCompile(`ﬂ`)},

	// Collapse all whitespace runs, including newlines, to single spaces.
	{Name: "whitespace", Replacement: " ", pattern: regexp.MustCompile(`\s+`)},

	// A standalone lowercase l is almost always a misread digit 1 in
	// citations and numbering; likewise a standalone capital O for 0.
	{Name: "standalone_l", Replacement: "1", pattern: regexp.MustCompile(`\bl\b`)},
	{Name: "standalone_O", Replacement: "0", pattern: regexp.MustCompile(`\bO\b`)},

	// Runs of section symbols collapse to one. The run quantifier keeps a
	// single pass idempotent for runs of three or more.
	{Name: "section_run", Replacement: "§", pattern: regexp.MustCompile(`§§+`)},

	// OCR tends to insert space before sentence punctuation.
	{Name: "space_before_period", Replacement: ".", pattern: regexp.MustCompile(`\s+\.`)},
	{Name: "space_before_comma", Replacement: ",", pattern: regexp.MustCompile(`\s+,`)},
}

// Clean normalises raw legal text. It never fails; empty input yields an
// empty string.
func Clean(text string) string {
	// NFC first so the substitution rules see composed codepoints.
	normalised, _, err := transform.String(norm.NFC, text)
	if err == nil {
		text = normalised
	}

	for _, rule := range rules {
		text = rule.Apply(text)
	}

	return strings.TrimSpace(text)
}

// Rules returns a copy of the correction sequence in application order.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}
