// Package courts expands court-name abbreviations to their canonical full
// names. Lookup is case-insensitive and never fails: an abbreviation with no
// mapping passes through unchanged.
package courts

import (
	"sort"
	"strings"
)

// abbreviations maps a court abbreviation to its canonical full name.
// Reads go through Normalize, which folds case; the table itself keeps the
// conventional capitalisation for display via Abbreviations.
var abbreviations = map[string]string{
	// Federal courts
	"S. Ct.": "Supreme Court",
	"U.S.":   "United States Supreme Court",

	// Circuit courts
	"1st Cir.":  "First Circuit",
	"2d Cir.":   "Second Circuit",
	"3d Cir.":   "Third Circuit",
	"4th Cir.":  "Fourth Circuit",
	"5th Cir.":  "Fifth Circuit",
	"6th Cir.":  "Sixth Circuit",
	"7th Cir.":  "Seventh Circuit",
	"8th Cir.":  "Eighth Circuit",
	"9th Cir.":  "Ninth Circuit",
	"10th Cir.": "Tenth Circuit",
	"11th Cir.": "Eleventh Circuit",
	"D.C. Cir.": "D.C. Circuit",
	"Fed. Cir.": "Federal Circuit",

	// District courts
	"D.":   "District",
	"E.D.": "Eastern District",
	"W.D.": "Western District",
	"N.D.": "Northern District",
	"S.D.": "Southern District",
	"C.D.": "Central District",
	"M.D.": "Middle District",

	// State courts
	"Sup. Ct.":   "Supreme Court",
	"App.":       "Appellate",
	"App. Div.":  "Appellate Division",
	"Ct. App.":   "Court of Appeals",
	"Super. Ct.": "Superior Court",
}

// folded is the lookup index, keyed by lowercased abbreviation. Built once
// at package load.
var folded = func() map[string]string {
	m := make(map[string]string, len(abbreviations))
	for abbr, full := range abbreviations {
		m[strings.ToLower(abbr)] = full
	}
	return m
}()

// Normalize expands a court abbreviation to its full name.
//
// The trimmed input is first looked up whole, case-insensitively. If the
// whole string has no mapping, each whitespace-separated token is expanded
// individually, so compound abbreviations like "S.D. Cal." become
// "Southern District Cal.". Input where neither the whole string nor any
// token is in the table is returned unchanged.
func Normalize(abbr string) string {
	trimmed := strings.TrimSpace(abbr)
	if trimmed == "" {
		return abbr
	}

	if full, ok := folded[strings.ToLower(trimmed)]; ok {
		return full
	}

	tokens := strings.Fields(trimmed)
	expanded := false
	for i, token := range tokens {
		if full, ok := folded[strings.ToLower(token)]; ok {
			tokens[i] = full
			expanded = true
		}
	}
	if !expanded {
		return abbr
	}
	return strings.Join(tokens, " ")
}

// Abbreviations returns every known abbreviation in sorted order.
func Abbreviations() []string {
	abbrs := make([]string, 0, len(abbreviations))
	for abbr := range abbreviations {
		abbrs = append(abbrs, abbr)
	}
	sort.Strings(abbrs)
	return abbrs
}

// FullName returns the canonical full name for an abbreviation and whether
// the abbreviation is in the table. Unlike Normalize it does no token-wise
// expansion.
func FullName(abbr string) (string, bool) {
	full, ok := folded[strings.ToLower(strings.TrimSpace(abbr))]
	return full, ok
}
