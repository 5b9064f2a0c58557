package patterns

import (
	"regexp"
	"strconv"
	"strings"
)

// partySeparator matches the case-caption separator between party names:
// "v.", "vs.", "vs" or bare "v". Lowercase only, so that a middle initial
// "V." in a party name is not mistaken for the separator.
var partySeparator = regexp.MustCompile(`\s+v(?:s)?\.?\s+`)

// Footnote is one footnote body line extracted from document text.
type Footnote struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Pages is a page range extracted from a pinpoint reference. A single-page
// reference has Last == First.
type Pages struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

// ExtractPartyNames splits a case caption into plaintiff and defendant.
//
// The caption pattern is tried first; if it does not match, the caption is
// split on the first separator token. A caption with no separator yields
// (trimmed caption, ""), so a bare party name degrades to a caption with an
// unknown defendant rather than failing. Empty input yields ("", "").
func ExtractPartyNames(caseTitle string) (plaintiff, defendant string) {
	if match := PartyName.FindStringSubmatch(caseTitle); match != nil {
		return strings.TrimSpace(match[1]), strings.TrimSpace(match[2])
	}

	if loc := partySeparator.FindStringIndex(caseTitle); loc != nil {
		return strings.TrimSpace(caseTitle[:loc[0]]), strings.TrimSpace(caseTitle[loc[1]:])
	}

	return strings.TrimSpace(caseTitle), ""
}

// IsLegalEntity reports whether the text mentions a corporate entity, i.e.
// whether any designator from EntityDesignators appears as a whole token.
func IsLegalEntity(text string) bool {
	return Corporation.MatchString(text)
}

// ExtractParagraphNumbers returns every bracketed paragraph number in the
// text, in document order, duplicates preserved. Text with no paragraph
// markers yields nil.
func ExtractParagraphNumbers(text string) []int {
	var numbers []int
	for _, match := range ParagraphNumber.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			// Digit runs too long for an int are skipped rather than
			// surfaced; the marker is noise, not a paragraph number.
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}

// ExtractFootnotes returns every footnote body line in the text, in document
// order. Consumers use these to feed citation extraction on footnote text.
func ExtractFootnotes(text string) []Footnote {
	var footnotes []Footnote
	for _, match := range FootnoteText.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		footnotes = append(footnotes, Footnote{
			Number: n,
			Text:   strings.TrimSpace(match[2]),
		})
	}
	return footnotes
}

// ExtractPageRanges returns every pinpoint page reference in the text, in
// document order.
func ExtractPageRanges(text string) []Pages {
	var ranges []Pages
	for _, match := range PageRange.FindAllStringSubmatch(text, -1) {
		first, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		last := first
		if match[2] != "" {
			if n, err := strconv.Atoi(match[2]); err == nil {
				last = n
			}
		}
		ranges = append(ranges, Pages{First: first, Last: last})
	}
	return ranges
}

// ExtractDates returns every long-form date in the text, in document order.
func ExtractDates(text string) []string {
	return LegalDate.FindAllString(text, -1)
}

// FormatDate standardises a date string. Currently this trims surrounding
// whitespace; richer normalisation (month abbreviation expansion) belongs
// here when a consumer needs it.
func FormatDate(date string) string {
	return strings.TrimSpace(date)
}
