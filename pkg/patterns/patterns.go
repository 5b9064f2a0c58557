// Package patterns provides the shared regular-expression pattern set for
// legal document text: paragraph/section/article numbering, footnotes, page
// references, corporate entity designators, case captions, and dates.
//
// All patterns are compiled once at package load and are safe for concurrent
// use. Extraction helpers built on them live in extract.go; caller-defined
// pattern sets loaded from YAML live in registry.go.
package patterns

import (
	"regexp"
	"strings"
)

var (
	// ParagraphNumber matches bracketed paragraph markers such as "[12]"
	// anywhere in the text. Group 1 is the numeric string.
	ParagraphNumber = regexp.MustCompile(`\[(\d+)\]`)

	// SectionNumber matches section markers at the start of a line, such as
	// "§ 12" or "§12.3.1". Group 1 is the dotted section number.
	SectionNumber = regexp.MustCompile(`(?m)^\s*§\s*(\d+(?:\.\d+)*)`)

	// ArticleNumber matches article headings at the start of a line, such as
	// "Article IV" or "article 7". Group 1 is the roman or arabic number.
	ArticleNumber = regexp.MustCompile(`(?im)^\s*Article\s+([IVXLCDM]+|\d+)\b`)

	// FootnoteReference matches inline footnote markers such as "word^3".
	// Group 1 is the preceding word, group 2 the footnote number.
	FootnoteReference = regexp.MustCompile(`(\w+)\s*\^(\d+)`)

	// FootnoteText matches footnote body lines such as "^3 See id. at 17."
	// Group 1 is the footnote number, group 2 the footnote text.
	FootnoteText = regexp.MustCompile(`(?m)^\s*\^(\d+)\s*(.+)`)

	// LegalDate matches long-form dates as they appear in filings and
	// opinions, e.g. "January 5, 2021" or "Sept. 30 1999".
	LegalDate = regexp.MustCompile(
		`\b(?:January|February|March|April|May|June|July|August|September|October|November|December|` +
			`Jan\.?|Feb\.?|Mar\.?|Apr\.?|May\.?|Jun\.?|Jul\.?|Aug\.?|Sep\.?|Sept\.?|Oct\.?|Nov\.?|Dec\.?)\s+` +
			`\d{1,2},?\s+\d{4}\b`)

	// PageNumber matches lines containing only a page number, with or
	// without a "Page" prefix. Group 1 is the number.
	PageNumber = regexp.MustCompile(`(?im)^\s*(?:Page\s+)?(\d+)\s*$`)

	// PageRange matches pinpoint page references such as "p. 12" or
	// "pp. 12-15". Group 1 is the first page, group 2 (optional) the last.
	PageRange = regexp.MustCompile(`\bpp?\.\s*(\d+)(?:\s*[-–]\s*(\d+))?\b`)

	// PartyName matches a case caption of the form "Plaintiff v. Defendant"
	// at the start of the string, up to a trailing comma or end of input.
	// Groups 1 and 2 are the plaintiff and defendant names. The separator
	// accepts "v.", "vs.", "vs" and bare "v".
	PartyName = regexp.MustCompile(`^([A-Z][A-Za-z\s,\.]+?)\s+v(?:s)?\.?\s+([A-Z][A-Za-z\s,\.]+?)(?:\s*,|$)`)
)

// EntityDesignators is the list of corporate designator tokens recognised by
// Corporation and IsLegalEntity.
var EntityDesignators = []string{
	"Inc.",
	"LLC",
	"L.L.C.",
	"LLP",
	"L.P.",
	"Corp.",
	"Corporation",
	"Company",
	"Co.",
	"Ltd.",
}

// Corporation matches any entity designator as a whole token. Designators
// ending in a period anchor on the literal period so that "Inc." matches
// before a space or end of input; bare-word designators take a word boundary
// on both sides so that "LLC" never matches inside an unrelated word.
var Corporation = compileDesignators(EntityDesignators)

func compileDesignators(designators []string) *regexp.Regexp {
	alternatives := make([]string, 0, len(designators))
	for _, d := range designators {
		quoted := regexp.QuoteMeta(d)
		if strings.HasSuffix(d, ".") {
			alternatives = append(alternatives, `\b`+quoted)
		} else {
			alternatives = append(alternatives, `\b`+quoted+`\b`)
		}
	}
	return regexp.MustCompile(`(?:` + strings.Join(alternatives, "|") + `)`)
}
