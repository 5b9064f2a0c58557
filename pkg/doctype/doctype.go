// Package doctype classifies legal document text into a document-type
// category by counting keyword matches against a fixed keyword table.
//
// Classification policy: every keyword hit counts once per occurrence,
// matched case-insensitively on word boundaries. The category with the
// highest total hit count wins; ties are broken by the fixed category
// priority order (the declaration order of the table, contract first). Text
// with no keyword hits at all classifies as Unknown.
package doctype

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Category is a legal document-type category.
type Category string

const (
	Contract   Category = "contract"
	Motion     Category = "motion"
	Brief      Category = "brief"
	Complaint  Category = "complaint"
	Order      Category = "order"
	Opinion    Category = "opinion"
	Statute    Category = "statute"
	Regulation Category = "regulation"

	// Unknown is the sentinel returned when no keyword matches.
	Unknown Category = "unknown"
)

// categoryKeywords pairs a category with its keyword list. Slice order is
// the tie-break priority order.
type categoryKeywords struct {
	Category Category
	Keywords []string
}

// keywordTable is the fixed classification table. Keywords may appear under
// more than one category ("judgment" is both an order and an opinion term);
// the hit count and priority order resolve the overlap deterministically.
var keywordTable = []categoryKeywords{
	{Contract, []string{"agreement", "contract", "covenant", "deed", "lease"}},
	{Motion, []string{"motion", "petition", "application", "request"}},
	{Brief, []string{"brief", "memorandum", "memo"}},
	{Complaint, []string{"complaint", "petition", "claim"}},
	{Order, []string{"order", "judgment", "decree", "ruling", "decision"}},
	{Opinion, []string{"opinion", "decision", "judgment"}},
	{Statute, []string{"statute", "act", "code", "law"}},
	{Regulation, []string{"regulation", "rule", "cfr", "administrative"}},
}

// compiledCategory is one category's combined keyword regex.
type compiledCategory struct {
	Category Category
	Keywords []string
	pattern  *regexp.Regexp
}

// compiledTable holds one case-insensitive word-boundary regex per category,
// built once at package load.
var compiledTable = func() []compiledCategory {
	table := make([]compiledCategory, len(keywordTable))
	for i, entry := range keywordTable {
		quoted := make([]string, len(entry.Keywords))
		for j, kw := range entry.Keywords {
			quoted[j] = regexp.QuoteMeta(kw)
		}
		table[i] = compiledCategory{
			Category: entry.Category,
			Keywords: entry.Keywords,
			pattern:  regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`),
		}
	}
	return table
}()

// KeywordHit records how often one keyword matched.
type KeywordHit struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Match is one category's score against a piece of text.
type Match struct {
	Category Category     `json:"category"`
	Score    int          `json:"score"`
	Hits     []KeywordHit `json:"hits,omitempty"`

	// priority is the category's position in the table, for tie-breaking.
	priority int
}

// String returns a one-line summary of the match.
func (m *Match) String() string {
	return fmt.Sprintf("%s: %d keyword hits", m.Category, m.Score)
}

// Explain returns a per-keyword scoring breakdown for debugging.
func (m *Match) Explain() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Category: %s\n", m.Category))
	sb.WriteString(fmt.Sprintf("  Score: %d\n", m.Score))
	if len(m.Hits) > 0 {
		sb.WriteString("  Matched keywords:\n")
		for _, hit := range m.Hits {
			sb.WriteString(fmt.Sprintf("    %q x%d\n", hit.Keyword, hit.Count))
		}
	}
	return sb.String()
}

// Classify returns the best-matching category for the text, or Unknown when
// no keyword matches.
func Classify(text string) Category {
	matches := ClassifyAll(text)
	if len(matches) == 0 {
		return Unknown
	}
	return matches[0].Category
}

// ClassifyAll scores every category against the text and returns the
// categories with at least one keyword hit, sorted by score descending with
// ties broken by the fixed priority order. Text with no hits yields nil.
func ClassifyAll(text string) []Match {
	var matches []Match

	for priority, entry := range compiledTable {
		score := len(entry.pattern.FindAllString(text, -1))
		if score == 0 {
			continue
		}

		match := Match{
			Category: entry.Category,
			Score:    score,
			priority: priority,
		}
		for _, kw := range entry.Keywords {
			count := countKeyword(text, kw)
			if count > 0 {
				match.Hits = append(match.Hits, KeywordHit{Keyword: kw, Count: count})
			}
		}
		matches = append(matches, match)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].priority < matches[j].priority
	})

	return matches
}

// Categories returns every category in priority order.
func Categories() []Category {
	categories := make([]Category, len(keywordTable))
	for i, entry := range keywordTable {
		categories[i] = entry.Category
	}
	return categories
}

// Keywords returns the keyword list for a category, or nil for an unknown
// category.
func Keywords(category Category) []string {
	for _, entry := range keywordTable {
		if entry.Category == category {
			return append([]string(nil), entry.Keywords...)
		}
	}
	return nil
}

// keywordPatterns caches a per-keyword regex for hit counting.
var keywordPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp)
	for _, entry := range keywordTable {
		for _, kw := range entry.Keywords {
			if _, ok := m[kw]; !ok {
				m[kw] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
			}
		}
	}
	return m
}()

func countKeyword(text, keyword string) int {
	pattern, ok := keywordPatterns[keyword]
	if !ok {
		return 0
	}
	return len(pattern.FindAllString(text, -1))
}
