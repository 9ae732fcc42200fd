package fields

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mehanshivam/visitingcard/internal/layout"
)

const (
	titleBaseConfidence    = 55
	titleKeywordStep       = 15
	titleKeywordMaxCredit  = 3
	titleMiddleRegionBonus = 10
)

// TitleExtractor finds the job-title line by title-vocabulary matches across
// the layout regions. Confidence scales with the number of distinct matching
// keywords, with a bonus for the middle region where title lines statistically
// sit on printed cards.
type TitleExtractor struct{}

// NewTitleExtractor creates a title extractor.
func NewTitleExtractor() *TitleExtractor {
	return &TitleExtractor{}
}

// Extract returns the best title candidate, or nil when none qualified.
// nameText and companyText disqualify lines already assigned to those fields.
func (e *TitleExtractor) Extract(doc *Document, nameText, companyText string) *Candidate {
	var candidates []*Candidate

	for _, line := range doc.Lines {
		distinct := distinctTitleKeywords(line)
		if distinct == 0 {
			continue
		}

		phrase := titlePhrase(line)
		if phrase == "" {
			continue
		}
		if nameText != "" && strings.EqualFold(phrase, nameText) {
			continue
		}
		if companyText != "" && strings.EqualFold(phrase, companyText) {
			continue
		}

		credit := distinct
		if credit > titleKeywordMaxCredit {
			credit = titleKeywordMaxCredit
		}
		c := NewCandidate(formatTitle(phrase), titleBaseConfidence+credit*titleKeywordStep,
			SourcePattern, fmt.Sprintf("%d distinct title keyword(s)", distinct))

		if doc.Layout != nil {
			if band, ok := doc.Layout.BandOfText(line); ok && band == layout.BandMiddle {
				c.Adjust(titleMiddleRegionBonus, "line sits in the middle region")
			}
		}

		candidates = append(candidates, c)
	}

	return Best(candidates)
}

func distinctTitleKeywords(line string) int {
	seen := map[string]bool{}
	for _, word := range strings.Fields(strings.ToLower(line)) {
		bare := strings.Trim(word, ".,")
		if titleKeywords[bare] {
			seen[bare] = true
		}
	}
	return len(seen)
}

// titlePhrase isolates the title portion of a line. A run of two or more
// consecutive capitalized non-keyword tokens is cut away only when it sits
// where a shared personal name does: trailing the line behind a keyword
// ("CEO John Smith"), or leading the line set off by a comma
// ("John Smith, CEO"). Capitalized modifiers inside the phrase itself
// ("Senior Software Engineer") stay.
func titlePhrase(line string) string {
	words := strings.Fields(strings.TrimSuffix(line, ","))

	type span struct{ start, end int }
	var nameSpan *span
	run := 0
	for i, w := range words {
		if !isTitleKeyword(w) && isCapitalizedWord(w) {
			run++
			if run >= 2 {
				nameSpan = &span{start: i - run + 1, end: i + 1}
			}
		} else {
			run = 0
		}
	}

	if nameSpan != nil {
		trailing := nameSpan.end == len(words) && nameSpan.start > 0 &&
			isTitleKeyword(words[nameSpan.start-1])
		leading := nameSpan.start == 0 && nameSpan.end < len(words) &&
			strings.HasSuffix(words[nameSpan.end-1], ",")
		if !trailing && !leading {
			nameSpan = nil
		}
	}

	if nameSpan != nil {
		kept := append([]string{}, words[:nameSpan.start]...)
		kept = append(kept, words[nameSpan.end:]...)
		words = kept
	}

	// Drop leading/trailing punctuation leftovers.
	var cleaned []string
	for _, w := range words {
		w = strings.Trim(w, ",")
		if w != "" {
			cleaned = append(cleaned, w)
		}
	}
	if len(cleaned) == 0 {
		return ""
	}
	return strings.Join(cleaned, " ")
}

func isCapitalizedWord(w string) bool {
	runes := []rune(strings.Trim(w, ".,"))
	return len(runes) > 0 && unicode.IsUpper(runes[0])
}

// formatTitle keeps short all-caps acronyms (CEO, CTO) and title-cases the
// remaining words.
func formatTitle(phrase string) string {
	words := strings.Fields(phrase)
	for i, w := range words {
		if w == strings.ToUpper(w) && len([]rune(w)) <= 4 && isAlpha(w) {
			continue
		}
		words[i] = capitalizeWord(w)
	}
	return strings.Join(words, " ")
}
