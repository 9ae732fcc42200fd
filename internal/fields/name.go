package fields

import (
	"strings"
	"unicode"
)

const (
	nameBaseConfidence       = 65
	nameLayoutBaseConfidence = 60
	honorificStripBonus      = 10
	titleStripBonus          = 8
	prominenceBonus          = 10
)

// NameExtractor identifies the card bearer's personal name. A candidate line
// is cleaned of honorifics and leading/trailing role words, rejected when it
// looks like an organization, and accepted on a 2-4 capitalized-token shape
// or a layout-prominence justification.
type NameExtractor struct{}

// NewNameExtractor creates a name extractor.
func NewNameExtractor() *NameExtractor {
	return &NameExtractor{}
}

// Extract returns the best name candidate, or nil when none qualified.
// companyText is the already-extracted company, used to reject the company
// line masquerading as a name.
func (n *NameExtractor) Extract(doc *Document, companyText string) *Candidate {
	var candidates []*Candidate

	prominentLine := n.prominentLine(doc)

	for _, line := range n.candidateLines(doc, prominentLine) {
		if c := n.evaluate(line, companyText, doc, prominentLine); c != nil {
			candidates = append(candidates, c)
		}
	}

	return Best(candidates)
}

// candidateLines orders lines by how likely they are to carry the name: the
// visually prominent line first, then the upper lines of the card.
func (n *NameExtractor) candidateLines(doc *Document, prominentLine string) []string {
	var lines []string
	seen := map[string]bool{}
	add := func(l string) {
		if l != "" && !seen[l] {
			seen[l] = true
			lines = append(lines, l)
		}
	}

	add(prominentLine)
	limit := len(doc.Lines)
	if limit > 4 {
		limit = 4
	}
	for _, line := range doc.Lines[:limit] {
		add(line)
	}
	return lines
}

// prominentLine finds the raw line containing the largest-glyph token.
func (n *NameExtractor) prominentLine(doc *Document) string {
	if doc.Layout == nil {
		return ""
	}
	prominent := doc.Layout.Prominent(1)
	if len(prominent) == 0 {
		return ""
	}
	needle := strings.ToLower(prominent[0].Text)
	for _, line := range doc.Lines {
		if strings.Contains(strings.ToLower(line), needle) {
			return line
		}
	}
	return ""
}

func (n *NameExtractor) evaluate(line, companyText string, doc *Document, prominentLine string) *Candidate {
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}

	type adjustment struct {
		delta  int
		reason string
	}
	var adjustments []adjustment

	// Strip honorific prefix.
	if isHonorific(words[0]) {
		adjustments = append(adjustments, adjustment{honorificStripBonus, "stripped honorific " + words[0]})
		words = words[1:]
	}

	// Strip leading role words ("CEO John Smith").
	for len(words) > 0 && isTitleKeyword(words[0]) {
		adjustments = append(adjustments, adjustment{titleStripBonus, "stripped leading title word " + words[0]})
		words = words[1:]
	}

	// Strip trailing role phrase ("John Smith, CEO" or "John Smith CEO").
	for len(words) > 0 && isTitleKeyword(words[len(words)-1]) {
		adjustments = append(adjustments, adjustment{titleStripBonus, "stripped trailing title word " + words[len(words)-1]})
		words = words[:len(words)-1]
	}
	if len(words) > 0 {
		words[len(words)-1] = strings.TrimSuffix(words[len(words)-1], ",")
	}

	if len(words) == 0 {
		return nil
	}

	cleaned := strings.Join(words, " ")

	// Disqualifications.
	if ContainsBusinessSuffix(cleaned) {
		return nil
	}
	if companyText != "" && strings.EqualFold(cleaned, companyText) {
		return nil
	}

	capitalized := countCapitalizedTokens(words)

	var c *Candidate
	switch {
	case len(words) >= 2 && len(words) <= 4 && capitalized == len(words):
		c = NewCandidate(formatPersonName(words), nameBaseConfidence, SourcePattern,
			"matched capitalized name shape")
	case prominentLine != "" && line == prominentLine:
		// Accept an off-shape line only when layout prominence vouches
		// for it.
		if capitalized == 0 || len(words) > 5 {
			return nil
		}
		c = NewCandidate(formatPersonName(words), nameLayoutBaseConfidence, SourceLayout,
			"accepted via layout prominence")
	default:
		return nil
	}

	for _, adj := range adjustments {
		c.Adjust(adj.delta, adj.reason)
	}

	if prominentLine != "" && line == prominentLine {
		c.Adjust(prominenceBonus, "line carries the most prominent glyphs")
	}

	return c
}

func countCapitalizedTokens(words []string) int {
	count := 0
	for _, w := range words {
		runes := []rune(strings.Trim(w, ".,"))
		if len(runes) > 0 && unicode.IsUpper(runes[0]) {
			count++
		}
	}
	return count
}

// formatPersonName renders each token capitalized, keeps single-letter
// initials upper-case, and capitalizes both parts of hyphenated compounds.
func formatPersonName(words []string) string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = formatNameToken(w)
	}
	return strings.Join(out, " ")
}

func formatNameToken(w string) string {
	if len([]rune(strings.TrimSuffix(w, "."))) == 1 {
		return strings.ToUpper(w)
	}
	if strings.Contains(w, "-") {
		parts := strings.Split(w, "-")
		for i, p := range parts {
			parts[i] = capitalizeWord(p)
		}
		return strings.Join(parts, "-")
	}
	return capitalizeWord(w)
}

func capitalizeWord(w string) string {
	runes := []rune(strings.ToLower(w))
	if len(runes) == 0 {
		return w
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
