package fields

import (
	"strings"
	"unicode"
)

const (
	companySuffixConfidence   = 85
	companySuffixEndBonus     = 5
	companyIndustryConfidence = 65
)

// CompanyExtractor identifies the organization line. The primary signal is
// business-suffix vocabulary; industry keywords are the weaker secondary
// signal. Department lines and person-shaped lines are disqualified.
type CompanyExtractor struct{}

// NewCompanyExtractor creates a company extractor.
func NewCompanyExtractor() *CompanyExtractor {
	return &CompanyExtractor{}
}

// Extract returns the best company candidate, or nil when none qualified.
func (e *CompanyExtractor) Extract(doc *Document) *Candidate {
	var candidates []*Candidate

	for _, line := range doc.Lines {
		if c := e.evaluate(line); c != nil {
			candidates = append(candidates, c)
		}
	}

	return Best(candidates)
}

func (e *CompanyExtractor) evaluate(line string) *Candidate {
	if containsDepartmentWord(line) {
		return nil
	}
	if looksLikePersonName(line) {
		return nil
	}
	if emailPattern.MatchString(line) || zipPattern.MatchString(line) {
		return nil
	}

	words := strings.Fields(line)
	if len(words) == 0 || len(words) > 6 {
		return nil
	}

	if ContainsBusinessSuffix(line) {
		c := NewCandidate(formatCompanyName(words), companySuffixConfidence, SourcePattern,
			"contains business-suffix vocabulary")
		if isBusinessSuffixWord(words[len(words)-1]) {
			c.Adjust(companySuffixEndBonus, "suffix in terminal position")
		}
		return c
	}

	lower := strings.ToLower(line)
	for _, kw := range industryKeywords {
		if strings.Contains(lower, kw) {
			return NewCandidate(formatCompanyName(words), companyIndustryConfidence, SourceContext,
				"contains industry keyword "+kw)
		}
	}

	return nil
}

// looksLikePersonName matches the two-token, no-suffix, title-case shape of a
// personal name. Such lines belong to the name extractor.
func looksLikePersonName(line string) bool {
	words := strings.Fields(line)
	if len(words) != 2 {
		return false
	}
	if ContainsBusinessSuffix(line) {
		return false
	}
	for _, w := range words {
		runes := []rune(w)
		if len(runes) < 2 || !unicode.IsUpper(runes[0]) {
			return false
		}
		for _, r := range runes[1:] {
			if !unicode.IsLower(r) {
				return false
			}
		}
	}
	return true
}

// formatCompanyName renders suffixes in their conventional casing and keeps
// interior conjunctions lower-case.
func formatCompanyName(words []string) string {
	out := make([]string, len(words))
	for i, w := range words {
		bare := strings.ToLower(strings.TrimSuffix(w, ","))
		switch {
		case suffixCasing[bare] != "":
			out[i] = suffixCasing[bare]
		case i > 0 && lowercaseCompanyWords[bare]:
			out[i] = bare
		case w == strings.ToUpper(w) && len([]rune(w)) <= 4 && isAlpha(w):
			// Short all-caps tokens are usually initialisms; keep them.
			out[i] = w
		default:
			out[i] = capitalizeWord(w)
		}
		if strings.HasSuffix(w, ",") && !strings.HasSuffix(out[i], ",") {
			out[i] += ","
		}
	}
	return strings.Join(out, " ")
}

func isBusinessSuffixWord(w string) bool {
	bare := strings.Trim(strings.ToLower(w), ",.")
	for _, s := range businessSuffixes {
		if bare == s || bare+"." == s {
			return true
		}
	}
	return false
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
