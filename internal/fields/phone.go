package fields

import (
	"fmt"
	"strings"
)

// PhoneKind classifies the line the number was printed on.
type PhoneKind string

const (
	PhoneOffice  PhoneKind = "office"
	PhoneMobile  PhoneKind = "mobile"
	PhoneUnknown PhoneKind = "unknown"
)

// PhoneResult is the phone extractor's surviving candidate with its line
// classification and any captured extension.
type PhoneResult struct {
	Candidate *Candidate
	Kind      PhoneKind
	Extension string
}

// PhoneExtractor matches the five reliability-ordered pattern families after
// a digit-level OCR correction pass, captures extensions separately, and
// classifies office/mobile from surrounding context.
type PhoneExtractor struct{}

// NewPhoneExtractor creates a phone extractor.
func NewPhoneExtractor() *PhoneExtractor {
	return &PhoneExtractor{}
}

// Extract returns the best phone candidate, or nil when none matched.
func (p *PhoneExtractor) Extract(doc *Document) *PhoneResult {
	type match struct {
		candidate *Candidate
		kind      PhoneKind
		extension string
	}
	var matches []match
	seen := map[string]bool{}

	lines := doc.Lines
	if len(lines) == 0 {
		lines = []string{doc.RawText}
	}

	for _, line := range lines {
		corrected := correctPhoneDigits(line)

		// Extensions are captured once per line and kept out of the digit
		// count entirely.
		extension := ""
		if em := extensionPattern.FindStringSubmatch(corrected); em != nil {
			extension = em[1]
		}

		for _, family := range phonePatterns {
			raw := family.re.FindString(corrected)
			if raw == "" {
				continue
			}
			digits := digitsOf(raw)
			if len(digits) < 7 || seen[digits] {
				continue
			}
			seen[digits] = true

			formatted := formatPhone(raw, digits)
			c := NewCandidate(formatted, family.base, SourcePattern,
				fmt.Sprintf("matched %s phone pattern", family.name))

			kind := classifyPhoneLine(line)
			if kind != PhoneUnknown {
				c.Adjust(3, fmt.Sprintf("contextual keyword suggests %s line", kind))
			} else {
				kind = PhoneOffice // default: cards predominantly list office lines
			}

			if extension != "" {
				c.Text = c.Text + " ext. " + extension
				c.Reasons = append(c.Reasons, "captured extension "+extension)
			}

			matches = append(matches, match{candidate: c, kind: kind, extension: extension})

			// One family per line: families overlap, and the table is
			// ordered most reliable first.
			break
		}
	}

	if len(matches) == 0 {
		return nil
	}

	best := matches[0]
	for _, m := range matches[1:] {
		if m.candidate.Confidence > best.candidate.Confidence {
			best = m
		}
	}
	return &PhoneResult{Candidate: best.candidate, Kind: best.kind, Extension: best.extension}
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// formatPhone renders ten-digit numbers as "(AAA) PPP-SSSS" and keeps the
// country code prefix for longer ones. Unrecognized digit counts keep the
// matched text as-is.
func formatPhone(raw, digits string) string {
	switch {
	case len(digits) == 10:
		return fmt.Sprintf("(%s) %s-%s", digits[0:3], digits[3:6], digits[6:10])
	case len(digits) == 11 && digits[0] == '1':
		return fmt.Sprintf("+1 (%s) %s-%s", digits[1:4], digits[4:7], digits[7:11])
	case len(digits) > 10 && strings.HasPrefix(strings.TrimSpace(raw), "+"):
		cc := digits[:len(digits)-10]
		rest := digits[len(digits)-10:]
		return fmt.Sprintf("+%s (%s) %s-%s", cc, rest[0:3], rest[3:6], rest[6:10])
	default:
		return strings.TrimSpace(raw)
	}
}

func classifyPhoneLine(line string) PhoneKind {
	lower := strings.ToLower(line)
	for _, kw := range mobileKeywords {
		if strings.Contains(lower, kw) {
			return PhoneMobile
		}
	}
	for _, kw := range officeKeywords {
		if strings.Contains(lower, kw) {
			return PhoneOffice
		}
	}
	return PhoneUnknown
}
