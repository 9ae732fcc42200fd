package fields

import (
	"fmt"
	"strings"
)

const (
	emailBaseConfidence    = 80
	emailOCRBaseConfidence = 70
	domainKnownBonus       = 10
	domainUnknownPenalty   = -15
	businessEmailBonus     = 5
)

// EmailResult is the email extractor's surviving candidate plus the derived
// attributes the pipeline needs.
type EmailResult struct {
	Candidate *Candidate
	Domain    string
	Business  bool
}

// Website derives the site address from the chosen email's domain. The
// derivation is unconditional: whenever an email is chosen, the website is
// "www." plus its domain.
func (r *EmailResult) Website() string {
	return "www." + r.Domain
}

// EmailExtractor finds email addresses via the general pattern and a
// secondary OCR-corrected pattern, validates domains against the allow-list,
// and prefers business-classified addresses when several are present.
type EmailExtractor struct{}

// NewEmailExtractor creates an email extractor.
func NewEmailExtractor() *EmailExtractor {
	return &EmailExtractor{}
}

// Extract returns the best email candidate, or nil when none matched.
func (e *EmailExtractor) Extract(doc *Document) *EmailResult {
	type match struct {
		candidate *Candidate
		domain    string
		business  bool
	}
	var matches []match
	seen := map[string]bool{}

	add := func(raw string, base int, reason string) {
		email := strings.ToLower(raw)
		key := email
		if seen[key] {
			return
		}
		seen[key] = true

		domain := domainOf(email)
		if domain == "" {
			return
		}

		c := NewCandidate(email, base, SourcePattern, reason)
		if hasKnownDomainTail(domain) {
			c.Adjust(domainKnownBonus, "domain matches known TLD allow-list")
		} else {
			c.Adjust(domainUnknownPenalty, "domain not in TLD allow-list")
		}

		business := classifyBusiness(email, domain)
		if business {
			c.Adjust(businessEmailBonus, "classified as business address")
		}

		matches = append(matches, match{candidate: c, domain: domain, business: business})
	}

	for _, raw := range emailPattern.FindAllString(doc.RawText, -1) {
		add(raw, emailBaseConfidence, "matched general email pattern")
	}

	// Second pass with the OCR-tolerant pattern, correcting the domain
	// before scoring. Exact duplicates of the first pass are skipped.
	for _, raw := range emailOCRPattern.FindAllString(doc.RawText, -1) {
		corrected := correctEmailDomain(raw)
		if seen[strings.ToLower(raw)] && corrected == raw {
			continue
		}
		add(corrected, emailOCRBaseConfidence,
			fmt.Sprintf("matched OCR-corrected email pattern (%q)", raw))
	}

	if len(matches) == 0 {
		return nil
	}

	// Business addresses win over personal ones regardless of raw score;
	// within a class the normal candidate ranking applies.
	var businessCands, personalCands []*Candidate
	byText := map[string]match{}
	for _, m := range matches {
		byText[m.candidate.Text] = m
		if m.business {
			businessCands = append(businessCands, m.candidate)
		} else {
			personalCands = append(personalCands, m.candidate)
		}
	}

	winner := Best(businessCands)
	if winner == nil {
		winner = Best(personalCands)
	}

	m := byText[winner.Text]
	return &EmailResult{Candidate: winner, Domain: m.domain, Business: m.business}
}

func domainOf(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return email[at+1:]
}

func hasKnownDomainTail(domain string) bool {
	for _, tail := range knownDomainTails {
		if strings.HasSuffix(domain, tail) {
			return true
		}
	}
	return false
}

// classifyBusiness labels an address business unless it lives on a free-mail
// domain. Generic shared inboxes (info@, sales@, ...) count as business even
// on a free-mail domain: small shops run them on hosted accounts.
func classifyBusiness(email, domain string) bool {
	user := email[:strings.LastIndex(email, "@")]
	for _, prefix := range genericInboxPrefixes {
		if user == prefix || strings.HasPrefix(user, prefix+".") {
			return true
		}
	}
	return !freeMailDomains[domain]
}
