package fields

import (
	"regexp"
	"strings"
)

// The extractors are driven by the ordered tables below rather than by
// branching code, so every pattern family carries its own base confidence and
// can be tested in isolation.

// honorifics are leading name prefixes. Stripping one raises confidence that
// the remainder is a personal name.
var honorifics = []string{
	"dr.", "dr", "mr.", "mr", "mrs.", "mrs", "ms.", "ms",
	"prof.", "prof", "rev.", "rev", "hon.", "hon",
}

// titleKeywords is the job-title vocabulary shared by the title extractor,
// the name extractor's prefix/suffix stripping, and the arbiter's rule chain.
var titleKeywords = map[string]bool{
	"ceo": true, "cto": true, "cfo": true, "coo": true, "cio": true,
	"cmo": true, "president": true, "vice": true, "vp": true,
	"director": true, "manager": true, "officer": true, "chief": true,
	"engineer": true, "developer": true, "designer": true,
	"consultant": true, "analyst": true, "specialist": true,
	"coordinator": true, "executive": true, "founder": true,
	"partner": true, "head": true, "lead": true, "architect": true,
	"administrator": true, "supervisor": true, "principal": true,
	"associate": true, "advisor": true, "strategist": true,
	"scientist": true, "accountant": true, "attorney": true,
}

// businessSuffixes mark organization names. Presence disqualifies a line as a
// personal name and is the primary company signal.
var businessSuffixes = []string{
	"llc", "inc", "inc.", "corp", "corp.", "corporation", "ltd", "ltd.",
	"llp", "plc", "gmbh", "co.", "company", "group", "holdings",
	"solutions", "services", "enterprises", "industries", "associates",
	"partners", "ventures", "technologies", "systems", "consulting",
	"agency", "studio", "labs",
}

// suffixCasing maps business suffixes to their conventional rendering.
var suffixCasing = map[string]string{
	"llc": "LLC", "llp": "LLP", "plc": "PLC", "gmbh": "GmbH",
	"inc": "Inc", "inc.": "Inc.", "corp": "Corp", "corp.": "Corp.",
	"ltd": "Ltd", "ltd.": "Ltd.", "co.": "Co.",
}

// industryKeywords are the weaker, secondary company signal.
var industryKeywords = []string{
	"software", "consulting", "marketing", "financial", "insurance",
	"realty", "real estate", "media", "design", "engineering",
	"construction", "logistics", "pharma", "biotech", "legal",
	"capital", "digital", "analytics", "security", "health",
}

// departmentWords disqualify a company candidate: a department line names a
// unit inside an organization, not the organization.
var departmentWords = []string{"department", "division", "team", "branch", "unit", "dept"}

// lowercaseCompanyWords are interior conjunctions kept lower-case during
// company formatting unless they lead the name.
var lowercaseCompanyWords = map[string]bool{
	"and": true, "of": true, "the": true, "for": true,
}

// freeMailDomains classify an address as personal rather than business.
var freeMailDomains = map[string]bool{
	"gmail.com": true, "yahoo.com": true, "hotmail.com": true,
	"outlook.com": true, "aol.com": true, "icloud.com": true,
	"protonmail.com": true, "proton.me": true, "live.com": true,
	"msn.com": true, "mail.com": true, "ymail.com": true,
}

// genericInboxPrefixes are shared company inboxes; they classify as business
// even when hosted on a free-mail domain.
var genericInboxPrefixes = []string{
	"info", "sales", "support", "contact", "admin", "office",
	"hello", "enquiries", "inquiries", "service", "billing", "hr",
}

// knownDomainTails is the allow-list of common top-level and second-level
// domains. A match earns +10 confidence, a miss costs 15.
var knownDomainTails = []string{
	".com", ".org", ".net", ".edu", ".gov", ".io", ".co", ".biz",
	".info", ".us", ".uk", ".ca", ".au", ".de", ".in",
	".co.uk", ".com.au", ".co.in",
}

// streetTypes anchor the street-line pattern of the address extractor.
var streetTypes = []string{
	"street", "st", "avenue", "ave", "boulevard", "blvd", "road", "rd",
	"drive", "dr", "lane", "ln", "way", "court", "ct", "circle", "cir",
	"place", "pl", "parkway", "pkwy", "suite", "ste", "floor", "plaza",
	"highway", "hwy",
}

// officeKeywords and mobileKeywords classify a phone line from surrounding
// context. Absent any signal the classification defaults to office, since
// business cards predominantly list office lines.
var (
	officeKeywords = []string{"office", "work", "tel", "phone", "direct", "desk", "main"}
	mobileKeywords = []string{"mobile", "cell", "mob", "cellular"}
)

// phonePattern is one pattern family with its reliability-ordered base
// confidence.
type phonePattern struct {
	name string
	re   *regexp.Regexp
	base int
}

// phonePatterns is ordered by reliability; the order is also the scan order.
var phonePatterns = []phonePattern{
	{
		name: "international",
		re:   regexp.MustCompile(`\+\d{1,3}[-.\s]?\(?\d{2,3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
		base: 95,
	},
	{
		name: "parenthesized",
		re:   regexp.MustCompile(`\(\d{3}\)[-.\s]?\d{3}[-.\s]?\d{4}`),
		base: 90,
	},
	{
		name: "separated",
		re:   regexp.MustCompile(`\b\d{3}[-.]\d{3}[-.]\d{4}\b`),
		base: 85,
	},
	{
		name: "bare",
		re:   regexp.MustCompile(`\b\d{10}\b`),
		base: 80,
	},
	{
		name: "spaced_international",
		re:   regexp.MustCompile(`\+?\d{1,3}\s\d{2,4}\s\d{3,4}\s\d{3,4}`),
		base: 75,
	},
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9][A-Za-z0-9._%+-]*@[A-Za-z][A-Za-z0-9.-]*\.[A-Za-z]{2,}\b`)

	// emailOCRPattern tolerates zero/O confusion inside the domain, the most
	// common recognition defect in small print.
	emailOCRPattern = regexp.MustCompile(`\b[A-Za-z0-9][A-Za-z0-9._%+-]*@[A-Za-z0-9][A-Za-z0-9.-]*\.[A-Za-z0]{2,}\b`)

	// The word boundary keeps the "x" in words like "Fax" from matching.
	extensionPattern = regexp.MustCompile(`(?i)(?:\b(?:ext\.?|x)|#)\s*(\d{1,5})`)

	zipPattern = regexp.MustCompile(`\b(\d{5})(?:-\d{4})?\b`)

	streetNumberPattern = regexp.MustCompile(`^\d{1,6}\s+\S+`)
)

// ContainsTitleKeyword reports whether any word of the text is job-title
// vocabulary. Exported for the arbiter's cross-field rules.
func ContainsTitleKeyword(text string) bool {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if titleKeywords[strings.Trim(word, ".,")] {
			return true
		}
	}
	return false
}

// ContainsBusinessSuffix reports whether the text carries organization-suffix
// vocabulary. Exported for the arbiter's cross-field rules.
func ContainsBusinessSuffix(text string) bool {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		trimmed := strings.Trim(word, ",")
		for _, suffix := range businessSuffixes {
			if trimmed == suffix {
				return true
			}
		}
	}
	return false
}

func containsDepartmentWord(text string) bool {
	lower := strings.ToLower(text)
	for _, word := range departmentWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

func isHonorific(word string) bool {
	lower := strings.ToLower(word)
	for _, h := range honorifics {
		if lower == h {
			return true
		}
	}
	return false
}

func isTitleKeyword(word string) bool {
	return titleKeywords[strings.Trim(strings.ToLower(word), ".,")]
}

func isStreetType(word string) bool {
	trimmed := strings.Trim(strings.ToLower(word), ".,")
	for _, st := range streetTypes {
		if trimmed == st {
			return true
		}
	}
	return false
}
