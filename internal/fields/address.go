package fields

import (
	"strings"
)

const (
	addressAnchorConfidence  = 85
	addressStreetConfidence  = 80
	addressGenericConfidence = 60
)

// AddressResult carries the assembled postal components. Full is only
// populated when at least one component was found.
type AddressResult struct {
	Street  string
	City    string
	State   string
	Zip     string
	Full    string
	Score   int
	Reasons []string
}

// AddressExtractor runs two independent passes: a zip-anchored pass that
// derives city and state from the anchor line, and a street-pattern pass over
// the remaining lines.
type AddressExtractor struct{}

// NewAddressExtractor creates an address extractor.
func NewAddressExtractor() *AddressExtractor {
	return &AddressExtractor{}
}

// Extract returns the assembled address, or nil when no component was found.
func (e *AddressExtractor) Extract(doc *Document) *AddressResult {
	result := &AddressResult{}
	anchorIdx := -1

	// Pass one: locate the zip anchor and read city/state off its line.
	for i, line := range doc.Lines {
		if phoneLine(line) {
			continue
		}
		zm := zipPattern.FindStringSubmatchIndex(line)
		if zm == nil {
			continue
		}

		anchorIdx = i
		result.Zip = line[zm[2]:zm[3]]
		if zm[1] > zm[3] { // keep the +4 part when present
			result.Zip = line[zm[2]:zm[1]]
		}
		result.Reasons = append(result.Reasons, "zip anchor on line "+line)

		e.cityStateBefore(line[:zm[0]], result)
		result.Score = addressAnchorConfidence
		break
	}

	// Pass two: an independent street scan over the remaining lines.
	for i, line := range doc.Lines {
		if i == anchorIdx || phoneLine(line) {
			continue
		}
		if street, score, reason := streetComponent(line); street != "" {
			result.Street = street
			result.Reasons = append(result.Reasons, reason)
			if score > result.Score {
				result.Score = score
			}
			break
		}
	}

	if result.Street == "" && result.Zip == "" {
		return nil
	}

	result.Full = assembleFull(result)
	result.Score = ClampScore(result.Score)
	return result
}

// cityStateBefore parses "Springfield, IL" out of the text preceding the zip.
func (e *AddressExtractor) cityStateBefore(prefix string, result *AddressResult) {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), ",")
	if prefix == "" {
		return
	}

	words := strings.Fields(prefix)
	last := words[len(words)-1]
	if len(last) == 2 && last == strings.ToUpper(last) && isAlpha(last) {
		result.State = last
		words = words[:len(words)-1]
	}

	city := strings.TrimRight(strings.Join(words, " "), ",")
	// The city is the segment after the street portion, when both share the
	// anchor line ("123 Oak St, Springfield, IL 62704").
	if comma := strings.LastIndex(city, ","); comma >= 0 {
		city = strings.TrimSpace(city[comma+1:])
	}
	result.City = strings.TrimSpace(city)
}

// streetComponent recognizes "123 Oak Street" style lines, or any numbered
// line as the weaker generic form.
func streetComponent(line string) (street string, score int, reason string) {
	if !streetNumberPattern.MatchString(line) {
		return "", 0, ""
	}

	cut := strings.TrimRight(strings.TrimSpace(line), ",")
	// Trim a trailing city/state segment sharing the line.
	if comma := strings.Index(cut, ","); comma >= 0 {
		cut = strings.TrimSpace(cut[:comma])
	}

	for _, w := range strings.Fields(cut) {
		if isStreetType(w) {
			return cut, addressStreetConfidence, "street-type keyword on line " + line
		}
	}
	return cut, addressGenericConfidence, "generic numbered line " + line
}

// phoneLine filters lines whose digits are phone numbers, which would
// otherwise shadow zip and street-number patterns.
func phoneLine(line string) bool {
	for _, family := range phonePatterns {
		if family.re.MatchString(line) {
			return true
		}
	}
	return false
}

func assembleFull(r *AddressResult) string {
	var parts []string
	if r.Street != "" {
		parts = append(parts, r.Street)
	}
	cityState := r.City
	if r.State != "" {
		if cityState != "" {
			cityState += ", " + r.State
		} else {
			cityState = r.State
		}
	}
	if r.Zip != "" {
		if cityState != "" {
			cityState += " " + r.Zip
		} else {
			cityState = r.Zip
		}
	}
	if cityState != "" {
		parts = append(parts, cityState)
	}
	return strings.Join(parts, ", ")
}
