package fields

import "strings"

// Domain-specific OCR correction passes. Each extractor corrects only the
// confusions that matter for its own patterns, before matching.

// digitLookalikes maps glyphs the recognizer confuses for digits.
var digitLookalikes = map[rune]rune{
	'O': '0', 'o': '0',
	'I': '1', 'l': '1', '|': '1',
	'S': '5', 's': '5',
	'G': '6',
	'B': '8',
}

// correctPhoneDigits substitutes digit look-alikes, but only when the glyph
// sits next to a digit or phone punctuation. That keeps words like "Sales"
// intact on mixed lines.
func correctPhoneDigits(line string) string {
	runes := []rune(line)
	out := make([]rune, len(runes))
	copy(out, runes)

	for i, r := range runes {
		repl, ok := digitLookalikes[r]
		if !ok {
			continue
		}
		if phoneContext(runes, i-1) || phoneContext(runes, i+1) {
			out[i] = repl
		}
	}
	return string(out)
}

func phoneContext(runes []rune, i int) bool {
	if i < 0 || i >= len(runes) {
		return false
	}
	r := runes[i]
	if r >= '0' && r <= '9' {
		return true
	}
	switch r {
	case '(', ')', '-', '.', '+':
		return true
	}
	return false
}

// correctEmailDomain repairs zero/O confusion in the domain part of a matched
// address. Usernames are left alone: they legitimately contain digits.
func correctEmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	user, domain := email[:at], email[at+1:]

	labels := strings.Split(domain, ".")
	for i, label := range labels {
		// Repair only labels that are letters apart from the confused zero;
		// an all-digit label would be something else entirely.
		if strings.ContainsRune(label, '0') && countLetters(label) > 0 {
			labels[i] = strings.ReplaceAll(label, "0", "o")
		}
	}
	return user + "@" + strings.Join(labels, ".")
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			n++
		}
	}
	return n
}
