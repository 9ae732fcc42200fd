// Package fields contains the per-field heuristic extractors that turn
// recognized card text into contact-record candidates. Each extractor runs an
// OCR-correction pass for its domain, matches data-driven pattern tables,
// applies bonus/penalty adjustments, and returns its best surviving candidate.
package fields

import "fmt"

// Source tags where a candidate came from. It doubles as the tie-break
// priority between equal-confidence candidates: pattern beats layout beats
// context.
type Source int

const (
	SourceContext Source = iota
	SourceLayout
	SourcePattern
)

// String returns the source tag name.
func (s Source) String() string {
	switch s {
	case SourcePattern:
		return "pattern"
	case SourceLayout:
		return "layout"
	default:
		return "context"
	}
}

// Candidate is a provisional field value proposed by an extractor, before
// arbitration. Confidence is always clamped to [0,100].
type Candidate struct {
	Text       string   `json:"text"`
	Confidence int      `json:"confidence"`
	Source     Source   `json:"source"`
	Reasons    []string `json:"reasons"`
}

// NewCandidate creates a candidate with a clamped base confidence.
func NewCandidate(text string, confidence int, source Source, reason string) *Candidate {
	c := &Candidate{
		Text:       text,
		Confidence: ClampScore(confidence),
		Source:     source,
	}
	if reason != "" {
		c.Reasons = append(c.Reasons, reason)
	}
	return c
}

// Adjust applies a bonus or penalty, clamping the result and recording the
// human-readable reason.
func (c *Candidate) Adjust(delta int, reason string) {
	c.Confidence = ClampScore(c.Confidence + delta)
	if reason != "" {
		c.Reasons = append(c.Reasons, fmt.Sprintf("%s (%+d)", reason, delta))
	}
}

// Best selects the winning candidate: highest confidence, ties broken by
// source priority, remaining ties keeping the earliest candidate. Returns nil
// for an empty slice.
func Best(candidates []*Candidate) *Candidate {
	var best *Candidate
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if best == nil {
			best = c
			continue
		}
		if c.Confidence > best.Confidence {
			best = c
			continue
		}
		if c.Confidence == best.Confidence && c.Source > best.Source {
			best = c
		}
	}
	return best
}

// ClampScore bounds a confidence score to [0,100]. Negative intermediate
// results clamp to zero rather than propagating.
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
