// Package layout infers spatial structure from recognized word tokens. A
// printed card carries strong positional conventions: the largest text is
// usually the bearer's name, job titles sit mid-card, and contact details
// cluster near the bottom. The analyzer turns raw boxes into those hints.
package layout

import (
	"errors"
	"sort"
	"strings"

	"github.com/mehanshivam/visitingcard/internal/recognize"
)

// ErrLayoutUnavailable signals that no spatial analysis is possible. It is
// recoverable: extraction falls back to plain line-splitting of the raw text.
var ErrLayoutUnavailable = errors.New("layout unavailable: no tokens to analyze")

// Band is a vertical third of the card.
type Band int

const (
	BandTop Band = iota
	BandMiddle
	BandBottom
)

// String returns the band name for diagnostics.
func (b Band) String() string {
	switch b {
	case BandTop:
		return "top"
	case BandMiddle:
		return "middle"
	case BandBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Layout is a derived, read-only view over a token sequence. The three bands
// partition the tokens disjointly; the prominence ranking is a stable sort by
// glyph height, ties keeping original token order.
type Layout struct {
	Envelope recognize.BoundingBox

	Top    []recognize.Token
	Middle []recognize.Token
	Bottom []recognize.Token

	// ByProminence lists all tokens, largest glyph height first.
	ByProminence []recognize.Token
}

// Analyze partitions tokens into vertical thirds of the card envelope and
// ranks them by visual prominence.
func Analyze(tokens []recognize.Token) (*Layout, error) {
	if len(tokens) == 0 {
		return nil, ErrLayoutUnavailable
	}

	env := envelope(tokens)
	l := &Layout{Envelope: env}

	height := env.Y1 - env.Y0
	for _, t := range tokens {
		switch bandOf(t, env.Y0, height) {
		case BandTop:
			l.Top = append(l.Top, t)
		case BandMiddle:
			l.Middle = append(l.Middle, t)
		default:
			l.Bottom = append(l.Bottom, t)
		}
	}

	l.ByProminence = make([]recognize.Token, len(tokens))
	copy(l.ByProminence, tokens)
	sort.SliceStable(l.ByProminence, func(i, j int) bool {
		return l.ByProminence[i].Box.Height() > l.ByProminence[j].Box.Height()
	})

	return l, nil
}

// Region returns the tokens of one band.
func (l *Layout) Region(b Band) []recognize.Token {
	switch b {
	case BandTop:
		return l.Top
	case BandMiddle:
		return l.Middle
	default:
		return l.Bottom
	}
}

// RegionText joins a band's tokens in original order.
func (l *Layout) RegionText(b Band) string {
	tokens := l.Region(b)
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}

// Prominent returns up to n tokens from the top of the prominence ranking.
func (l *Layout) Prominent(n int) []recognize.Token {
	if n > len(l.ByProminence) {
		n = len(l.ByProminence)
	}
	return l.ByProminence[:n]
}

// BandOfText reports which band contains a line of text, judged by where the
// majority of the line's words fall. The second return is false when none of
// the words appear in any band.
func (l *Layout) BandOfText(line string) (Band, bool) {
	words := strings.Fields(strings.ToLower(line))
	if len(words) == 0 {
		return BandTop, false
	}

	counts := [3]int{}
	for _, band := range []Band{BandTop, BandMiddle, BandBottom} {
		region := strings.ToLower(l.RegionText(band))
		for _, w := range words {
			if strings.Contains(region, w) {
				counts[band]++
			}
		}
	}

	best, bestCount := BandTop, 0
	for _, band := range []Band{BandTop, BandMiddle, BandBottom} {
		if counts[band] > bestCount {
			best, bestCount = band, counts[band]
		}
	}
	return best, bestCount > 0
}

func envelope(tokens []recognize.Token) recognize.BoundingBox {
	env := tokens[0].Box
	for _, t := range tokens[1:] {
		if t.Box.X0 < env.X0 {
			env.X0 = t.Box.X0
		}
		if t.Box.Y0 < env.Y0 {
			env.Y0 = t.Box.Y0
		}
		if t.Box.X1 > env.X1 {
			env.X1 = t.Box.X1
		}
		if t.Box.Y1 > env.Y1 {
			env.Y1 = t.Box.Y1
		}
	}
	return env
}

func bandOf(t recognize.Token, top, height float64) Band {
	if height <= 0 {
		return BandTop
	}
	rel := (t.Box.CenterY() - top) / height
	switch {
	case rel < 1.0/3.0:
		return BandTop
	case rel < 2.0/3.0:
		return BandMiddle
	default:
		return BandBottom
	}
}
