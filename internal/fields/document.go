package fields

import (
	"errors"
	"strings"

	"github.com/mehanshivam/visitingcard/internal/layout"
	"github.com/mehanshivam/visitingcard/internal/recognize"
)

// Document is the shared extraction input: the raw recognized text split into
// lines, plus the spatial layout when token data was available. Layout is nil
// when the backend produced no tokens; extractors must degrade to line-based
// heuristics in that case.
type Document struct {
	RawText string
	Lines   []string
	Layout  *layout.Layout

	// BackendConfidence is the engine's overall confidence, 0-100.
	BackendConfidence float64
}

// NewDocument builds the extraction view over a recognition result. A zero
// token sequence degrades layout-aware extraction instead of failing.
func NewDocument(res *recognize.RecognitionResult) *Document {
	doc := &Document{
		RawText:           res.RawText,
		BackendConfidence: res.OverallConfidence,
	}

	for _, line := range strings.Split(res.RawText, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			doc.Lines = append(doc.Lines, line)
		}
	}

	l, err := layout.Analyze(res.Tokens)
	if err == nil {
		doc.Layout = l
	} else if !errors.Is(err, layout.ErrLayoutUnavailable) {
		// Only the recoverable zero-token condition is expected here.
		doc.Layout = nil
	}

	return doc
}

// HasLayout reports whether spatial hints are available.
func (d *Document) HasLayout() bool {
	return d.Layout != nil
}

// RegionTexts returns the scannable text regions: the three vertical bands
// when layout is available, otherwise every raw line.
func (d *Document) RegionTexts() []string {
	if d.Layout == nil {
		return d.Lines
	}
	return []string{
		d.Layout.RegionText(layout.BandTop),
		d.Layout.RegionText(layout.BandMiddle),
		d.Layout.RegionText(layout.BandBottom),
	}
}
