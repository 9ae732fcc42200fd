package recognize

import (
	"fmt"
	"path/filepath"
	"strings"
)

// BackendKind identifies a recognition engine behind the Backend interface.
type BackendKind string

const (
	BackendCloud   BackendKind = "cloud"
	BackendLocal   BackendKind = "local"
	BackendPDFCard BackendKind = "pdfcard"
)

// IsValid checks if the backend kind is one of the known engines.
func (k BackendKind) IsValid() bool {
	switch k {
	case BackendCloud, BackendLocal, BackendPDFCard:
		return true
	default:
		return false
	}
}

// BoundingBox is an axis-aligned token box in image coordinates, Y growing
// downward (top of the card has the smallest Y).
type BoundingBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the box, a proxy for glyph height.
func (b BoundingBox) Height() float64 {
	return b.Y1 - b.Y0
}

// CenterY returns the vertical center of the box.
func (b BoundingBox) CenterY() float64 {
	return (b.Y0 + b.Y1) / 2
}

// Token is a single recognized text unit with its box and confidence.
type Token struct {
	Text       string      `json:"text"`
	Box        BoundingBox `json:"box"`
	Confidence float64     `json:"confidence"` // 0-100
}

// RecognitionResult is the immutable output of one backend invocation.
type RecognitionResult struct {
	RawText           string      `json:"raw_text"`
	Tokens            []Token     `json:"tokens"`
	OverallConfidence float64     `json:"overall_confidence"` // 0-100
	Backend           BackendKind `json:"backend"`
}

// CardImage is the pipeline input: the raw bytes of a photographed or
// digitally produced card, plus enough metadata to route it.
type CardImage struct {
	Path   string `json:"path,omitempty"`
	Data   []byte `json:"-"`
	Format string `json:"format"` // "png", "jpeg", "pdf", ...
}

// IsPDF reports whether the input is a digital-card PDF rather than a photo.
func (c CardImage) IsPDF() bool {
	if strings.EqualFold(c.Format, "pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(c.Path), ".pdf")
}

// Validate performs basic input checks before any backend is invoked.
func (c CardImage) Validate(maxSize int64) error {
	if len(c.Data) == 0 {
		return fmt.Errorf("card image has no data")
	}
	if maxSize > 0 && int64(len(c.Data)) > maxSize {
		return fmt.Errorf("card image size %d exceeds maximum %d", len(c.Data), maxSize)
	}
	return nil
}
