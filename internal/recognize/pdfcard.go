package recognize

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfCardBackend reads the text layer of a digitally produced card PDF. No
// optical recognition happens here: positions come straight from the PDF
// content stream, so token confidence is always 100.
type pdfCardBackend struct{}

func newPDFCardBackend() *pdfCardBackend {
	return &pdfCardBackend{}
}

func (b *pdfCardBackend) Kind() BackendKind {
	return BackendPDFCard
}

// Recognize validates the PDF with pdfcpu, then extracts positioned text from
// the first page. Multi-page files are accepted but only the first page is a
// card face.
func (b *pdfCardBackend) Recognize(ctx context.Context, img CardImage) (*RecognitionResult, error) {
	if err := img.Validate(0); err != nil {
		return nil, NewBackendError(BackendPDFCard, ErrMalformedResponse, "recognize", err)
	}
	select {
	case <-ctx.Done():
		return nil, NewBackendError(BackendPDFCard, ErrTimeout, "recognize", ctx.Err())
	default:
	}

	if err := b.validate(img.Data); err != nil {
		return nil, NewBackendError(BackendPDFCard, ErrMalformedResponse, "validate", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(img.Data), int64(len(img.Data)))
	if err != nil {
		return nil, NewBackendError(BackendPDFCard, ErrMalformedResponse, "open", err)
	}
	if reader.NumPage() < 1 {
		return nil, NewBackendError(BackendPDFCard, ErrMalformedResponse, "open",
			fmt.Errorf("PDF has no pages"))
	}

	page := reader.Page(1)
	if page.V.IsNull() {
		return nil, NewBackendError(BackendPDFCard, ErrMalformedResponse, "page",
			fmt.Errorf("first page is unreadable"))
	}

	tokens := b.extractTokens(page)
	if len(tokens) == 0 {
		// Flattened scans carry no text layer; that is a failure here, not an
		// empty result, so the caller can retry on the optical chain.
		return nil, NewBackendError(BackendPDFCard, ErrMalformedResponse, "text-layer",
			fmt.Errorf("first page has no text layer"))
	}
	return &RecognitionResult{
		RawText:           joinTokenLines(tokens),
		Tokens:            tokens,
		OverallConfidence: textLayerConfidence(tokens),
		Backend:           BackendPDFCard,
	}, nil
}

func (b *pdfCardBackend) validate(data []byte) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pdfCtx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := pdfCtx.EnsurePageCount(); err != nil {
		return fmt.Errorf("failed to ensure page count: %w", err)
	}
	return nil
}

// extractTokens merges per-glyph text fragments into word tokens with
// top-down boxes. PDF coordinates grow upward, so Y is flipped against the
// page height.
func (b *pdfCardBackend) extractTokens(page pdf.Page) []Token {
	defer func() {
		// The text layer of malformed producers can panic inside the
		// library; treat that the same as an empty layer.
		_ = recover()
	}()

	content := page.Content()
	if len(content.Text) == 0 {
		return nil
	}

	pageHeight := mediaBoxHeight(page)

	var tokens []Token
	var current strings.Builder
	var box BoundingBox
	var lastEnd, lastY, lastSize float64

	flush := func() {
		word := strings.TrimSpace(current.String())
		if word != "" {
			tokens = append(tokens, Token{Text: word, Box: box, Confidence: 100})
		}
		current.Reset()
	}

	for _, frag := range content.Text {
		if strings.TrimSpace(frag.S) == "" {
			flush()
			lastEnd = frag.X + frag.W
			continue
		}

		sameLine := current.Len() > 0 && absFloat(frag.Y-lastY) < lastSize*0.5
		adjacent := sameLine && frag.X-lastEnd < frag.FontSize*0.3

		if !adjacent {
			flush()
			box = BoundingBox{
				X0: frag.X,
				Y0: pageHeight - frag.Y - frag.FontSize,
				X1: frag.X + frag.W,
				Y1: pageHeight - frag.Y,
			}
		} else {
			box.X1 = frag.X + frag.W
		}

		current.WriteString(frag.S)
		lastEnd = frag.X + frag.W
		lastY = frag.Y
		lastSize = frag.FontSize
	}
	flush()

	return tokens
}

func mediaBoxHeight(page pdf.Page) float64 {
	mediaBox := page.V.Key("MediaBox")
	if mediaBox.IsNull() || mediaBox.Len() < 4 {
		return 792 // US Letter height in points
	}
	return mediaBox.Index(3).Float64()
}

// joinTokenLines rebuilds line-oriented raw text from positioned tokens,
// reading top to bottom and left to right.
func joinTokenLines(tokens []Token) string {
	if len(tokens) == 0 {
		return ""
	}

	ordered := make([]Token, len(tokens))
	copy(ordered, tokens)
	sort.SliceStable(ordered, func(i, j int) bool {
		if absFloat(ordered[i].Box.CenterY()-ordered[j].Box.CenterY()) > ordered[i].Box.Height()*0.6 {
			return ordered[i].Box.CenterY() < ordered[j].Box.CenterY()
		}
		return ordered[i].Box.X0 < ordered[j].Box.X0
	})

	var lines []string
	var line []string
	lineY := ordered[0].Box.CenterY()
	for _, t := range ordered {
		if absFloat(t.Box.CenterY()-lineY) > t.Box.Height()*0.6 && len(line) > 0 {
			lines = append(lines, strings.Join(line, " "))
			line = line[:0]
		}
		line = append(line, t.Text)
		lineY = t.Box.CenterY()
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, " "))
	}

	return strings.Join(lines, "\n")
}

func textLayerConfidence(tokens []Token) float64 {
	if len(tokens) == 0 {
		return 0
	}
	return 100
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
