package recognize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// tesseractBackend runs the local Tesseract engine through gosseract. It is
// the offline path: no credentials, no quota, bounded only by a hard timeout.
type tesseractBackend struct {
	languages     []string
	timeout       time.Duration
	clientFactory func() *gosseract.Client
}

func newTesseractBackend(config FactoryConfig) *tesseractBackend {
	return &tesseractBackend{
		languages:     config.Languages,
		timeout:       config.LocalTimeout,
		clientFactory: gosseract.NewClient,
	}
}

func (b *tesseractBackend) Kind() BackendKind {
	return BackendLocal
}

// Recognize runs OCR on the image bytes. The engine call itself is not
// abortable once issued; exceeding the timeout abandons the attempt and
// surfaces a Timeout error while the goroutine drains in the background.
func (b *tesseractBackend) Recognize(ctx context.Context, img CardImage) (*RecognitionResult, error) {
	if err := img.Validate(0); err != nil {
		return nil, NewBackendError(BackendLocal, ErrMalformedResponse, "recognize", err)
	}

	type outcome struct {
		result *RecognitionResult
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		res, err := b.recognizeBlocking(img)
		done <- outcome{result: res, err: err}
	}()

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		return nil, NewBackendError(BackendLocal, ErrTimeout, "recognize", ctx.Err())
	case <-timer.C:
		return nil, NewBackendError(BackendLocal, ErrTimeout, "recognize",
			fmt.Errorf("local recognition exceeded %s", b.timeout))
	}
}

func (b *tesseractBackend) recognizeBlocking(img CardImage) (*RecognitionResult, error) {
	client := b.clientFactory()
	defer client.Close()

	if err := client.SetImageFromBytes(img.Data); err != nil {
		return nil, NewBackendError(BackendLocal, ErrMalformedResponse, "set_image", err)
	}
	if len(b.languages) > 0 {
		if err := client.SetLanguage(b.languages...); err != nil {
			return nil, NewBackendError(BackendLocal, ErrMalformedResponse, "set_language", err)
		}
	}

	text, err := client.Text()
	if err != nil {
		return nil, NewBackendError(BackendLocal, ErrMalformedResponse, "text", err)
	}

	tokens, overall := extractWordTokens(client)

	return &RecognitionResult{
		RawText:           strings.TrimSpace(text),
		Tokens:            tokens,
		OverallConfidence: overall,
		Backend:           BackendLocal,
	}, nil
}

// extractWordTokens pulls word-level boxes out of the engine. A failure here
// degrades to token-free output rather than failing recognition; downstream
// layout analysis knows how to cope with zero tokens.
func extractWordTokens(client *gosseract.Client) ([]Token, float64) {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return nil, 0
	}

	tokens := make([]Token, 0, len(boxes))
	var sum float64
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if word == "" {
			continue
		}
		sum += box.Confidence
		tokens = append(tokens, Token{
			Text: word,
			Box: BoundingBox{
				X0: float64(box.Box.Min.X),
				Y0: float64(box.Box.Min.Y),
				X1: float64(box.Box.Max.X),
				Y1: float64(box.Box.Max.Y),
			},
			Confidence: box.Confidence,
		})
	}

	if len(tokens) == 0 {
		return nil, 0
	}
	return tokens, sum / float64(len(tokens))
}
