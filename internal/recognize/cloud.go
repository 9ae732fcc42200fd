package recognize

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const cloudDefaultModel = openai.ChatModelGPT4o

// ocrResponseSchema constrains the structured payload the vision model must
// return. A payload that fails validation is a MalformedResponse, which lets
// the orchestrator fall back to the local engine.
const ocrResponseSchema = `{
	"type": "object",
	"required": ["raw_text", "words"],
	"properties": {
		"raw_text": {"type": "string"},
		"confidence": {"type": "number", "minimum": 0, "maximum": 100},
		"words": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["text", "x0", "y0", "x1", "y1"],
				"properties": {
					"text": {"type": "string"},
					"x0": {"type": "number"},
					"y0": {"type": "number"},
					"x1": {"type": "number"},
					"y1": {"type": "number"},
					"confidence": {"type": "number", "minimum": 0, "maximum": 100}
				}
			}
		}
	}
}`

const cloudPrompt = `Transcribe every piece of text on this business card. Respond with a single JSON object:
{"raw_text": "<all text, one line per card line>", "confidence": <0-100>, "words": [{"text": "<word>", "x0": <left>, "y0": <top>, "x1": <right>, "y1": <bottom>, "confidence": <0-100>}]}
Coordinates are relative to a 1000x1000 grid with the origin at the top-left corner. Output only the JSON object, no commentary.`

var compiledOCRSchema = jsonschema.MustCompileString("ocr_response.json", ocrResponseSchema)

// cloudBackend performs recognition through the hosted vision model. It is
// the high-accuracy path, gated by credentials, quota, and reachability.
type cloudBackend struct {
	client     openai.Client
	model      string
	maxRetries int
}

func newCloudBackend(config FactoryConfig) *cloudBackend {
	model := config.Model
	if model == "" {
		model = cloudDefaultModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		// SDK-level retries stay off; transient handling lives in Recognize
		// so that error classification sees the raw failure.
		option.WithMaxRetries(0),
	}
	if config.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(config.HTTPClient))
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &cloudBackend{
		client:     openai.NewClient(opts...),
		model:      model,
		maxRetries: config.MaxRetries,
	}
}

func (b *cloudBackend) Kind() BackendKind {
	return BackendCloud
}

// Recognize submits the card image and parses the structured transcription.
// Transient network failures are retried a bounded number of times; auth and
// quota failures are terminal for this backend and surface immediately.
func (b *cloudBackend) Recognize(ctx context.Context, img CardImage) (*RecognitionResult, error) {
	if err := img.Validate(0); err != nil {
		return nil, NewBackendError(BackendCloud, ErrMalformedResponse, "recognize", err)
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType(img), base64.StdEncoding.EncodeToString(img.Data))

	var content string
	err := retry.Do(
		func() error {
			resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
				Model: openai.ChatModel(b.model),
				Messages: []openai.ChatCompletionMessageParamUnion{
					openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
						openai.TextContentPart(cloudPrompt),
						openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
							URL: dataURL,
						}),
					}),
				},
			})
			if err != nil {
				return b.classify(err)
			}
			if len(resp.Choices) == 0 {
				return NewBackendError(BackendCloud, ErrMalformedResponse, "completion",
					fmt.Errorf("response contained no choices"))
			}
			content = resp.Choices[0].Message.Content
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(b.maxRetries)),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return KindOf(err) == ErrNetwork
		}),
	)
	if err != nil {
		var be *BackendError
		if errors.As(err, &be) {
			return nil, be
		}
		return nil, NewBackendError(BackendCloud, KindOf(err), "completion", err)
	}

	return b.parse(content)
}

// classify maps SDK errors onto the backend error kinds the orchestrator
// understands.
func (b *cloudBackend) classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return NewBackendError(BackendCloud, ErrAuthMissing, "completion", err)
		case http.StatusTooManyRequests:
			return NewBackendError(BackendCloud, ErrQuotaExceeded, "completion", err)
		default:
			return NewBackendError(BackendCloud, ErrNetwork, "completion", err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewBackendError(BackendCloud, ErrTimeout, "completion", err)
	}
	return NewBackendError(BackendCloud, ErrNetwork, "completion", err)
}

type cloudWord struct {
	Text       string  `json:"text"`
	X0         float64 `json:"x0"`
	Y0         float64 `json:"y0"`
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	Confidence float64 `json:"confidence"`
}

type cloudPayload struct {
	RawText    string      `json:"raw_text"`
	Confidence float64     `json:"confidence"`
	Words      []cloudWord `json:"words"`
}

func (b *cloudBackend) parse(content string) (*RecognitionResult, error) {
	trimmed := stripCodeFence(content)

	var generic interface{}
	if err := json.Unmarshal([]byte(trimmed), &generic); err != nil {
		return nil, NewBackendError(BackendCloud, ErrMalformedResponse, "parse",
			fmt.Errorf("response is not valid JSON: %w", err))
	}
	if err := compiledOCRSchema.Validate(generic); err != nil {
		return nil, NewBackendError(BackendCloud, ErrMalformedResponse, "parse",
			fmt.Errorf("response violates OCR schema: %w", err))
	}

	var payload cloudPayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return nil, NewBackendError(BackendCloud, ErrMalformedResponse, "parse", err)
	}

	tokens := make([]Token, 0, len(payload.Words))
	for _, w := range payload.Words {
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}
		conf := w.Confidence
		if conf == 0 {
			conf = payload.Confidence
		}
		tokens = append(tokens, Token{
			Text:       text,
			Box:        BoundingBox{X0: w.X0, Y0: w.Y0, X1: w.X1, Y1: w.Y1},
			Confidence: conf,
		})
	}

	return &RecognitionResult{
		RawText:           strings.TrimSpace(payload.RawText),
		Tokens:            tokens,
		OverallConfidence: payload.Confidence,
		Backend:           BackendCloud,
	}, nil
}

// stripCodeFence removes a markdown fence the model sometimes wraps around
// JSON despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func mimeType(img CardImage) string {
	switch strings.ToLower(img.Format) {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
