package recognize

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Backend is the uniform contract over recognition engines. Implementations
// must return a fully populated RecognitionResult or a *BackendError.
type Backend interface {
	// Kind identifies the engine for diagnostics and usage accounting.
	Kind() BackendKind

	// Recognize runs text recognition on a single card image. The result is
	// immutable once returned.
	Recognize(ctx context.Context, img CardImage) (*RecognitionResult, error)
}

// FactoryConfig contains the settings shared by all backend constructors.
type FactoryConfig struct {
	// APIKey authorizes the cloud engine. Empty means the cloud engine is
	// unusable and the factory will refuse to build it.
	APIKey string

	// Model is the cloud vision model identifier. Empty selects a default.
	Model string

	// BaseURL overrides the cloud endpoint (tests).
	BaseURL string

	// HTTPClient overrides the cloud transport (tests).
	HTTPClient *http.Client

	// Languages passed to the local engine. Empty means engine default.
	Languages []string

	// LocalTimeout bounds a single local-engine recognition.
	LocalTimeout time.Duration

	// MaxRetries bounds transient-network retries in the cloud engine.
	MaxRetries int
}

// Factory builds recognition backends from a closed set of kinds.
type Factory struct {
	config FactoryConfig
}

// NewFactory creates a backend factory with the given configuration.
func NewFactory(config FactoryConfig) *Factory {
	if config.LocalTimeout <= 0 {
		config.LocalTimeout = 30 * time.Second
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	return &Factory{config: config}
}

// Create instantiates the backend of the given kind.
func (f *Factory) Create(kind BackendKind) (Backend, error) {
	switch kind {
	case BackendCloud:
		if f.config.APIKey == "" {
			return nil, NewBackendError(BackendCloud, ErrAuthMissing, "create",
				fmt.Errorf("no API key configured"))
		}
		return newCloudBackend(f.config), nil
	case BackendLocal:
		return newTesseractBackend(f.config), nil
	case BackendPDFCard:
		return newPDFCardBackend(), nil
	default:
		return nil, fmt.Errorf("unknown backend kind: %s", kind)
	}
}

// SupportedKinds returns all backend kinds this factory can build.
func (f *Factory) SupportedKinds() []BackendKind {
	return []BackendKind{BackendCloud, BackendLocal, BackendPDFCard}
}

// HasCloudCredentials reports whether the cloud engine can be constructed.
func (f *Factory) HasCloudCredentials() bool {
	return f.config.APIKey != ""
}
