package extract

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mehanshivam/visitingcard/internal/recognize"
)

// backendFactory builds backends from kinds; satisfied by recognize.Factory.
type backendFactory interface {
	Create(kind recognize.BackendKind) (recognize.Backend, error)
	HasCloudCredentials() bool
}

// OrchestratorConfig holds the orchestrator's resource-state inputs.
type OrchestratorConfig struct {
	// ForcedOffline pins strategy selection to the local engine.
	ForcedOffline bool

	// QuotaCeiling caps cloud invocations per process lifetime; zero means
	// unlimited.
	QuotaCeiling int64
}

// Orchestrator selects a backend per request, invokes it with automatic
// fallback, and owns the usage accounting. A single instance is safe for
// concurrent extraction calls.
type Orchestrator struct {
	config  OrchestratorConfig
	factory backendFactory
	probe   reachabilityProbe
	usage   *UsageState
	logger  *log.Logger
}

// NewOrchestrator creates a strategy orchestrator.
func NewOrchestrator(config OrchestratorConfig, factory backendFactory, probe reachabilityProbe, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		config:  config,
		factory: factory,
		probe:   probe,
		usage:   NewUsageState(),
		logger:  logger,
	}
}

// Usage exposes the orchestrator-owned usage state for analytics queries.
func (o *Orchestrator) Usage() *UsageState {
	return o.usage
}

// Recommend re-evaluates the selection precedence without recognizing
// anything. It serves the diagnostics/health query.
func (o *Orchestrator) Recommend(ctx context.Context) Strategy {
	return decideStrategy(ctx, o.config.ForcedOffline, o.factory.HasCloudCredentials(),
		o.config.QuotaCeiling, o.usage, o.probe)
}

// Outcome reports which backend produced a recognition and whether the
// fallback fired.
type Outcome struct {
	Strategy     Strategy
	Backend      recognize.BackendKind
	FallbackUsed bool
	Elapsed      time.Duration
}

// Recognize runs one image through the selected backend, retrying once on the
// fallback when the primary fails. Backends are never raced in parallel: the
// sequential order is a deliberate cost and quota control.
func (o *Orchestrator) Recognize(ctx context.Context, img recognize.CardImage, extractionID string) (*recognize.RecognitionResult, Outcome, error) {
	started := time.Now()

	strategy := o.strategyFor(ctx, img)
	outcome := Outcome{Strategy: strategy}

	result, err := o.invoke(ctx, strategy.Primary, img, extractionID)
	if err == nil {
		outcome.Backend = strategy.Primary
		outcome.Elapsed = time.Since(started)
		return result, outcome, nil
	}

	o.logger.Printf("primary backend %s failed (%s): %v", strategy.Primary, recognize.KindOf(err), err)

	if !strategy.HasFallback() {
		outcome.Elapsed = time.Since(started)
		return nil, outcome, err
	}

	result, fbErr := o.invoke(ctx, strategy.Fallback, img, extractionID)
	if fbErr != nil {
		o.logger.Printf("fallback backend %s failed (%s): %v", strategy.Fallback, recognize.KindOf(fbErr), fbErr)
		outcome.Elapsed = time.Since(started)
		// The fallback error is terminal; the primary failure stays in the
		// usage log.
		return nil, outcome, fbErr
	}

	outcome.Backend = strategy.Fallback
	outcome.FallbackUsed = true
	outcome.Elapsed = time.Since(started)
	return result, outcome, nil
}

// strategyFor picks the backend chain for one input. Digital-card PDFs route
// to the text-layer backend directly, with the regular chain's primary as
// fallback for PDFs that turn out to be flattened scans.
func (o *Orchestrator) strategyFor(ctx context.Context, img recognize.CardImage) Strategy {
	base := decideStrategy(ctx, o.config.ForcedOffline, o.factory.HasCloudCredentials(),
		o.config.QuotaCeiling, o.usage, o.probe)

	if img.IsPDF() {
		return Strategy{
			Primary:  recognize.BackendPDFCard,
			Fallback: base.Primary,
			Reason:   "digital-card PDF: text layer first, " + base.Reason,
		}
	}
	return base
}

// invoke runs a single backend attempt and updates the usage state.
func (o *Orchestrator) invoke(ctx context.Context, kind recognize.BackendKind, img recognize.CardImage, extractionID string) (*recognize.RecognitionResult, error) {
	backend, err := o.factory.Create(kind)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", kind, err)
	}

	o.usage.RecordInvocation(kind)
	started := time.Now()
	result, err := backend.Recognize(ctx, img)
	elapsed := time.Since(started)

	o.usage.RecordTiming(TimingSample{
		Backend:      kind,
		ElapsedMS:    elapsed.Milliseconds(),
		ExtractionID: extractionID,
		At:           time.Now().UTC(),
	})
	if err != nil {
		o.usage.RecordError(ErrorSample{
			Backend:      kind,
			Kind:         recognize.KindOf(err),
			Message:      err.Error(),
			ExtractionID: extractionID,
			At:           time.Now().UTC(),
		})
		return nil, err
	}
	return result, nil
}
