package extract

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/mehanshivam/visitingcard/internal/recognize"
)

type fakeBackend struct {
	kind   recognize.BackendKind
	result *recognize.RecognitionResult
	err    error
	calls  int
}

func (b *fakeBackend) Kind() recognize.BackendKind { return b.kind }

func (b *fakeBackend) Recognize(_ context.Context, _ recognize.CardImage) (*recognize.RecognitionResult, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return b.result, nil
}

type fakeFactory struct {
	backends map[recognize.BackendKind]*fakeBackend
	creds    bool
}

func (f *fakeFactory) Create(kind recognize.BackendKind) (recognize.Backend, error) {
	b, ok := f.backends[kind]
	if !ok {
		return nil, errors.New("unknown backend")
	}
	return b, nil
}

func (f *fakeFactory) HasCloudCredentials() bool { return f.creds }

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func textResult(kind recognize.BackendKind, text string) *recognize.RecognitionResult {
	return &recognize.RecognitionResult{RawText: text, OverallConfidence: 90, Backend: kind}
}

func newTestOrchestrator(cfg OrchestratorConfig, factory *fakeFactory, reachable bool) *Orchestrator {
	return NewOrchestrator(cfg, factory, &fakeProbe{reachable: reachable}, quietLogger())
}

func jpegImage() recognize.CardImage {
	return recognize.CardImage{Path: "card.jpg", Data: []byte("img"), Format: "jpeg"}
}

func TestOrchestratorPrimarySuccess(t *testing.T) {
	cloud := &fakeBackend{kind: recognize.BackendCloud, result: textResult(recognize.BackendCloud, "hello")}
	local := &fakeBackend{kind: recognize.BackendLocal, result: textResult(recognize.BackendLocal, "hello")}
	factory := &fakeFactory{creds: true, backends: map[recognize.BackendKind]*fakeBackend{
		recognize.BackendCloud: cloud,
		recognize.BackendLocal: local,
	}}
	o := newTestOrchestrator(OrchestratorConfig{}, factory, true)

	result, outcome, err := o.Recognize(context.Background(), jpegImage(), "id-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RawText != "hello" {
		t.Errorf("unexpected result text '%s'", result.RawText)
	}
	if outcome.Backend != recognize.BackendCloud {
		t.Errorf("expected cloud backend, got %s", outcome.Backend)
	}
	if outcome.FallbackUsed {
		t.Error("expected no fallback")
	}
	if local.calls != 0 {
		t.Errorf("expected local untouched, got %d calls", local.calls)
	}
	if got := o.Usage().Count(recognize.BackendCloud); got != 1 {
		t.Errorf("expected 1 cloud invocation recorded, got %d", got)
	}
}

func TestOrchestratorFallbackOnPrimaryError(t *testing.T) {
	cloud := &fakeBackend{kind: recognize.BackendCloud,
		err: recognize.NewBackendError(recognize.BackendCloud, recognize.ErrNetwork, "recognize", errors.New("dial tcp"))}
	local := &fakeBackend{kind: recognize.BackendLocal, result: textResult(recognize.BackendLocal, "rescued")}
	factory := &fakeFactory{creds: true, backends: map[recognize.BackendKind]*fakeBackend{
		recognize.BackendCloud: cloud,
		recognize.BackendLocal: local,
	}}
	o := newTestOrchestrator(OrchestratorConfig{}, factory, true)

	result, outcome, err := o.Recognize(context.Background(), jpegImage(), "id-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RawText != "rescued" {
		t.Errorf("expected the fallback result, got '%s'", result.RawText)
	}
	if !outcome.FallbackUsed {
		t.Error("expected FallbackUsed")
	}
	if outcome.Backend != recognize.BackendLocal {
		t.Errorf("expected local backend, got %s", outcome.Backend)
	}

	snap := o.Usage().Snapshot()
	if snap.CloudCount != 1 || snap.LocalCount != 1 {
		t.Errorf("expected both invocations counted, got cloud=%d local=%d", snap.CloudCount, snap.LocalCount)
	}
	if len(snap.Errors) != 1 || snap.Errors[0].Kind != recognize.ErrNetwork {
		t.Errorf("expected one network error sample, got %+v", snap.Errors)
	}
	if len(snap.Timings) != 2 {
		t.Errorf("expected a timing sample per attempt, got %d", len(snap.Timings))
	}
}

func TestOrchestratorBothBackendsFail(t *testing.T) {
	cloudErr := recognize.NewBackendError(recognize.BackendCloud, recognize.ErrQuotaExceeded, "recognize", errors.New("429"))
	localErr := recognize.NewBackendError(recognize.BackendLocal, recognize.ErrTimeout, "recognize", errors.New("deadline"))
	factory := &fakeFactory{creds: true, backends: map[recognize.BackendKind]*fakeBackend{
		recognize.BackendCloud: {kind: recognize.BackendCloud, err: cloudErr},
		recognize.BackendLocal: {kind: recognize.BackendLocal, err: localErr},
	}}
	o := newTestOrchestrator(OrchestratorConfig{}, factory, true)

	_, _, err := o.Recognize(context.Background(), jpegImage(), "id-3")
	if !errors.Is(err, localErr) {
		t.Errorf("expected the fallback error to be terminal, got %v", err)
	}
	if snap := o.Usage().Snapshot(); len(snap.Errors) != 2 {
		t.Errorf("expected both failures logged, got %d", len(snap.Errors))
	}
}

func TestOrchestratorLocalOnlyNoFallback(t *testing.T) {
	localErr := recognize.NewBackendError(recognize.BackendLocal, recognize.ErrTimeout, "recognize", errors.New("deadline"))
	factory := &fakeFactory{creds: false, backends: map[recognize.BackendKind]*fakeBackend{
		recognize.BackendLocal: {kind: recognize.BackendLocal, err: localErr},
	}}
	o := newTestOrchestrator(OrchestratorConfig{}, factory, true)

	_, outcome, err := o.Recognize(context.Background(), jpegImage(), "id-4")
	if !errors.Is(err, localErr) {
		t.Errorf("expected the local error, got %v", err)
	}
	if outcome.Strategy.HasFallback() {
		t.Error("expected a local-only strategy without credentials")
	}
}

func TestOrchestratorQuotaSwitchesToLocal(t *testing.T) {
	cloud := &fakeBackend{kind: recognize.BackendCloud, result: textResult(recognize.BackendCloud, "cloud")}
	local := &fakeBackend{kind: recognize.BackendLocal, result: textResult(recognize.BackendLocal, "local")}
	factory := &fakeFactory{creds: true, backends: map[recognize.BackendKind]*fakeBackend{
		recognize.BackendCloud: cloud,
		recognize.BackendLocal: local,
	}}
	o := newTestOrchestrator(OrchestratorConfig{QuotaCeiling: 1}, factory, true)

	if _, outcome, err := o.Recognize(context.Background(), jpegImage(), "a"); err != nil || outcome.Backend != recognize.BackendCloud {
		t.Fatalf("expected first request on cloud, got backend=%s err=%v", outcome.Backend, err)
	}
	if _, outcome, err := o.Recognize(context.Background(), jpegImage(), "b"); err != nil || outcome.Backend != recognize.BackendLocal {
		t.Fatalf("expected second request on local after quota, got backend=%s err=%v", outcome.Backend, err)
	}
}

func TestOrchestratorRoutesPDFToTextLayer(t *testing.T) {
	pdfcard := &fakeBackend{kind: recognize.BackendPDFCard, result: textResult(recognize.BackendPDFCard, "digital")}
	factory := &fakeFactory{creds: true, backends: map[recognize.BackendKind]*fakeBackend{
		recognize.BackendPDFCard: pdfcard,
	}}
	o := newTestOrchestrator(OrchestratorConfig{}, factory, true)

	img := recognize.CardImage{Path: "card.pdf", Data: []byte("%PDF"), Format: "pdf"}
	result, outcome, err := o.Recognize(context.Background(), img, "id-5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Backend != recognize.BackendPDFCard {
		t.Errorf("expected the text-layer backend, got %s", outcome.Backend)
	}
	if result.RawText != "digital" {
		t.Errorf("unexpected text '%s'", result.RawText)
	}
	if !outcome.Strategy.HasFallback() {
		t.Error("expected the regular primary as fallback for scanned PDFs")
	}
}

func TestOrchestratorFallsBackWhenPDFTextLayerEmpty(t *testing.T) {
	pdfcard := &fakeBackend{kind: recognize.BackendPDFCard,
		err: recognize.NewBackendError(recognize.BackendPDFCard, recognize.ErrMalformedResponse,
			"text-layer", errors.New("first page has no text layer"))}
	local := &fakeBackend{kind: recognize.BackendLocal, result: textResult(recognize.BackendLocal, "scanned")}
	factory := &fakeFactory{creds: false, backends: map[recognize.BackendKind]*fakeBackend{
		recognize.BackendPDFCard: pdfcard,
		recognize.BackendLocal:   local,
	}}
	o := newTestOrchestrator(OrchestratorConfig{}, factory, true)

	img := recognize.CardImage{Path: "scan.pdf", Data: []byte("%PDF"), Format: "pdf"}
	result, outcome, err := o.Recognize(context.Background(), img, "id-6")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.FallbackUsed {
		t.Error("expected the optical chain to rescue a flattened scan")
	}
	if outcome.Backend != recognize.BackendLocal {
		t.Errorf("expected the local backend, got %s", outcome.Backend)
	}
	if result.RawText != "scanned" {
		t.Errorf("unexpected text '%s'", result.RawText)
	}
	if snap := o.Usage().Snapshot(); len(snap.Errors) != 1 || snap.Errors[0].Kind != recognize.ErrMalformedResponse {
		t.Errorf("expected one malformed-response sample, got %+v", snap.Errors)
	}
}

func TestOrchestratorRecommend(t *testing.T) {
	factory := &fakeFactory{creds: false}
	o := newTestOrchestrator(OrchestratorConfig{}, factory, true)

	s := o.Recommend(context.Background())
	if s.Primary != recognize.BackendLocal {
		t.Errorf("expected local recommendation without credentials, got %s", s.Primary)
	}
	if s.Reason != "cloud credentials not configured" {
		t.Errorf("unexpected reason '%s'", s.Reason)
	}
}
