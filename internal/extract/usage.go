package extract

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mehanshivam/visitingcard/internal/recognize"
)

const (
	maxErrorSamples  = 50
	maxTimingSamples = 100
)

// ErrorSample is one recorded backend failure.
type ErrorSample struct {
	Backend      recognize.BackendKind `json:"backend"`
	Kind         recognize.ErrorKind   `json:"kind"`
	Message      string                `json:"message"`
	ExtractionID string                `json:"extraction_id"`
	At           time.Time             `json:"at"`
}

// TimingSample is one recorded backend invocation time.
type TimingSample struct {
	Backend      recognize.BackendKind `json:"backend"`
	ElapsedMS    int64                 `json:"elapsed_ms"`
	ExtractionID string                `json:"extraction_id"`
	At           time.Time             `json:"at"`
}

// UsageState holds the orchestrator's process-lifetime counters. Counters are
// atomic; the bounded sample logs evict their oldest entries under a single
// mutex. State is cleared only by an explicit Reset.
type UsageState struct {
	cloudCount   atomic.Int64
	localCount   atomic.Int64
	pdfCardCount atomic.Int64

	mu      sync.Mutex
	errors  []ErrorSample
	timings []TimingSample
}

// NewUsageState creates empty usage accounting.
func NewUsageState() *UsageState {
	return &UsageState{}
}

// RecordInvocation increments the per-backend counter.
func (u *UsageState) RecordInvocation(backend recognize.BackendKind) {
	switch backend {
	case recognize.BackendCloud:
		u.cloudCount.Add(1)
	case recognize.BackendLocal:
		u.localCount.Add(1)
	case recognize.BackendPDFCard:
		u.pdfCardCount.Add(1)
	}
}

// Count returns the invocation count for one backend.
func (u *UsageState) Count(backend recognize.BackendKind) int64 {
	switch backend {
	case recognize.BackendCloud:
		return u.cloudCount.Load()
	case recognize.BackendLocal:
		return u.localCount.Load()
	case recognize.BackendPDFCard:
		return u.pdfCardCount.Load()
	default:
		return 0
	}
}

// RecordError appends a bounded error sample, evicting the oldest entry past
// the cap.
func (u *UsageState) RecordError(sample ErrorSample) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.errors = append(u.errors, sample)
	if len(u.errors) > maxErrorSamples {
		u.errors = u.errors[len(u.errors)-maxErrorSamples:]
	}
}

// RecordTiming appends a bounded timing sample, evicting the oldest entry
// past the cap.
func (u *UsageState) RecordTiming(sample TimingSample) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.timings = append(u.timings, sample)
	if len(u.timings) > maxTimingSamples {
		u.timings = u.timings[len(u.timings)-maxTimingSamples:]
	}
}

// UsageSnapshot is a read-only copy of the usage state.
type UsageSnapshot struct {
	CloudCount   int64          `json:"cloud_count"`
	LocalCount   int64          `json:"local_count"`
	PDFCardCount int64          `json:"pdfcard_count"`
	Errors       []ErrorSample  `json:"errors"`
	Timings      []TimingSample `json:"timings"`
}

// Snapshot copies the current state for the analytics query.
func (u *UsageState) Snapshot() UsageSnapshot {
	u.mu.Lock()
	defer u.mu.Unlock()

	snap := UsageSnapshot{
		CloudCount:   u.cloudCount.Load(),
		LocalCount:   u.localCount.Load(),
		PDFCardCount: u.pdfCardCount.Load(),
		Errors:       make([]ErrorSample, len(u.errors)),
		Timings:      make([]TimingSample, len(u.timings)),
	}
	copy(snap.Errors, u.errors)
	copy(snap.Timings, u.timings)
	return snap
}

// Reset clears all counters and samples.
func (u *UsageState) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.cloudCount.Store(0)
	u.localCount.Store(0)
	u.pdfCardCount.Store(0)
	u.errors = nil
	u.timings = nil
}
