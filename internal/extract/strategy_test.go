package extract

import (
	"context"
	"testing"

	"github.com/mehanshivam/visitingcard/internal/recognize"
)

type fakeProbe struct {
	reachable bool
	calls     int
}

func (p *fakeProbe) Reachable(_ context.Context) bool {
	p.calls++
	return p.reachable
}

func TestDecideStrategyPrecedence(t *testing.T) {
	tests := []struct {
		name          string
		forcedOffline bool
		hasCreds      bool
		quotaCeiling  int64
		cloudUsed     int64
		reachable     bool
		wantPrimary   recognize.BackendKind
		wantFallback  recognize.BackendKind
		wantReason    string
	}{
		{
			name:          "forced offline wins over everything",
			forcedOffline: true,
			hasCreds:      true,
			reachable:     true,
			wantPrimary:   recognize.BackendLocal,
			wantReason:    "offline mode forced by configuration",
		},
		{
			name:        "missing credentials",
			hasCreds:    false,
			reachable:   true,
			wantPrimary: recognize.BackendLocal,
			wantReason:  "cloud credentials not configured",
		},
		{
			name:        "network unreachable",
			hasCreds:    true,
			reachable:   false,
			wantPrimary: recognize.BackendLocal,
			wantReason:  "cloud endpoint unreachable",
		},
		{
			name:         "quota exhausted",
			hasCreds:     true,
			reachable:    true,
			quotaCeiling: 5,
			cloudUsed:    5,
			wantPrimary:  recognize.BackendLocal,
			wantReason:   "cloud quota exhausted for this period",
		},
		{
			name:         "default cloud primary with local fallback",
			hasCreds:     true,
			reachable:    true,
			quotaCeiling: 5,
			cloudUsed:    4,
			wantPrimary:  recognize.BackendCloud,
			wantFallback: recognize.BackendLocal,
			wantReason:   "default: cloud primary with local fallback",
		},
		{
			name:         "zero ceiling means unlimited",
			hasCreds:     true,
			reachable:    true,
			cloudUsed:    1000,
			wantPrimary:  recognize.BackendCloud,
			wantFallback: recognize.BackendLocal,
			wantReason:   "default: cloud primary with local fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usage := NewUsageState()
			for i := int64(0); i < tt.cloudUsed; i++ {
				usage.RecordInvocation(recognize.BackendCloud)
			}

			probe := &fakeProbe{reachable: tt.reachable}
			s := decideStrategy(context.Background(), tt.forcedOffline, tt.hasCreds,
				tt.quotaCeiling, usage, probe)

			if s.Primary != tt.wantPrimary {
				t.Errorf("expected primary %s, got %s", tt.wantPrimary, s.Primary)
			}
			if s.Fallback != tt.wantFallback {
				t.Errorf("expected fallback %q, got %q", tt.wantFallback, s.Fallback)
			}
			if s.Reason != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, s.Reason)
			}
		})
	}
}

func TestDecideStrategySkipsProbeWhenOffline(t *testing.T) {
	probe := &fakeProbe{reachable: true}
	decideStrategy(context.Background(), true, true, 0, NewUsageState(), probe)
	if probe.calls != 0 {
		t.Errorf("expected no probe call under forced offline, got %d", probe.calls)
	}
}

func TestDecideStrategySkipsProbeWithoutCredentials(t *testing.T) {
	probe := &fakeProbe{reachable: true}
	decideStrategy(context.Background(), false, false, 0, NewUsageState(), probe)
	if probe.calls != 0 {
		t.Errorf("expected no probe call without credentials, got %d", probe.calls)
	}
}

func TestStrategyHasFallback(t *testing.T) {
	s := Strategy{Primary: recognize.BackendCloud, Fallback: recognize.BackendLocal}
	if !s.HasFallback() {
		t.Error("expected HasFallback true")
	}
	if (Strategy{Primary: recognize.BackendLocal}).HasFallback() {
		t.Error("expected HasFallback false without a fallback")
	}
}
