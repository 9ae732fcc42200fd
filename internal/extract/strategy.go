package extract

import (
	"context"

	"github.com/mehanshivam/visitingcard/internal/recognize"
)

// Strategy is the per-request backend selection. It is recomputed for every
// request from the current resource state and never cached across requests.
type Strategy struct {
	Primary  recognize.BackendKind `json:"primary"`
	Fallback recognize.BackendKind `json:"fallback,omitempty"` // empty means no fallback
	Reason   string                `json:"reason"`
}

// HasFallback reports whether a secondary backend is configured.
func (s Strategy) HasFallback() bool {
	return s.Fallback != ""
}

// reachabilityProbe is the bounded network check used during selection.
type reachabilityProbe interface {
	Reachable(ctx context.Context) bool
}

// decideStrategy applies the fixed selection precedence:
// forced-offline > missing credentials > network unreachable > quota
// exhausted > default (cloud primary, local fallback). The first four all
// resolve to the local engine with no fallback, differing only in reason.
func decideStrategy(
	ctx context.Context,
	forcedOffline bool,
	hasCredentials bool,
	quotaCeiling int64,
	usage *UsageState,
	probe reachabilityProbe,
) Strategy {
	localOnly := func(reason string) Strategy {
		return Strategy{Primary: recognize.BackendLocal, Reason: reason}
	}

	if forcedOffline {
		return localOnly("offline mode forced by configuration")
	}
	if !hasCredentials {
		return localOnly("cloud credentials not configured")
	}
	if probe != nil && !probe.Reachable(ctx) {
		return localOnly("cloud endpoint unreachable")
	}
	if quotaCeiling > 0 && usage.Count(recognize.BackendCloud) >= quotaCeiling {
		return localOnly("cloud quota exhausted for this period")
	}

	return Strategy{
		Primary:  recognize.BackendCloud,
		Fallback: recognize.BackendLocal,
		Reason:   "default: cloud primary with local fallback",
	}
}
