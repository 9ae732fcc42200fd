package recognize

import (
	"context"
	"net/http"
	"time"
)

const (
	// DefaultProbeTimeout bounds the reachability check used during
	// strategy selection.
	DefaultProbeTimeout = 10 * time.Second

	defaultProbeEndpoint = "https://api.openai.com/v1"
)

// Probe answers whether the cloud endpoint is reachable right now. The check
// is time-boxed and honors context cancellation; it never blocks strategy
// selection beyond its timeout.
type Probe struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
}

// NewProbe creates a reachability probe against the default cloud endpoint.
func NewProbe(timeout time.Duration) *Probe {
	return NewProbeWithEndpoint(defaultProbeEndpoint, timeout)
}

// NewProbeWithEndpoint creates a probe against a specific endpoint (tests).
func NewProbeWithEndpoint(endpoint string, timeout time.Duration) *Probe {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Probe{
		endpoint: endpoint,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
	}
}

// Reachable reports whether the endpoint answered within the probe window.
// Any HTTP status counts as reachable; only transport failures do not.
func (p *Probe) Reachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.endpoint, nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return true
}
