// Package httpprober checks the health endpoint of a running API server.
package httpprober

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single probe.
const DefaultTimeout = 5 * time.Second

// Result describes one probe.
type Result struct {
	Status  int
	Latency time.Duration
}

// Healthy reports whether the endpoint answered 200.
func (r Result) Healthy() bool {
	return r.Status == http.StatusOK
}

// Prober sends GET requests to health endpoints.
type Prober struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures the Prober.
type Option func(*Prober)

// WithTimeout sets the probe timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Prober) {
		p.timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Prober) {
		p.client = client
	}
}

// WithUserAgent sets the User-Agent header sent with each probe.
func WithUserAgent(ua string) Option {
	return func(p *Prober) {
		p.userAgent = ua
	}
}

// New creates a new HTTP prober.
func New(opts ...Option) *Prober {
	p := &Prober{
		timeout:   DefaultTimeout,
		userAgent: "virtdock-health",
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.client == nil {
		p.client = &http.Client{
			Timeout: p.timeout,
			Transport: &http.Transport{
				DisableKeepAlives: true,
			},
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}

	return p
}

// Probe sends a GET request to url and reports the status and latency.
func (p *Prober) Probe(ctx context.Context, url string) (Result, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{Latency: time.Since(start)}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return Result{Status: resp.StatusCode, Latency: time.Since(start)}, nil
}
