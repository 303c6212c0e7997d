// Package probe fetches opportunity source URLs for verification.
package probe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/granada-os/backend/internal/domain/funding"
)

const (
	// maxProbeResponseSize limits the response body size to prevent memory exhaustion
	maxProbeResponseSize = 1 * 1024 * 1024 // 1MB max response

	defaultProbeTimeout = 10 * time.Second
)

var _ funding.URLProber = (*HTTPProber)(nil)

// HTTPProber fetches source URLs over plain HTTP GET. Timeouts are
// reported on the probe result rather than as errors so the liveness
// check can score them.
type HTTPProber struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// HTTPProberOption is a functional option for configuring HTTPProber
type HTTPProberOption func(*HTTPProber)

// WithTimeout sets the per-probe timeout
func WithTimeout(d time.Duration) HTTPProberOption {
	return func(p *HTTPProber) {
		p.httpClient.Timeout = d
	}
}

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) HTTPProberOption {
	return func(p *HTTPProber) {
		p.logger = logger
	}
}

// NewHTTPProber creates a prober with a 10 second default timeout
func NewHTTPProber(opts ...HTTPProberOption) *HTTPProber {
	p := &HTTPProber{
		httpClient: &http.Client{
			Timeout: defaultProbeTimeout,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe fetches the URL and returns its status and truncated body
func (p *HTTPProber) Probe(ctx context.Context, rawURL string) (funding.URLProbe, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return funding.URLProbe{}, err
	}
	req.Header.Set("User-Agent", "GranadaOS-Verifier/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			p.logger.Debug("Probe timed out", zap.String("url", rawURL))
			return funding.URLProbe{TimedOut: true}, nil
		}
		return funding.URLProbe{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProbeResponseSize))
	if err != nil {
		if isTimeout(err) {
			return funding.URLProbe{TimedOut: true}, nil
		}
		return funding.URLProbe{}, err
	}

	return funding.URLProbe{
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
