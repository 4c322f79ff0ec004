package crits

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Getter performs a single HTTP GET against a fully composed URI.
// Implementations own transport concerns (TLS validation, pooling,
// timeouts); the adapter issues exactly one call per query and never
// retries.
type Getter interface {
	Get(ctx context.Context, uri string) (status int, body []byte, err error)
}

// HTTPOptions configures the default transport.
type HTTPOptions struct {
	Timeout   time.Duration
	VerifyTLS bool
}

// HTTPGetter is the default Getter backed by net/http.
type HTTPGetter struct {
	client *http.Client
}

// NewHTTPGetter creates the default HTTP transport.
func NewHTTPGetter(opts HTTPOptions) *HTTPGetter {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	tr := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     30 * time.Second,
	}
	if !opts.VerifyTLS {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	return &HTTPGetter{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: tr,
		},
	}
}

// Get issues one GET and returns the status code and full body.
func (g *HTTPGetter) Get(ctx context.Context, uri string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "crits-lookup/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}
