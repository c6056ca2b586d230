// Package web fetches source documents over HTTP(S).
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Fetcher = (*Connector)(nil)

// Default configuration values.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRedirects = 10
	DefaultMaxBytes     = 10 << 20
	DefaultUserAgent    = "knowledge-rag/1.0 (+https://nuxway.net)"
)

// ErrTooLarge indicates a response body exceeded MaxBytes.
var ErrTooLarge = errors.New("response too large")

// Config holds configuration for the web connector.
type Config struct {
	// Timeout bounds each request, including redirects and body read.
	Timeout time.Duration

	// MaxRedirects is the number of redirects followed before giving up.
	MaxRedirects int

	// MaxBytes caps the response body size.
	MaxBytes int64

	// UserAgent is sent with every request.
	UserAgent string
}

// Connector performs GET requests with redirect following.
type Connector struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
}

// New creates a web connector.
func New(cfg Config) *Connector {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = DefaultMaxRedirects
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	maxRedirects := cfg.MaxRedirects
	return &Connector{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		maxBytes:  cfg.MaxBytes,
		userAgent: cfg.UserAgent,
	}
}

// Fetch downloads src. Non-2xx responses fail with a *domain.FetchError
// wrapping a *domain.UpstreamError.
func (c *Connector) Fetch(ctx context.Context, src domain.Source) (*domain.RawDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.Location, http.NoBody)
	if err != nil {
		return nil, &domain.FetchError{Source: src.Location, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.FetchError{
			Source: src.Location,
			Err:    &domain.UpstreamError{Service: src.Location, Err: err},
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, &domain.FetchError{
			Source: src.Location,
			Err: &domain.UpstreamError{
				Service:    src.Location,
				StatusCode: resp.StatusCode,
				Body:       strings.TrimSpace(string(body)),
			},
		}
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, &domain.FetchError{Source: src.Location, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(content)) > c.maxBytes {
		return nil, &domain.FetchError{Source: src.Location, Err: fmt.Errorf("%w: over %d bytes", ErrTooLarge, c.maxBytes)}
	}

	return &domain.RawDocument{
		Source:   src.Location,
		URI:      resp.Request.URL.String(),
		MIMEType: mediaType(resp.Header.Get("Content-Type")),
		Content:  content,
	}, nil
}

// mediaType strips parameters; an absent or unparsable header is HTML.
func mediaType(contentType string) string {
	if contentType == "" {
		return "text/html"
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "text/html"
	}
	return mt
}
