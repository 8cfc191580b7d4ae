// Package fetch retrieves remote documents to use as flow input.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/die-net/lrucache"
	"github.com/gregjones/httpcache"
	"golang.org/x/net/html/charset"
)

// HTTP client constraints.
const (
	maxHTTPCacheBytes = 32 << 20
	maxHTTPCacheAge   = int64(24 * time.Hour / time.Second)
	maxDocumentBytes  = 16 << 20
	idleConns         = 4
	idleConnTimeout   = 90 * time.Second
	httpTimeout       = 30 * time.Second
)

// Client fetches documents over HTTP, honoring cache headers.
type Client struct {
	client *http.Client
	logger *slog.Logger
}

// New creates a Client with an in-memory HTTP cache.
func New(logger *slog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Transport: &httpcache.Transport{
				Cache:               lrucache.New(maxHTTPCacheBytes, maxHTTPCacheAge),
				MarkCachedResponses: true,
				Transport: &http.Transport{
					Proxy:               http.ProxyFromEnvironment,
					ForceAttemptHTTP2:   true,
					MaxIdleConns:        idleConns,
					MaxConnsPerHost:     idleConns,
					MaxIdleConnsPerHost: idleConns,
					IdleConnTimeout:     idleConnTimeout,
					TLSHandshakeTimeout: httpTimeout,
				},
			},
			Timeout: httpTimeout,
		},
		logger: logger.With(slog.String("component", "fetch")),
	}
}

// Fetch returns the document at rawURL decoded to UTF-8 using the charset
// declared by the response. Only http and https URLs are accepted, and
// non-2xx responses are errors.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse url: %w", err)
	} else if target.Scheme != "http" && target.Scheme != "https" {
		return "", fmt.Errorf("unsupported url scheme %q", target.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer func() { _ = res.Body.Close() }()

	c.logger.DebugContext(ctx, "fetched document",
		slog.String("url", target.String()),
		slog.Int("status", res.StatusCode),
		slog.Bool("cached", res.Header.Get(httpcache.XFromCache) != ""))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("failed to fetch %s: unexpected status %s", target, res.Status)
	}

	body, err := charset.NewReader(res.Body, res.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("failed to determine document charset: %w", err)
	}
	data, err := io.ReadAll(io.LimitReader(body, maxDocumentBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return string(data), nil
}
