// Package fetch retrieves remote chart specifications over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/basecamp/nbpreview/internal/version"
)

const (
	defaultTimeout = 30 * time.Second
	// maxBodySize caps how much of a response body is read (10MB).
	maxBodySize = 10 * 1024 * 1024
)

// Client performs plain GET requests. No retries are attempted.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client. A nil httpClient gets a default one with a
// 30 second timeout; a nil logger discards output.
func NewClient(httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 90 * time.Second,
			},
		}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{httpClient: httpClient, logger: logger}
}

// Get returns the body of url as text. The body is returned whatever the
// response status; only transport failures are errors.
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", version.UserAgent())

	c.logger.Debug("fetching", "url", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("fetched", "url", url, "status", resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("unexpected status", "url", url, "status", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return string(body), nil
}
