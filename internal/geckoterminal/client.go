package geckoterminal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"memescout/internal/ratelimit"
)

const (
	defaultTimeout = 10 * time.Second
	maxAttempts    = 3
	baseBackoff    = 500 * time.Millisecond
)

// Client fetches pool records from the GeckoTerminal public API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *logrus.Logger
}

// NewClient creates a GeckoTerminal API client.
func NewClient(baseURL string, rps float64, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    ratelimit.New(rps),
		logger:     logger,
	}
}

// TrendingPools fetches the trending pools for a network.
func (c *Client) TrendingPools(ctx context.Context, network string) ([]Pool, error) {
	return c.fetchPools(ctx, fmt.Sprintf("%s/networks/%s/trending_pools", c.baseURL, network))
}

// NewPools fetches the most recently created pools for a network.
func (c *Client) NewPools(ctx context.Context, network string) ([]Pool, error) {
	return c.fetchPools(ctx, fmt.Sprintf("%s/networks/%s/new_pools", c.baseURL, network))
}

func (c *Client) fetchPools(ctx context.Context, url string) ([]Pool, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := baseBackoff * time.Duration(1<<(attempt-2))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		pools, retryable, err := c.doFetch(ctx, url)
		if err == nil {
			return pools, nil
		}
		lastErr = err
		if !retryable {
			break
		}

		c.logger.WithError(err).WithFields(logrus.Fields{
			"url":     url,
			"attempt": attempt,
		}).Warn("Pool fetch failed, retrying")
	}

	return nil, lastErr
}

func (c *Client) doFetch(ctx context.Context, url string) ([]Pool, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("fetch pools: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("fetch pools: status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, false, fmt.Errorf("fetch pools: status %d", resp.StatusCode)
	}

	var parsed poolsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		// A wrong-typed field fails only itself: the decoder keeps
		// filling the rest of the envelope, so well-formed records
		// survive a malformed sibling.
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			c.logger.WithError(err).WithField("url", url).Warn("Malformed field in pools response, keeping well-formed records")
			return parsed.Data, false, nil
		}
		return nil, false, fmt.Errorf("decode pools response: %w", err)
	}

	return parsed.Data, false, nil
}
