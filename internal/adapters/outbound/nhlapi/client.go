package nhlapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/chladner/hockeyquant/internal/telemetry"
)

// Client talks to the public NHL web API (api-web.nhle.com/v1). All calls
// are read-only GETs subject to a shared rate limiter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(10), 10),
	}
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	telemetry.Metrics.UpstreamRequests.Inc()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		telemetry.Metrics.UpstreamErrors.Inc()
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		telemetry.Metrics.UpstreamErrors.Inc()
		return nil, fmt.Errorf("read response: %w", err)
	}

	telemetry.Metrics.UpstreamLatency.Record(time.Since(start))
	telemetry.Debugf("nhlapi: GET %s -> %d (%s)", path, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		telemetry.Metrics.UpstreamErrors.Inc()
		return nil, fmt.Errorf("nhlapi: GET %s: status %d", path, resp.StatusCode)
	}

	return body, nil
}
