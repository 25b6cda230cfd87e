package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// RemoteClient calls a hosted forecast function at POST {baseURL}/functions/v1/forecast.
type RemoteClient struct {
	baseURL string
	apiKey  string
	client  *retryablehttp.Client
}

// NewRemoteClient creates a client that retries transient failures up to retryMax times.
func NewRemoteClient(baseURL, apiKey string, retryMax int, timeout time.Duration) *RemoteClient {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Timeout: timeout}
	rc.RetryMax = retryMax
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.Logger = slog.Default()

	return &RemoteClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  rc,
	}
}

type remoteResponse struct {
	Success bool     `json:"success"`
	Data    []Point  `json:"data"`
	Summary *Summary `json:"summary"`
	Error   string   `json:"error"`
}

// Forecast validates p locally and asks the remote function for the projection.
func (c *RemoteClient) Forecast(ctx context.Context, p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	body, err := json.Marshal(p)
	if err != nil {
		return Result{}, fmt.Errorf("encoding forecast request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/functions/v1/forecast", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("creating forecast request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("reading forecast response: %w", err)
	}

	var out remoteResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Result{}, fmt.Errorf("forecast HTTP %d: %s", resp.StatusCode, string(raw))
		}
		return Result{}, fmt.Errorf("parsing forecast response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !out.Success {
		msg := out.Error
		if msg == "" {
			msg = "failed to calculate forecast"
		}
		return Result{}, fmt.Errorf("forecast HTTP %d: %s", resp.StatusCode, msg)
	}
	if len(out.Data) == 0 || out.Summary == nil {
		return Result{}, fmt.Errorf("forecast response missing data")
	}

	return Result{Data: out.Data, Summary: *out.Summary}, nil
}

// Fallback tries Primary and falls back to Secondary on any failure other
// than invalid parameters.
type Fallback struct {
	Primary   Forecaster
	Secondary Forecaster
}

func (f Fallback) Forecast(ctx context.Context, p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	res, err := f.Primary.Forecast(ctx, p)
	if err == nil {
		return res, nil
	}
	slog.Warn("remote forecast failed, using local calculation", "error", err)
	return f.Secondary.Forecast(ctx, p)
}

// New returns the local forecaster, or a remote one with local fallback when
// baseURL is set.
func New(baseURL, apiKey string, retryMax int, timeout time.Duration) Forecaster {
	if baseURL == "" {
		return Local{}
	}
	return Fallback{
		Primary:   NewRemoteClient(baseURL, apiKey, retryMax, timeout),
		Secondary: Local{},
	}
}
