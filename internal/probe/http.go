package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// maxBodySize caps how much of the response is read for the JSON assertion
const maxBodySize = 1 << 20

// HTTPProber measures the round trip of an HTTP GET
type HTTPProber struct {
	expectedStatus int
	jsonPath       string
	jsonValue      string
}

// NewHTTPProber creates a new HTTP prober
func NewHTTPProber(expectedStatus int, jsonPath, jsonValue string) *HTTPProber {
	return &HTTPProber{
		expectedStatus: expectedStatus,
		jsonPath:       jsonPath,
		jsonValue:      jsonValue,
	}
}

// Probe performs the request. The latency covers the full response body.
func (h *HTTPProber) Probe(ctx context.Context, target string, timeout time.Duration) Result {
	url := target
	if !strings.Contains(url, "://") {
		url = "http://" + url
	}

	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse // Don't follow redirects
		},
	}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Failure(target, &ProbeError{Op: "request", Err: err})
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return Failure(target, classifyNetError("http", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	latency := time.Since(start)
	if err != nil {
		return Failure(target, classifyNetError("read", err))
	}

	if h.expectedStatus != 0 && resp.StatusCode != h.expectedStatus {
		return Failure(target, &ProbeError{Op: "http", Err: fmt.Errorf("expected %d, got %d", h.expectedStatus, resp.StatusCode)})
	}
	if h.expectedStatus == 0 && resp.StatusCode >= http.StatusBadRequest {
		return Failure(target, &ProbeError{Op: "http", Err: fmt.Errorf("status %d", resp.StatusCode)})
	}

	if h.jsonPath != "" {
		value := gjson.GetBytes(body, h.jsonPath)
		if !value.Exists() {
			return Failure(target, &ProbeError{Op: "json", Err: fmt.Errorf("JSON path '%s' not found in response", h.jsonPath)})
		}
		if h.jsonValue != "" && value.String() != h.jsonValue {
			return Failure(target, &ProbeError{Op: "json", Err: fmt.Errorf("JSON assertion failed: %s == %s, got %s", h.jsonPath, h.jsonValue, value.String())})
		}
	}

	return Success(target, latency)
}
