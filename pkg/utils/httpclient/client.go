// Package httpclient provides the HTTP client used by the LLM providers,
// with bounded retries and W3C trace-context propagation.
package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/kart-io/lecture-tutor/pkg/utils/json"
)

const retryBaseDelay = 500 * time.Millisecond

// Client wraps http.Client with retry and tracing support.
type Client struct {
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a client with the given request timeout and retry budget.
func NewClient(timeout time.Duration, maxRetries int) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

// DoRequest executes the request, retrying on transport errors and 5xx
// responses with linear backoff. 4xx responses are returned to the caller.
func (c *Client) DoRequest(req *http.Request) (*http.Response, error) {
	c.injectTraceContext(req)

	// 重试需要重放请求体，先整体读入内存。
	// LLM 请求体都很小，不构成内存压力。
	var replayBody func() io.ReadCloser
	if req.Body != nil {
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		_ = req.Body.Close()
		replayBody = func() io.ReadCloser {
			return io.NopCloser(bytes.NewReader(raw))
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if replayBody != nil {
			req.Body = replayBody()
		}

		resp, err := c.httpClient.Do(req)
		if err == nil {
			if resp.StatusCode < http.StatusInternalServerError {
				return resp, nil
			}
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("server error, status code %d", resp.StatusCode)
		} else {
			lastErr = err
		}

		if attempt < c.maxRetries {
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(time.Duration(attempt+1) * retryBaseDelay):
			}
		}
	}
	return nil, lastErr
}

// DoJSON executes the request and decodes a JSON response into v.
// The response body is always closed.
func (c *Client) DoJSON(req *http.Request, v interface{}) error {
	resp, err := c.DoRequest(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed with status code %d: %s", resp.StatusCode, string(raw))
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// DoStream executes the request for a streaming response.
// On success the caller owns the body and must close it.
func (c *Client) DoStream(req *http.Request) (*http.Response, error) {
	resp, err := c.DoRequest(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, fmt.Errorf("request failed with status code %d: %s", resp.StatusCode, string(raw))
	}

	return resp, nil
}

// injectTraceContext 将当前 Span 的 W3C Trace Context 注入请求头。
// 请求为 nil、无传播器或无活跃 Span 时静默跳过。
func (c *Client) injectTraceContext(req *http.Request) {
	if req == nil || req.Context() == nil {
		return
	}

	propagator := otel.GetTextMapPropagator()
	if propagator == nil {
		return
	}

	propagator.Inject(req.Context(), propagation.HeaderCarrier(req.Header))
}
