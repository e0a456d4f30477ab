package soap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"
)

const DefaultTimeout = 60 * time.Second

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request is one SOAP call. Out receives the first element of soap:Body.
type Request struct {
	Endpoint  string
	Action    string
	Operation string
	Headers   []any
	Body      any
	Out       any
}

// WithHeader returns a copy of r with one more header block; r is left untouched.
func (r *Request) WithHeader(header any) *Request {
	clone := *r
	clone.Headers = append(slices.Clone(r.Headers), header)
	return &clone
}

type Response struct {
	StatusCode int
	Bytes      int
}

// ClientConfig.Timeout bounds the default http.Client; zero means
// DefaultTimeout unless DisableTimeout is set.
type ClientConfig struct {
	HTTPClient     Doer
	Timeout        time.Duration
	DisableTimeout bool
	UserAgent      string
}

// Client is the transport: it serializes the envelope, posts it and decodes
// the reply. Authentication and logging are layered on via Middleware.
type Client struct {
	httpClient Doer
	userAgent  string
}

func NewClient(cfg ClientConfig) *Client {
	doer := cfg.HTTPClient
	if doer == nil {
		timeout := cfg.Timeout
		switch {
		case cfg.DisableTimeout:
			timeout = 0
		case timeout <= 0:
			timeout = DefaultTimeout
		}
		doer = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: doer,
		userAgent:  strings.TrimSpace(cfg.UserAgent),
	}
}

// Invoke satisfies Invoker.
func (c *Client) Invoke(ctx context.Context, req *Request) (*Response, error) {
	payload, err := encodeEnvelope(req.Headers, req.Body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", req.Operation, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request %s: %w", req.Endpoint, err)
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")
	httpReq.Header.Set("Accept", "text/xml")
	httpReq.Header.Set("SOAPAction", `"`+req.Action+`"`)
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", req.Endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", req.Endpoint, err)
	}
	result := &Response{StatusCode: resp.StatusCode, Bytes: len(data)}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if fault, decodeErr := decodeEnvelope(data, nil); decodeErr == nil && fault != nil {
			fault.StatusCode = resp.StatusCode
			return result, fault
		}
		return result, &HTTPError{StatusCode: resp.StatusCode, Body: truncate(strings.TrimSpace(string(data)), 4096)}
	}

	fault, err := decodeEnvelope(data, req.Out)
	if err != nil {
		return result, fmt.Errorf("%w: decode %s response from %s: %w", ErrMalformedResponse, req.Operation, req.Endpoint, err)
	}
	if fault != nil {
		fault.StatusCode = resp.StatusCode
		return result, fault
	}
	return result, nil
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit]
}
