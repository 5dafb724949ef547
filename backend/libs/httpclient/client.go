package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultMaxBody = 64 * 1024

// Doer is the subset of *http.Client the helpers need.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client posts JSON payloads to absolute URLs or paths under a base URL.
type Client struct {
	baseURL string
	doer    Doer
	maxBody int64
}

// New builds a client. baseURL may be empty when callers always pass absolute URLs.
func New(baseURL string, doer Doer) *Client {
	if doer == nil {
		doer = NewDefaultHTTPClient(5 * time.Second)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		doer:    doer,
		maxBody: defaultMaxBody,
	}
}

// NewDefaultHTTPClient returns *http.Client with timeout.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func (c *Client) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Do executes a request and reads at most maxBody bytes of the response.
func (c *Client) Do(ctx context.Context, method, path string, body []byte, headers map[string]string) (*Response, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return &Response{StatusCode: resp.StatusCode}, err
	}
	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// PostJSON marshals payload and POSTs it.
func (c *Client) PostJSON(ctx context.Context, path string, payload interface{}) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("httpclient: encode payload: %w", err)
	}
	return c.Do(ctx, http.MethodPost, path, body, map[string]string{"Content-Type": "application/json"})
}
