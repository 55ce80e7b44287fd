package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const adminKeyHeader = "X-Admin-Key"

// Client talks to the analysis service REST API.
type Client struct {
	BaseURL  string
	AdminKey string
	HTTP     *http.Client
}

func NewClient(baseURL, adminKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		AdminKey: adminKey,
		HTTP: &http.Client{
			Timeout: timeout,
		},
	}
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   interface{}
	admin  bool
}

// do sends the request and decodes the envelope's data into out (if out is non-nil).
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", r.op, err)
		}
		body = bytes.NewReader(payload)
	}

	endpoint := c.BaseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", r.op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if r.admin && c.AdminKey != "" {
		req.Header.Set(adminKeyHeader, c.AdminKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &TransportError{Op: r.op, Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: r.op, Err: fmt.Errorf("read response: %w", err)}
	}

	var env Envelope
	decodeErr := json.Unmarshal(bodyBytes, &env)

	if resp.StatusCode >= http.StatusBadRequest {
		msg := env.Message
		if msg == "" {
			msg = env.Detail
		}
		if msg == "" {
			msg = strings.TrimSpace(string(bodyBytes))
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		status := env.Status
		if status == "" {
			status = EnvelopeStatusError
		}
		return &APIError{Op: r.op, StatusCode: resp.StatusCode, Status: status, Message: msg}
	}

	if decodeErr != nil {
		return &APIError{
			Op:         r.op,
			StatusCode: resp.StatusCode,
			Status:     EnvelopeStatusError,
			Message:    fmt.Sprintf("malformed response: %v", decodeErr),
		}
	}

	if env.Status != EnvelopeStatusSuccess {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return &APIError{Op: r.op, StatusCode: resp.StatusCode, Status: env.Status, Message: msg}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &APIError{
			Op:         r.op,
			StatusCode: resp.StatusCode,
			Status:     EnvelopeStatusError,
			Message:    fmt.Sprintf("malformed data: %v", err),
		}
	}
	return nil
}
