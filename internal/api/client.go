// Package api is the HTTP client for the remote book API. Every failure is
// normalized to *Error whose message can be shown to users as is.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// HeaderRequestID correlates client calls with remote API logs.
const HeaderRequestID = "X-Request-ID"

// Client calls the book API. Endpoint paths are appended to baseURL verbatim.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger logs each call and each failure at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for baseURL. A zero timeout means requests are
// bounded only by their context.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestOptions describes one call. Body is JSON-encoded unless it is
// already []byte or json.RawMessage. Headers override the defaults.
type RequestOptions struct {
	Method  string
	Headers map[string]string
	Body    any
}

// Call performs the request and returns the raw JSON body, which is nil for
// empty 2xx responses.
func (c *Client) Call(ctx context.Context, endpoint string, opts RequestOptions) (json.RawMessage, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	start := time.Now()
	data, status, err := c.do(ctx, method, endpoint, opts)
	elapsed := time.Since(start)
	observeCall(method, err, elapsed)

	if err != nil {
		c.logger.Debug("api call failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	c.logger.Debug("api call",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", status),
		zap.Duration("elapsed", elapsed),
	)
	return data, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, opts RequestOptions) (json.RawMessage, int, error) {
	var body io.Reader
	if opts.Body != nil {
		payload, err := encodeBody(opts.Body)
		if err != nil {
			return nil, 0, &Error{Kind: KindMalformed, Message: fmt.Sprintf("encode request body: %v", err), Err: err}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, 0, &Error{Kind: KindNetwork, Message: msgNetworkError, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, uuid.NewString())
	for name, value := range opts.Headers {
		req.Header.Set(name, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &Error{Kind: KindNetwork, Message: msgNetworkError, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: msgNetworkError, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &Error{Kind: KindStatus, Status: resp.StatusCode, Message: errorMessage(raw)}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, resp.StatusCode, nil
	}
	if !gjson.ValidBytes(raw) {
		return nil, resp.StatusCode, &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: msgNetworkError, Err: ErrInvalidResponse}
	}

	return raw, resp.StatusCode, nil
}

// errorMessage extracts the "message" field of an error body.
func errorMessage(raw []byte) string {
	msg := gjson.GetBytes(raw, "message")
	if msg.Type == gjson.String && msg.Str != "" {
		return msg.Str
	}
	return msgRequestFailed
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case json.RawMessage:
		return b, nil
	case []byte:
		return b, nil
	default:
		return json.Marshal(body)
	}
}

// callInto performs the call and decodes a non-empty body into out.
func (c *Client) callInto(ctx context.Context, endpoint string, opts RequestOptions, out any) error {
	raw, err := c.Call(ctx, endpoint, opts)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

func decode(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return &Error{Kind: KindMalformed, Message: msgInvalidResponse, Err: ErrInvalidResponse}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: KindMalformed, Message: msgInvalidResponse, Err: fmt.Errorf("%w: %v", ErrInvalidResponse, err)}
	}
	return nil
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
