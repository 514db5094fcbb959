// Package client is a Go client for the VoiceCart transcript parsing API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	userAgent         = "VoiceCart-Client/1.0"
)

var (
	// ErrNoPriceFound is returned when the server could not extract an item
	// and price from the transcript (HTTP 422)
	ErrNoPriceFound = errors.New("no item and price found in transcript")

	// ErrInvalidRequest is returned when the server rejects the request (HTTP 400)
	ErrInvalidRequest = errors.New("invalid request")

	// ErrRateLimited is returned when the server rate limits the caller (HTTP 429)
	ErrRateLimited = errors.New("rate limited by server")

	// ErrRemoteAPI is returned for server failures and transport errors that
	// persisted through all retries
	ErrRemoteAPI = errors.New("voicecart API failure")
)

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("voicecart API: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("voicecart API: status %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status to one of the package sentinel errors
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnprocessableEntity:
		return ErrNoPriceFound
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.StatusCode >= http.StatusInternalServerError:
		return ErrRemoteAPI
	case e.StatusCode >= http.StatusBadRequest:
		return ErrInvalidRequest
	default:
		return nil
	}
}

// ParsedTranscript is the server's answer for one transcript
type ParsedTranscript struct {
	ItemName       string     `json:"itemName"`
	Price          int64      `json:"price"`
	FormattedPrice string     `json:"formattedPrice"`
	Strategy       string     `json:"strategy"`
	Source         string     `json:"source"`
	CachedAt       *time.Time `json:"cachedAt,omitempty"`
}

// BatchItem is the outcome for one transcript of a batch
type BatchItem struct {
	Transcript string            `json:"transcript"`
	Result     *ParsedTranscript `json:"result,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// FormattedPrice is the server's rendering of an amount
type FormattedPrice struct {
	Amount    int64  `json:"amount"`
	Formatted string `json:"formatted"`
}

// Client handles communication with a VoiceCart server
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	maxRetries  int
	debug       bool
	logger      *zap.Logger

	// backoff returns the pause before retry number attempt
	backoff func(attempt int) time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithRateLimit paces outgoing requests to limit per second with the given burst
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) { c.rateLimiter = rate.NewLimiter(limit, burst) }
}

// WithMaxRetries sets how many attempts are made for retryable failures
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithLogger sets the logger used in debug mode. Without it SetDebug(true)
// logs to stderr through a zap development logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080"
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(10), 10),
		maxRetries:  defaultMaxRetries,
		backoff:     exponentialBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetDebug enables or disables per-request debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
	if debug && c.logger == nil {
		logger, err := zap.NewDevelopment()
		if err != nil {
			logger = zap.NewNop()
		}
		c.logger = logger
	}
}

// Parse extracts the item and price from one transcript
func (c *Client) Parse(ctx context.Context, transcript string) (*ParsedTranscript, error) {
	var out ParsedTranscript
	body := map[string]string{"transcript": transcript}
	if err := c.do(ctx, http.MethodPost, "/api/v1/transcripts/parse", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ParseBatch parses several transcripts in one request, preserving order
func (c *Client) ParseBatch(ctx context.Context, transcripts []string) ([]BatchItem, error) {
	var out struct {
		Results []BatchItem `json:"results"`
	}
	body := map[string][]string{"transcripts": transcripts}
	if err := c.do(ctx, http.MethodPost, "/api/v1/transcripts/parse/batch", body, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// FormatPrice asks the server to render amount as Rupiah
func (c *Client) FormatPrice(ctx context.Context, amount int64) (*FormattedPrice, error) {
	params := url.Values{}
	params.Add("amount", strconv.FormatInt(amount, 10))

	var out FormattedPrice
	if err := c.do(ctx, http.MethodGet, "/api/v1/prices/format?"+params.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends the request, retrying transport errors and 5xx responses with
// exponential backoff, and decodes a 200 response into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	reqURL := c.baseURL + path

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, c.backoff(attempt-1)); err != nil {
				return err
			}
		}

		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		body, status, err := c.roundTrip(ctx, method, reqURL, payload)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.debugf("request error", zap.Int("attempt", attempt), zap.Error(err))
			lastErr = fmt.Errorf("%w: %v", ErrRemoteAPI, err)
			continue
		}

		if status == http.StatusOK {
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			return nil
		}

		apiErr := decodeAPIError(status, body)
		c.debugf("API error", zap.Int("attempt", attempt), zap.Int("status", status), zap.String("code", apiErr.Code))
		if status < http.StatusInternalServerError {
			return apiErr
		}
		lastErr = apiErr
	}

	c.debugf("all retries failed", zap.String("path", path))
	return lastErr
}

func (c *Client) roundTrip(ctx context.Context, method, reqURL string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) debugf(msg string, fields ...zap.Field) {
	if c.debug && c.logger != nil {
		c.logger.Debug(msg, fields...)
	}
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var payload struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Error
	} else {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return 500 * time.Millisecond << (attempt - 1)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
