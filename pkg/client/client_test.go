package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voicecart/backend/config"
	httpDelivery "github.com/voicecart/backend/internal/delivery/http"
	"github.com/voicecart/backend/internal/parser"
	"github.com/voicecart/backend/internal/usecase"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
)

func newTestClient(serverURL string, opts ...Option) *Client {
	opts = append([]Option{WithRateLimit(rate.Inf, 1)}, opts...)
	c := New(serverURL, opts...)
	c.backoff = func(int) time.Duration { return 0 }
	return c
}

func TestNew(t *testing.T) {
	c := New("http://localhost:8080/")

	assert.Equal(t, "http://localhost:8080", c.baseURL)
	assert.NotNil(t, c.httpClient)
	assert.NotNil(t, c.rateLimiter)
	assert.Equal(t, defaultMaxRetries, c.maxRetries)
	assert.False(t, c.debug)

	c.SetDebug(true)
	assert.True(t, c.debug)
	assert.NotNil(t, c.logger, "debug mode needs a logger even without WithLogger")
}

// roundTripFunc adapts a function to http.RoundTripper
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestWithHTTPClient(t *testing.T) {
	var seen string
	httpClient := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = r.URL.String()
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"amount":5000,"formatted":"Rp 5.000"}`)),
			Header:     make(http.Header),
		}, nil
	})}

	c := newTestClient("http://voicecart.test", WithHTTPClient(httpClient))
	assert.Same(t, httpClient, c.httpClient)

	got, err := c.FormatPrice(context.Background(), 5000)
	require.NoError(t, err)
	assert.Equal(t, "Rp 5.000", got.Formatted)
	assert.Equal(t, "http://voicecart.test/api/v1/prices/format?amount=5000", seen)
}

func TestWithRateLimit(t *testing.T) {
	c := New("http://localhost:8080", WithRateLimit(rate.Limit(2), 4))
	assert.Equal(t, rate.Limit(2), c.rateLimiter.Limit())
	assert.Equal(t, 4, c.rateLimiter.Burst())

	// An exhausted limiter makes the client wait past the deadline
	slow := New("http://localhost:8080", WithRateLimit(rate.Limit(0.001), 1))
	require.True(t, slow.rateLimiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := slow.Parse(ctx, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter error")
}

func TestWithLogger(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Invalid request body","code":"invalid_request"}`))
	}))
	defer server.Close()

	tests := []struct {
		name     string
		debug    bool
		wantLogs int
	}{
		{name: "debug off logs nothing", debug: false, wantLogs: 0},
		{name: "debug on logs the API error", debug: true, wantLogs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			c := newTestClient(server.URL, WithLogger(zap.New(core)))
			c.SetDebug(tt.debug)

			_, err := c.Parse(context.Background(), "x")
			require.ErrorIs(t, err, ErrInvalidRequest)

			assert.Equal(t, tt.wantLogs, logs.Len())
			if tt.wantLogs > 0 {
				entry := logs.All()[0]
				assert.Equal(t, "API error", entry.Message)
				assert.Equal(t, "invalid_request", entry.ContextMap()["code"])
			}
		})
	}
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
	}
}

func TestParse_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/transcripts/parse", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mangga lima puluh ribu", req["transcript"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"itemName":"Mangga","price":50000,"formattedPrice":"Rp 50.000","strategy":"word_numeral","source":"parser"}`))
	}))
	defer server.Close()

	got, err := newTestClient(server.URL).Parse(context.Background(), "mangga lima puluh ribu")
	require.NoError(t, err)
	assert.Equal(t, "Mangga", got.ItemName)
	assert.Equal(t, int64(50000), got.Price)
	assert.Equal(t, "Rp 50.000", got.FormattedPrice)
}

func TestParse_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		wantCode string
	}{
		{
			name:     "unprocessable maps to ErrNoPriceFound",
			status:   http.StatusUnprocessableEntity,
			body:     `{"error":"no item and price found in transcript","code":"no_price_found"}`,
			wantErr:  ErrNoPriceFound,
			wantCode: "no_price_found",
		},
		{
			name:     "bad request maps to ErrInvalidRequest",
			status:   http.StatusBadRequest,
			body:     `{"error":"Invalid request body","code":"invalid_request"}`,
			wantErr:  ErrInvalidRequest,
			wantCode: "invalid_request",
		},
		{
			name:     "too many requests maps to ErrRateLimited",
			status:   http.StatusTooManyRequests,
			body:     `{"error":"Rate limit exceeded","code":"rate_limited"}`,
			wantErr:  ErrRateLimited,
			wantCode: "rate_limited",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Parse(context.Background(), "x")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.Code)

			// Client errors are not retried
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestParse_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"itemName":"Kaos","price":80000}`))
	}))
	defer server.Close()

	got, err := newTestClient(server.URL).Parse(context.Background(), "kaos 80k")
	require.NoError(t, err)
	assert.Equal(t, int64(80000), got.Price)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestParse_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error","code":"internal"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, WithMaxRetries(2)).Parse(context.Background(), "x")
	assert.ErrorIs(t, err, ErrRemoteAPI)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestParse_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url, WithMaxRetries(2)).Parse(context.Background(), "x")
	assert.ErrorIs(t, err, ErrRemoteAPI)
}

func TestParse_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).Parse(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_InvalidJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Parse(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestAPIError_NonJSONBody(t *testing.T) {
	apiErr := decodeAPIError(http.StatusBadGateway, []byte("<html>bad gateway</html>"))
	assert.Equal(t, "Bad Gateway", apiErr.Message)
	assert.ErrorIs(t, apiErr, ErrRemoteAPI)
}

// TestAgainstRouter exercises the client against the real HTTP router.
func TestAgainstRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:    config.ServerConfig{Environment: "test"},
		RateLimit: config.RateLimitConfig{PerIP: 1000, Burst: 100},
	}
	svc := usecase.NewParseService(nil, parser.New(), usecase.ParseServiceConfig{}, nil)
	server := httptest.NewServer(httpDelivery.SetupRouter(cfg, httpDelivery.NewHandler(svc, nil), nil))
	defer server.Close()

	c := newTestClient(server.URL)
	ctx := context.Background()

	parsed, err := c.Parse(ctx, "Pisang satu juta dua ratus ribu")
	require.NoError(t, err)
	assert.Equal(t, "Pisang", parsed.ItemName)
	assert.Equal(t, int64(1200000), parsed.Price)

	_, err = c.Parse(ctx, "hanya nama tanpa harga")
	assert.ErrorIs(t, err, ErrNoPriceFound)

	items, err := c.ParseBatch(ctx, []string{"kaos 80k", "lima puluh ribu"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(80000), items[0].Result.Price)
	assert.NotEmpty(t, items[1].Error)

	formatted, err := c.FormatPrice(ctx, 15500)
	require.NoError(t, err)
	assert.Equal(t, "Rp 15.500", formatted.Formatted)
}
