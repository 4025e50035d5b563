package httpclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/gearcatalog/pkg/errors"
)

// scriptedDoer answers requests from a queue of status codes or errors. The
// last entry repeats.
type scriptedDoer struct {
	mu      sync.Mutex
	results []any
	calls   int
}

func (d *scriptedDoer) Do(_ context.Context, _ *http.Request) (*http.Response, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r := d.results[min(d.calls, len(d.results)-1)]
	d.calls++
	switch v := r.(type) {
	case error:
		return nil, v
	case int:
		return &http.Response{StatusCode: v, Body: io.NopCloser(strings.NewReader("body"))}, nil
	}
	panic("unexpected script entry")
}

func (d *scriptedDoer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func breakerConfig(name string) CircuitBreakerConfig {
	cfg := DefaultCircuitBreakerConfig(name)
	cfg.MinRequests = 3
	cfg.Timeout = 50 * time.Millisecond
	return cfg
}

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "http://storage.test/storage/objects/1", nil)
	require.NoError(t, err)
	return req
}

func TestCircuitBreaker_PassesResponses(t *testing.T) {
	doer := &scriptedDoer{results: []any{http.StatusOK}}
	cb := NewCircuitBreakerClient(doer, breakerConfig("cb-pass"), quietLogger())

	resp, err := cb.Do(context.Background(), newRequest(t))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
	assert.Equal(t, "cb-pass", cb.Name())
}

func TestCircuitBreaker_5xxBecomesStatusError(t *testing.T) {
	doer := &scriptedDoer{results: []any{http.StatusBadGateway}}
	cb := NewCircuitBreakerClient(doer, breakerConfig("cb-5xx"), quietLogger())

	_, err := cb.Do(context.Background(), newRequest(t))

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, "body", statusErr.Body)
}

func TestCircuitBreaker_4xxIsNotAFailure(t *testing.T) {
	doer := &scriptedDoer{results: []any{http.StatusNotFound}}
	cb := NewCircuitBreakerClient(doer, breakerConfig("cb-4xx"), quietLogger())

	for i := 0; i < 5; i++ {
		resp, err := cb.Do(context.Background(), newRequest(t))
		require.NoError(t, err)
		_ = resp.Body.Close()
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_OpensAndRejectsWithServiceUnavailable(t *testing.T) {
	doer := &scriptedDoer{results: []any{errors.New("connection refused")}}
	cb := NewCircuitBreakerClient(doer, breakerConfig("cb-open"), quietLogger())

	for i := 0; i < 3; i++ {
		_, err := cb.Do(context.Background(), newRequest(t))
		require.Error(t, err)
	}
	require.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := cb.Do(context.Background(), newRequest(t))
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
	assert.Equal(t, http.StatusServiceUnavailable, apperrors.HTTPStatus(err))
	assert.Equal(t, 3, doer.count(), "rejected requests are not sent")
}

func TestCircuitBreaker_RecoversAfterTimeout(t *testing.T) {
	doer := &scriptedDoer{results: []any{
		http.StatusInternalServerError,
		http.StatusInternalServerError,
		http.StatusInternalServerError,
		http.StatusOK,
	}}
	cb := NewCircuitBreakerClient(doer, breakerConfig("cb-recover"), quietLogger())

	for i := 0; i < 3; i++ {
		_, _ = cb.Do(context.Background(), newRequest(t))
	}
	require.Equal(t, gobreaker.StateOpen, cb.State())

	time.Sleep(80 * time.Millisecond)

	resp, err := cb.Do(context.Background(), newRequest(t))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_CanceledCallsDoNotTrip(t *testing.T) {
	doer := &scriptedDoer{results: []any{context.Canceled}}
	cb := NewCircuitBreakerClient(doer, breakerConfig("cb-cancel"), quietLogger())

	for i := 0; i < 5; i++ {
		_, err := cb.Do(context.Background(), newRequest(t))
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestDefaultCircuitBreakerConfig(t *testing.T) {
	cfg := DefaultCircuitBreakerConfig("storage")

	assert.Equal(t, "storage", cfg.Name)
	assert.Equal(t, uint32(1), cfg.MaxRequests)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.InDelta(t, 0.5, cfg.FailureRatio, 0.0001)
	assert.Equal(t, uint32(5), cfg.MinRequests)
}
