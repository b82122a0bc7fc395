package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testOptions() Options {
	return Options{
		UserAgent:  "test-agent/1.0",
		Retries:    3,
		RetryDelay: time.Millisecond,
		Growth:     1.1,
	}
}

func TestFetchReturnsBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	f := New(testOptions(), nil)
	body := f.Fetch(context.Background(), server.URL)

	assert.Equal(t, "<html>ok</html>", body)
}

func TestFetchRetriesExactlyBoundTimes(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := New(testOptions(), nil)
	body := f.Fetch(context.Background(), server.URL)

	assert.Empty(t, body)
	assert.Equal(t, int32(3), attempts.Load(), "must stop after the configured retry count")
}

func TestFetchRecoversOnLaterAttempt(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	defer server.Close()

	f := New(testOptions(), nil)
	body := f.Fetch(context.Background(), server.URL)

	assert.Equal(t, "recovered", body)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestFetchUnreachableHostIsEmptyNotError(t *testing.T) {
	t.Parallel()

	f := New(testOptions(), nil)
	body := f.Fetch(context.Background(), "http://127.0.0.1:1/nothing-here")

	assert.Empty(t, body)
}

func TestNewAppliesDefaults(t *testing.T) {
	t.Parallel()

	f := New(Options{}, nil)

	assert.Equal(t, defaultRetries, f.retries)
	assert.Equal(t, defaultRetryDelay, f.retryDelay)
	assert.Equal(t, defaultGrowth, f.growth)
	assert.Equal(t, defaultTimeout, f.client.Timeout)
}
