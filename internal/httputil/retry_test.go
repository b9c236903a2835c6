// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// fastPolicy keeps tests quick while still exercising the wait path.
var fastPolicy = Policy{MaxAttempts: 3, Delay: time.Millisecond}

func newRequest(t *testing.T, url string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	return req
}

func TestDoWithRetry_ImmediateSuccess(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	var got string
	attempts, err := DoWithRetry(context.Background(), ts.Client(), newRequest(t, ts.URL), fastPolicy, func(b []byte) error {
		got = string(b)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, attempts)
	assert.Equal(t, "ok", got)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDoWithRetry_FailsTwiceThenSucceeds(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("third time"))
	}))
	defer ts.Close()

	var failures []int
	p := fastPolicy
	p.OnFailure = func(attempt int, err error) {
		failures = append(failures, attempt)
		var se *StatusError
		assert.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	}

	var got string
	attempts, err := DoWithRetry(context.Background(), ts.Client(), newRequest(t, ts.URL), p, func(b []byte) error {
		got = string(b)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 3, attempts)
	assert.Equal(t, "third time", got)
	assert.Equal(t, []int{1, 2}, failures)
}

func TestDoWithRetry_ExhaustsAttempts(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	attempts, err := DoWithRetry(context.Background(), ts.Client(), newRequest(t, ts.URL), fastPolicy, nil)
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoWithRetry_HandlerErrorIsRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte("<html>"))
	}))
	defer ts.Close()

	decodeErr := errors.New("not json")
	_, err := DoWithRetry(context.Background(), ts.Client(), newRequest(t, ts.URL), fastPolicy, func([]byte) error {
		return decodeErr
	})
	assert.ErrorIs(t, err, decodeErr)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoWithRetry_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	attempts, err := DoWithRetry(context.Background(), http.DefaultClient, newRequest(t, url), fastPolicy, nil)
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 3, attempts)
}

func TestDoWithRetry_TimeoutCountsAsFailure(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
			return
		}
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	client := ts.Client()
	client.Timeout = 50 * time.Millisecond

	attempts, err := DoWithRetry(context.Background(), client, newRequest(t, ts.URL), fastPolicy, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestDoWithRetry_ContextCancelledDuringWait(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	p := Policy{MaxAttempts: 3, Delay: 5 * time.Second}
	_, err := DoWithRetry(ctx, ts.Client(), newRequest(t, ts.URL), p, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrRetriesExhausted)
}

func TestPolicyDefaults(t *testing.T) {
	p := Policy{}.withDefaults()
	assert.Equal(t, DefaultMaxAttempts, p.MaxAttempts)
	assert.Equal(t, DefaultDelay, p.Delay)

	p = Policy{MaxAttempts: 5, Delay: -1}.withDefaults()
	assert.Equal(t, 5, p.MaxAttempts)
	assert.Equal(t, time.Duration(-1), p.Delay)
}

func TestDoWithRetry_LimiterPacesAttempts(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	p := fastPolicy
	p.Limiter = rate.NewLimiter(rate.Every(30*time.Millisecond), 1)

	start := time.Now()
	_, err := DoWithRetry(context.Background(), ts.Client(), newRequest(t, ts.URL), p, nil)
	require.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.GreaterOrEqual(t, time.Since(start), 55*time.Millisecond, "three attempts need two refills")
}

func TestDoWithRetry_LimiterPastDeadline(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	l := rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, l.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	p := fastPolicy
	p.Limiter = l
	n, err := DoWithRetry(ctx, ts.Client(), newRequest(t, ts.URL), p, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, n)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSleep(t *testing.T) {
	start := time.Now()
	require.NoError(t, Sleep(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	assert.NoError(t, Sleep(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, Sleep(ctx, -1), context.Canceled)
}
