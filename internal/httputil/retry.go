// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across components.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Default retry policy: three attempts in total, one second apart.
const (
	DefaultMaxAttempts = 3
	DefaultDelay       = 1 * time.Second
)

// maxBodyBytes bounds how much of a response body is read into memory.
const maxBodyBytes = 32 << 20

// ErrRetriesExhausted is wrapped by DoWithRetry when every attempt failed.
var ErrRetriesExhausted = errors.New("retries exhausted")

// StatusError reports a response with a non-2xx status code.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %s", e.Status)
}

// Policy is a fixed-delay retry policy.
type Policy struct {
	// MaxAttempts is the total number of tries (default 3).
	MaxAttempts int

	// Delay is the wait between consecutive attempts (default 1s). A
	// negative value disables the wait.
	Delay time.Duration

	// Limiter, when set, paces every attempt, retries included. One limiter
	// shared by several callers bounds their combined request rate.
	Limiter *rate.Limiter

	// OnFailure, when set, is called after every failed attempt.
	OnFailure func(attempt int, err error)
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.Delay == 0 {
		p.Delay = DefaultDelay
	}
	return p
}

// DoWithRetry sends req and passes the response body to handle. An attempt
// fails on a transport error (including client timeouts), a non-2xx status,
// or an error returned by handle; failed attempts are retried according to p.
//
// It returns the number of attempts made. When all attempts fail the error
// wraps both ErrRetriesExhausted and the last failure. If ctx is cancelled the
// function stops and returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, p Policy, handle func(body []byte) error) (int, error) {
	p = p.withDefaults()
	log := zerolog.Ctx(ctx)

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}
		if err := wait(ctx, p.Limiter); err != nil {
			return attempt - 1, err
		}

		lastErr = try(ctx, client, req, handle)
		if lastErr == nil {
			return attempt, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return attempt, ctxErr
		}

		log.Warn().Err(lastErr).
			Str("url", req.URL.Path).
			Int("attempt", attempt).
			Int("max_attempts", p.MaxAttempts).
			Msg("request failed")
		if p.OnFailure != nil {
			p.OnFailure(attempt, lastErr)
		}

		if attempt == p.MaxAttempts {
			continue
		}
		if err := Sleep(ctx, p.Delay); err != nil {
			return attempt, err
		}
	}
	return p.MaxAttempts, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, p.MaxAttempts, lastErr)
}

// Sleep pauses for d or until ctx is done, whichever comes first. It returns
// ctx.Err() in the latter case. A non-positive d only checks ctx.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// wait blocks until l grants a token. rate.Limiter refuses up front when the
// token would only arrive after ctx's deadline; in that case wait holds until
// the deadline so the caller still sees ctx.Err().
func wait(ctx context.Context, l *rate.Limiter) error {
	if l == nil {
		return nil
	}
	if err := l.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func try(ctx context.Context, client *http.Client, req *http.Request, handle func([]byte) error) error {
	resp, err := client.Do(req.Clone(ctx))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if handle == nil {
		return nil
	}
	return handle(body)
}
