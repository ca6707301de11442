package resilience

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/custodia-labs/verbum/internal/logger"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 512

// StatusError is a non-2xx HTTP response from a model provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: API returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: API returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed if repeated.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Unauthorized reports whether the credentials were rejected.
func (e *StatusError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// CheckResponse returns nil for a 2xx response and a *StatusError otherwise.
// The body of a failed response is consumed.
func CheckResponse(provider string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Provider:   provider,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		return time.Until(at)
	}
	return 0
}

// Classify tags rejected credentials with the unavailable sentinel so
// callers can tell a configuration problem from a transient failure.
func Classify(err, unavailable error) error {
	var se *StatusError
	if errors.As(err, &se) && se.Unauthorized() {
		return fmt.Errorf("%w: %w", unavailable, err)
	}
	return err
}

// Policy configures retries.
type Policy struct {
	// MaxRetries is the number of attempts after the first.
	MaxRetries uint64
	// Base is the first back-off interval; it doubles per attempt.
	Base time.Duration
	// Max caps a single back-off interval.
	Max time.Duration
}

// DefaultPolicy retries three times starting at 500ms.
func DefaultPolicy() Policy {
	return Policy{MaxRetries: 3, Base: 500 * time.Millisecond, Max: 8 * time.Second}
}

// Do runs fn, waiting on limiter before every attempt and retrying
// 429 and 5xx responses and transport failures with exponential back-off.
// Context errors are never retried. limiter may be nil.
func Do(ctx context.Context, policy Policy, limiter *Limiter, fn func(ctx context.Context) error) error {
	if policy.Base <= 0 {
		policy.Base = DefaultPolicy().Base
	}
	backoff := retry.NewExponential(policy.Base)
	if policy.Max > 0 {
		backoff = retry.WithCappedDuration(policy.Max, backoff)
	}
	backoff = retry.WithMaxRetries(policy.MaxRetries, backoff)

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}

		err := fn(ctx)
		var se *StatusError
		if errors.As(err, &se) && se.Retryable() {
			if se.StatusCode == http.StatusTooManyRequests && limiter != nil {
				limiter.Backoff(se.RetryAfter)
			}
			logger.Debug("%s: attempt %d failed with status %d, retrying", se.Provider, attempt, se.StatusCode)
			return retry.RetryableError(err)
		}
		if transient(err) {
			logger.Debug("attempt %d failed: %v, retrying", attempt, err)
			return retry.RetryableError(err)
		}
		return err
	})
}

// transient reports whether err is a network failure worth repeating:
// a refused dial, a reset connection, a truncated response or a timeout.
func transient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// WrapStatus turns an SDK error that carries an HTTP status into a
// *StatusError so Do and Classify can act on it.
func WrapStatus(provider string, statusCode int, err error) error {
	if err == nil || statusCode == 0 {
		return err
	}
	return &StatusError{Provider: provider, StatusCode: statusCode, Body: err.Error()}
}
