package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// retryPolicy retries startup operations with exponential backoff and jitter.
type retryPolicy struct {
	attempts int
	baseWait time.Duration
	jitter   float64
}

// startupRetry waits roughly 1s, 2s between three attempts.
var startupRetry = retryPolicy{attempts: 3, baseWait: time.Second, jitter: 0.25}

func (p retryPolicy) backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := p.baseWait << attempt
	jitter := time.Duration(float64(base) * p.jitter * (2*rand.Float64() - 1)) // #nosec G404 -- non-cryptographic jitter
	return base + jitter
}

// do calls fn until it succeeds or the attempts run out. When retryable is
// set, errors it rejects are returned immediately and unwrapped.
func (p retryPolicy) do(ctx context.Context, logger *slog.Logger, op string, retryable func(error) bool, fn func() error) error {
	var err error
	for attempt := 0; attempt < p.attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return err
		}
		if attempt == p.attempts-1 {
			break
		}

		wait := p.backoff(attempt)
		if logger != nil {
			logger.Warn(op+" failed, retrying",
				slog.Int("attempt", attempt+1),
				slog.Int("max_attempts", p.attempts),
				slog.Duration("backoff", wait),
				slog.String("error", err.Error()),
			)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: context canceled during retry: %w", op, ctx.Err())
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("%s after %d attempts: %w", op, p.attempts, err)
}

// Retry runs fn with the startup retry policy shared by every dependency the
// service waits on at boot.
func Retry(ctx context.Context, logger *slog.Logger, op string, fn func() error) error {
	return startupRetry.do(ctx, logger, op, nil, fn)
}

var connErrorPatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"i/o timeout",
	"dial tcp",
	"server closed the connection unexpectedly",
	"could not connect",
}

// isConnectionError reports whether err looks like a transient network
// failure. SQL errors are never treated as transient.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return false
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || errors.Is(err, io.EOF) || pgconn.Timeout(err) {
		return true
	}
	msg := err.Error()
	for _, p := range connErrorPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
