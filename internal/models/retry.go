package models

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 400 * time.Millisecond
)

// transientMessages are substrings of driver errors seen when a pooled
// connection is dropped underneath the client.
var transientMessages = []string{
	"connection refused",
	"connection reset",
	"connection timed out",
	"broken pipe",
	"i/o timeout",
	"server closed the connection",
	"server has closed the connection",
	"can't reach database server",
	"prepared statement",
	"bad connection",
	"unexpected eof",
}

// RetryPolicy retries an operation on transient connection errors with a
// linear backoff of BaseDelay*(attempt+1).
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy allows 3 retries starting at 400ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: defaultRetryAttempts, BaseDelay: defaultRetryBaseDelay}
}

// NewRetryPolicy builds a policy, substituting defaults for non-positive values.
func NewRetryPolicy(maxRetries int, baseDelay time.Duration) RetryPolicy {
	p := DefaultRetryPolicy()
	if maxRetries >= 0 {
		p.MaxRetries = maxRetries
	}
	if baseDelay > 0 {
		p.BaseDelay = baseDelay
	}
	return p
}

// Do runs fn, retrying while it fails with a transient error. The last error is
// returned once retries are exhausted; non-transient errors return immediately.
// fn must be safe to repeat: wrap whole transactions, not statements inside one.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepContext
	}
	var err error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		err = fn()
		if err == nil || !IsTransientError(err) || attempt == p.MaxRetries {
			return err
		}
		if serr := sleep(ctx, p.BaseDelay*time.Duration(attempt+1)); serr != nil {
			return err
		}
	}
	return err
}

// IsTransientError reports whether err looks like a dropped or unreachable
// database connection rather than a query or constraint failure.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 08: connection exception; 57P01..57P03: server shutting down / unavailable
		return strings.HasPrefix(pgErr.Code, "08") ||
			pgErr.Code == "57P01" || pgErr.Code == "57P02" || pgErr.Code == "57P03"
	}
	if pgconn.Timeout(err) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, signature := range transientMessages {
		if strings.Contains(msg, signature) {
			return true
		}
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
