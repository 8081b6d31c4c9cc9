package models

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func recordingPolicy(maxRetries int, delays *[]time.Duration) RetryPolicy {
	p := NewRetryPolicy(maxRetries, 400*time.Millisecond)
	p.sleep = func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return p
}

func TestRetryPolicyRetriesTransientWithLinearBackoff(t *testing.T) {
	var delays []time.Duration
	calls := 0
	err := recordingPolicy(3, &delays).Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("query: %w", driver.ErrBadConn)
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{400 * time.Millisecond, 800 * time.Millisecond}, delays)
}

func TestRetryPolicyGivesUpAfterMaxRetries(t *testing.T) {
	var delays []time.Duration
	calls := 0
	cause := errors.New("dial tcp 10.0.0.1:5432: connection refused")
	err := recordingPolicy(3, &delays).Do(context.Background(), func() error {
		calls++
		return cause
	})

	assert.Same(t, cause, err)
	assert.Equal(t, 4, calls)
	assert.Len(t, delays, 3)
}

func TestRetryPolicyDoesNotRetryPermanentErrors(t *testing.T) {
	var delays []time.Duration
	calls := 0
	err := recordingPolicy(3, &delays).Do(context.Background(), func() error {
		calls++
		return errors.New("UNIQUE constraint failed: discount_codes.code")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, delays)
}

func TestRetryPolicyStopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewRetryPolicy(3, time.Hour)
	calls := 0
	err := p.Do(ctx, func() error {
		calls++
		return driver.ErrBadConn
	})
	assert.ErrorIs(t, err, driver.ErrBadConn)
	assert.Equal(t, 1, calls)
}

func TestIsTransientError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bad conn", driver.ErrBadConn, true},
		{"pg connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"pg admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"message signature", errors.New("read: connection reset by peer"), true},
		{"canceled", context.Canceled, false},
		{"syntax", errors.New("near \"SELEC\": syntax error"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTransientError(tc.err))
		})
	}
}
