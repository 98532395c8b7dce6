package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/Veraticus/budget-sheets/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestUserError(t *testing.T) {
	err := NewUserError("no period selected", ErrInvalidPeriod)
	assert.Equal(t, "no period selected: invalid period", err.Error())
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "no period selected", userErr.UserMessage)

	assert.Equal(t, "bare", NewUserError("bare", nil).Error())
}

func TestClassifyAPIError(t *testing.T) {
	assert.NoError(t, ClassifyAPIError(nil))

	plain := errors.New("boom")
	assert.Equal(t, plain, ClassifyAPIError(plain))

	err := ClassifyAPIError(&googleapi.Error{Code: http.StatusTooManyRequests})
	assert.ErrorIs(t, err, ErrRateLimit)
	assert.True(t, IsRetryable(err))

	err = ClassifyAPIError(&googleapi.Error{Code: http.StatusBadGateway})
	assert.ErrorIs(t, err, ErrSheetsAPI)
	assert.True(t, IsRetryable(err))

	err = ClassifyAPIError(&googleapi.Error{Code: http.StatusNotFound})
	assert.ErrorIs(t, err, ErrSheetsAPI)
	assert.False(t, IsRetryable(err))
}

func TestWithRetry(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return &googleapi.Error{Code: http.StatusServiceUnavailable}
			}
			return nil
		}, fastRetry(3))
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent failure", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return &googleapi.Error{Code: http.StatusBadRequest}
		}, fastRetry(5))
		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.ErrorIs(t, err, ErrSheetsAPI)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return errors.New("connection reset")
		}, fastRetry(2))
		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.Equal(t, 2, calls)
	})

	t.Run("honors cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := WithRetry(ctx, func() error {
			return errors.New("connection reset")
		}, service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Hour, MaxDelay: time.Hour})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger, err := SetupLogger(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info("hidden")
	slog.Warn("shown", "rows", 3)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"rows":3`)

	_, err = SetupLogger(&buf, "info", "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	assert.Same(t, logger, LoggerOrDefault(nil))
	other := slog.New(slog.NewTextHandler(&buf, nil))
	assert.Same(t, other, LoggerOrDefault(other))
}
