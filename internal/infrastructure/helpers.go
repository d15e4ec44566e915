package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/catalog-enricher/pkg/e"
	"github.com/DRSN-tech/catalog-enricher/pkg/jitter"
	"github.com/DRSN-tech/catalog-enricher/pkg/logger"
)

// RetryPolicy задает число попыток и границы экспоненциальной задержки.
type RetryPolicy struct {
	MaxRetries int
	Base       time.Duration
	Max        time.Duration
}

func NewRetryPolicy(maxRetries int) RetryPolicy {
	const (
		baseJitter = 1 * time.Second
		maxJitter  = 30 * time.Second
	)

	return RetryPolicy{
		MaxRetries: maxRetries,
		Base:       baseJitter,
		Max:        maxJitter,
	}
}

// Retry вызывает fn, пока она не выполнится успешно, не кончатся попытки
// или ошибка не окажется постоянной (см. IsRetryableError).
func Retry(ctx context.Context, policy RetryPolicy, log logger.Logger, op string, fn func(ctx context.Context) error) error {
	attempts := max(policy.MaxRetries, 1)

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if !IsRetryableError(lastErr) {
			return e.Wrap(op, lastErr)
		}

		if attempt == attempts-1 {
			break
		}

		sleepTime := jitter.ExponentialBackoff(policy.Base, policy.Max, attempt, jitter.DefaultJitter)
		log.Warnf("%s failed, retrying in %v (attempt %d): %v", op, sleepTime, attempt+1, lastErr)

		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return e.Wrap(op, ctx.Err())
		}
	}

	return e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", attempts, lastErr))
}

// IsRetryableError определяет временные сетевые ошибки.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"leader not available",
		"connection reset",
		"broken pipe",
		"no such host",
		"slow down",
		"service unavailable",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}
