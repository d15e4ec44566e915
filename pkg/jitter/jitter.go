// Package jitter добавляет случайность в интервалы повторных попыток,
// чтобы повторные обращения к внешним сервисам не приходили одновременно.
package jitter

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

var (
	globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMutex  sync.Mutex
)

// Duration возвращает d с джиттером в диапазоне [d, d*(1+jitterFactor)].
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	randMutex.Lock()
	f := globalRand.Float64()
	randMutex.Unlock()

	return apply(d, jitterFactor, f)
}

// Backoff считает экспоненциальную задержку для попытки attempt (с нуля), не больше max.
// Джиттер не применяется.
func Backoff(base, max time.Duration, attempt int) time.Duration {
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff > max {
			return max
		}
	}
	return backoff
}

// ExponentialBackoff — Backoff с джиттером.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	return Duration(Backoff(base, max, attempt), jitterFactor)
}

func apply(d time.Duration, jitterFactor, f float64) time.Duration {
	return d + time.Duration(f*jitterFactor*float64(d))
}
