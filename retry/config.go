// Package retry provides retry with exponential backoff for transient
// provider errors.
package retry

import (
	"math"
	"math/rand"
	"time"
)

// Config holds retry parameters.
type Config struct {
	// MaxAttempts is the total number of attempts, counting the first
	// call. Values below 1 are treated as 1.
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the computed delay between retries.
	MaxDelay time.Duration

	// Multiplier grows the delay after each attempt.
	Multiplier float64

	// Jitter randomizes each delay by (1 + random(-jitter, +jitter))
	// to spread out retries.
	Jitter float64
}

// DefaultConfig returns a configuration suitable for background work:
// 10 attempts, 1s initial delay doubling up to 60s, 10% jitter.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  10,
		InitialDelay: 1 * time.Second,
		MaxDelay:     60 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Disabled returns a configuration that makes a single attempt.
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

// Delay computes the backoff delay for a 0-indexed attempt:
// min(MaxDelay, InitialDelay * Multiplier^attempt), then jitter.
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	if c.Jitter > 0 {
		delay *= 1.0 + (rand.Float64()*2-1)*c.Jitter
	}

	return time.Duration(delay)
}
