// ABOUTME: Exponential backoff with jitter for rate-limited OpenRouter calls
// ABOUTME: Used by the LLM client when the provider answers 429
package util

import (
	"math/rand/v2"
	"time"
)

const maxBackoff = 30 * time.Second

// CalculateBackoff returns baseDelay doubled attempt times, capped at 30s, with +/-25% jitter
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	attempt = min(attempt, 30)
	backoff := min(baseDelay*time.Duration(1<<uint(attempt)), maxBackoff)
	if backoff < 2 {
		return max(backoff, 0)
	}
	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}
