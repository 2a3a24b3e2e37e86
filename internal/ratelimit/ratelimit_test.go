package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryLimiter_BurstThenDeny(t *testing.T) {
	limiter := NewInMemoryLimiter(1, time.Hour, 2)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))

	// Separate clients get separate buckets.
	assert.True(t, limiter.Allow("10.0.0.2"))
}
