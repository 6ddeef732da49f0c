package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhaustionAndRefill(t *testing.T) {
	bucket := NewTokenBucket(2, 2, 50*time.Millisecond)

	allowed, _ := bucket.Allow()
	assert.True(t, allowed)
	allowed, _ = bucket.Allow()
	assert.True(t, allowed)

	allowed, wait := bucket.Allow()
	assert.False(t, allowed)
	assert.Greater(t, wait, time.Duration(0))

	time.Sleep(60 * time.Millisecond)
	allowed, _ = bucket.Allow()
	assert.True(t, allowed)
}

func TestRateLimiterIsolatesUsersAndActions(t *testing.T) {
	limiter := NewRateLimiter()

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow("u1", "purchase_request")
		assert.True(t, allowed)
	}
	allowed, _ := limiter.Allow("u1", "purchase_request")
	assert.False(t, allowed)

	// Another user and another action are unaffected.
	allowed, _ = limiter.Allow("u2", "purchase_request")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("u1", "send_message")
	assert.True(t, allowed)
}
