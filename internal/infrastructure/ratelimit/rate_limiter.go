package ratelimit

import (
	"sync"
	"time"
)

// TokenBucket is a refillable token counter guarding one user+action pair.
type TokenBucket struct {
	tokens     int
	maxTokens  int
	refillRate int
	refillTime time.Duration
	lastRefill time.Time
	mutex      sync.Mutex
}

func NewTokenBucket(maxTokens, refillRate int, refillTime time.Duration) *TokenBucket {
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		refillTime: refillTime,
		lastRefill: time.Now(),
	}
}

// Allow consumes a token if one is available; otherwise it reports how long
// the caller must wait for the next refill.
func (tb *TokenBucket) Allow() (bool, time.Duration) {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	now := time.Now()

	elapsed := now.Sub(tb.lastRefill)
	tokensToAdd := int(elapsed/tb.refillTime) * tb.refillRate

	if tokensToAdd > 0 {
		tb.tokens += tokensToAdd
		if tb.tokens > tb.maxTokens {
			tb.tokens = tb.maxTokens
		}
		tb.lastRefill = now
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true, 0
	}

	nextRefill := tb.lastRefill.Add(tb.refillTime)
	return false, nextRefill.Sub(now)
}

// RateLimiter manages per-user, per-action token buckets.
type RateLimiter struct {
	buckets map[string]*TokenBucket
	mutex   sync.RWMutex
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*TokenBucket),
	}
}

// Limits per action. Message sends are generous; room creation and purchase
// requests are kept tight because each fans out writes.
func bucketFor(action string) *TokenBucket {
	switch action {
	case "send_message":
		return NewTokenBucket(20, 10, 10*time.Second)
	case "create_room":
		return NewTokenBucket(5, 2, 30*time.Second)
	case "purchase_request":
		return NewTokenBucket(3, 1, time.Minute)
	default:
		return NewTokenBucket(30, 15, 10*time.Second)
	}
}

// Allow checks if a user action is permitted right now.
func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	key := userID + ":" + action

	rl.mutex.RLock()
	bucket, ok := rl.buckets[key]
	rl.mutex.RUnlock()

	if !ok {
		rl.mutex.Lock()
		bucket, ok = rl.buckets[key]
		if !ok {
			bucket = bucketFor(action)
			rl.buckets[key] = bucket
		}
		rl.mutex.Unlock()
	}

	return bucket.Allow()
}

// StartCleanupRoutine drops idle buckets so the map does not grow without
// bound under churny traffic.
func (rl *RateLimiter) StartCleanupRoutine() {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			rl.mutex.Lock()
			for key, bucket := range rl.buckets {
				bucket.mutex.Lock()
				idle := time.Since(bucket.lastRefill) > 30*time.Minute
				bucket.mutex.Unlock()
				if idle {
					delete(rl.buckets, key)
				}
			}
			rl.mutex.Unlock()
		}
	}()
}
