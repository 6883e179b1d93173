package api

import (
	"sync"

	"golang.org/x/time/rate"
)

// keyLimiters hands out one token bucket per caller key.
type keyLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

func newKeyLimiters(every rate.Limit, burst int) *keyLimiters {
	return &keyLimiters{
		limiters: make(map[string]*rate.Limiter),
		every:    every,
		burst:    burst,
	}
}

func (k *keyLimiters) get(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	limiter, ok := k.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(k.every, k.burst)
		k.limiters[key] = limiter
	}
	return limiter
}
