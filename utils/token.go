package utils

import (
	"context"
	"sync"
	"time"
)

// TokenBlacklist remembers revoked tokens until their expiry.
type TokenBlacklist struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (b *TokenBlacklist) Add(token string, expiry time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = expiry
}

func (b *TokenBlacklist) IsBlacklisted(token string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	expiry, exists := b.tokens[token]
	return exists && b.now().Before(expiry)
}

// Cleanup drops entries whose tokens have expired and returns how many were
// removed.
func (b *TokenBlacklist) Cleanup() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	removed := 0
	for token, expiry := range b.tokens {
		if !now.Before(expiry) {
			delete(b.tokens, token)
			removed++
		}
	}
	return removed
}

func (b *TokenBlacklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.tokens)
}

// StartCleanup runs Cleanup every interval until ctx is cancelled.
func (b *TokenBlacklist) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := b.Cleanup(); n > 0 {
					InfoLogger.Debugf("Removed %d expired tokens from blacklist", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
