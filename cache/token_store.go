package cache

import (
	"context"
	"time"
)

// Entry is a verified bearer token memoized until its natural expiry. There
// is no revocation in this system, so a cached entry can never go stale
// before the token itself does.
type Entry struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenStore caches the result of token verification keyed by token hash.
type TokenStore interface {
	// Set stores an entry until the token's expiry.
	Set(ctx context.Context, tokenValue string, entry *Entry) error

	// Get returns the cached entry for the token, or false on a miss.
	Get(ctx context.Context, tokenValue string) (*Entry, bool)

	// Delete removes a token from the store.
	Delete(ctx context.Context, tokenValue string) error

	// Close releases any resources held by the store.
	Close() error
}
