package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/himuexe/Utsavia/cache"
)

// TokenStore implements cache.TokenStore backed by Redis, for deployments
// running more than one API instance.
type TokenStore struct {
	client *redis.Client
	prefix string
}

// NewTokenStore creates a new Redis-backed token store. The prefix namespaces
// keys so the store can share a database with other consumers.
func NewTokenStore(client *redis.Client, prefix string) *TokenStore {
	return &TokenStore{client: client, prefix: prefix}
}

func (r *TokenStore) redisKey(tokenValue string) string {
	return fmt.Sprintf("%s:token:%s", r.prefix, cache.HashToken(tokenValue))
}

// Set stores a verified token entry with an expiry matching the token's own.
func (r *TokenStore) Set(ctx context.Context, tokenValue string, entry *cache.Entry) error {
	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	key := r.redisKey(tokenValue)
	fields := map[string]interface{}{
		"user_id":    entry.UserID,
		"expires_at": entry.ExpiresAt.Unix(),
	}
	if _, err := r.client.HSet(ctx, key, fields).Result(); err != nil {
		return fmt.Errorf("failed to set token in Redis: %w", err)
	}
	if _, err := r.client.Expire(ctx, key, ttl).Result(); err != nil {
		return fmt.Errorf("failed to set expiry for token in Redis: %w", err)
	}
	return nil
}

// Get retrieves a token entry from Redis.
func (r *TokenStore) Get(ctx context.Context, tokenValue string) (*cache.Entry, bool) {
	res, err := r.client.HGetAll(ctx, r.redisKey(tokenValue)).Result()
	if err != nil || len(res) == 0 {
		return nil, false
	}

	expiresAtUnix, err := strconv.ParseInt(res["expires_at"], 10, 64)
	if err != nil {
		return nil, false
	}
	expiresAt := time.Unix(expiresAtUnix, 0)
	if time.Now().After(expiresAt) {
		return nil, false
	}

	return &cache.Entry{
		UserID:    res["user_id"],
		ExpiresAt: expiresAt,
	}, true
}

// Delete removes a token from Redis.
func (r *TokenStore) Delete(ctx context.Context, tokenValue string) error {
	if _, err := r.client.Del(ctx, r.redisKey(tokenValue)).Result(); err != nil {
		return fmt.Errorf("failed to delete token from Redis: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (r *TokenStore) Close() error {
	return r.client.Close()
}

var _ cache.TokenStore = (*TokenStore)(nil)
