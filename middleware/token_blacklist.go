package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// noExpiryRetention bounds how long a token without exp stays revoked
const noExpiryRetention = 30 * 24 * time.Hour

// TokenBlacklist remembers revoked tokens until they would have expired
type TokenBlacklist interface {
	Add(ctx context.Context, token string, until time.Time) error
	Contains(ctx context.Context, token string) (bool, error)
}

// RedisBlacklist shares revocations between instances
type RedisBlacklist struct {
	client *redis.Client
	prefix string
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client, prefix: "token_blacklist:"}
}

func (b *RedisBlacklist) Add(ctx context.Context, token string, until time.Time) error {
	ttl := retention(until)
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, b.prefix+fingerprint(token), "1", ttl).Err()
}

func (b *RedisBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	n, err := b.client.Exists(ctx, b.prefix+fingerprint(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryBlacklist is used when Redis is unavailable
type MemoryBlacklist struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{tokens: make(map[string]time.Time)}
}

func (b *MemoryBlacklist) Add(_ context.Context, token string, until time.Time) error {
	ttl := retention(until)
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	b.tokens[fingerprint(token)] = time.Now().Add(ttl)
	b.mu.Unlock()
	return nil
}

func (b *MemoryBlacklist) Contains(_ context.Context, token string) (bool, error) {
	b.mu.RLock()
	expiry, ok := b.tokens[fingerprint(token)]
	b.mu.RUnlock()
	return ok && time.Now().Before(expiry), nil
}

// Cleanup periodically removes expired entries until ctx is done
func (b *MemoryBlacklist) Cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			b.mu.Lock()
			for token, expiry := range b.tokens {
				if now.After(expiry) {
					delete(b.tokens, token)
				}
			}
			b.mu.Unlock()
		}
	}
}

func retention(until time.Time) time.Duration {
	if until.IsZero() {
		return noExpiryRetention
	}
	return time.Until(until)
}

func fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
