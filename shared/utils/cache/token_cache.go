package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"taskvault-backend/shared/config"
)

// TokenCache fronts the blacklist table with Redis so revoked access tokens
// can be rejected without a database round trip. The database row stays the
// source of truth: a cache miss only means "check the store", never "token
// is valid". All methods are safe on a nil receiver so the API degrades to
// store-only lookups when Redis is unavailable.
type TokenCache struct {
	client *redis.Client
	ctx    context.Context
}

var globalTokenCache *TokenCache

// InitTokenCache connects to Redis and installs the global cache instance.
func InitTokenCache() error {
	cfg := config.GetConfig()

	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		log.Printf("❌ Invalid Redis DB number: %s, using default 0", cfg.RedisDB)
		redisDB = 0
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	globalTokenCache = &TokenCache{
		client: client,
		ctx:    ctx,
	}

	log.Printf("✅ Redis token cache initialized - %s:%s DB:%d",
		cfg.RedisHost, cfg.RedisPort, redisDB)

	return nil
}

// GetTokenCache returns the global token cache, or nil when InitTokenCache
// was never called or failed.
func GetTokenCache() *TokenCache {
	return globalTokenCache
}

func blacklistKey(token string) string {
	return fmt.Sprintf("blacklist:%s", token)
}

// BlacklistToken records a revoked access token for its remaining lifetime.
// A nil cache or non-positive TTL is a no-op.
func (tc *TokenCache) BlacklistToken(token string, ttl time.Duration) error {
	if tc == nil || tc.client == nil {
		return nil
	}
	if ttl <= 0 {
		return nil
	}

	err := tc.client.Set(tc.ctx, blacklistKey(token), "1", ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to cache blacklisted token: %v", err)
	}

	log.Printf("🔄 Token blacklist cached (TTL: %v)", ttl)
	return nil
}

// IsBlacklisted reports whether the token is in the cache. False includes
// "cache unavailable", callers must still consult the store.
func (tc *TokenCache) IsBlacklisted(token string) bool {
	if tc == nil || tc.client == nil {
		return false
	}

	count, err := tc.client.Exists(tc.ctx, blacklistKey(token)).Result()
	if err != nil {
		log.Printf("❌ Token cache lookup error: %v", err)
		return false
	}

	return count > 0
}

// Close closes the underlying Redis connection.
func (tc *TokenCache) Close() error {
	if tc != nil && tc.client != nil {
		return tc.client.Close()
	}
	return nil
}
