package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dashboardKeyFmt = "society:%d:dashboard"
	reportKeyFmt    = "society:%d:report:%s"
)

var client *redis.Client

// Init initializes the Redis connection. The server degrades gracefully
// when Redis is unavailable; all helpers no-op on a nil client.
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "redis"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// hashCredentials creates a hash of email+password for cache key
func hashCredentials(email, password string) string {
	h := sha256.New()
	h.Write([]byte(email + ":" + password))
	return "auth:" + hex.EncodeToString(h.Sum(nil))[:32]
}

// GetCachedAuth checks if credentials are cached and valid
func GetCachedAuth(ctx context.Context, email, password string) (int, bool) {
	if client == nil {
		return 0, false
	}
	userID, err := client.Get(ctx, hashCredentials(email, password)).Int()
	if err != nil {
		return 0, false
	}
	return userID, true
}

// CacheAuth caches valid credentials for 15 minutes
func CacheAuth(ctx context.Context, email, password string, userID int) {
	if client == nil {
		return
	}
	client.Set(ctx, hashCredentials(email, password), userID, 15*time.Minute)
}

// GetCachedDashboard returns the cached dashboard payload for a society.
func GetCachedDashboard(ctx context.Context, societyID int) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, fmt.Sprintf(dashboardKeyFmt, societyID)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheDashboard caches the dashboard payload for 5 minutes.
func CacheDashboard(ctx context.Context, societyID int, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, fmt.Sprintf(dashboardKeyFmt, societyID), data, 5*time.Minute)
}

// GetCachedReport returns a cached report payload.
func GetCachedReport(ctx context.Context, societyID int, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, fmt.Sprintf(reportKeyFmt, societyID, key)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheReport caches a report payload for 5 minutes.
func CacheReport(ctx context.Context, societyID int, key string, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, fmt.Sprintf(reportKeyFmt, societyID, key), data, 5*time.Minute)
}

// InvalidateSociety clears all cached payloads for a society. Called
// after any billing mutation.
func InvalidateSociety(ctx context.Context, societyID int) {
	if client == nil {
		return
	}
	pattern := fmt.Sprintf("society:%d:*", societyID)
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}
