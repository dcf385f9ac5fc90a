package utils

import (
	"context"
	"log"
	"time"

	"therapia/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client (match results and sessions).
	CacheClient *redis.Client
	// HoldsClient is the dedicated client for slot-hold state.
	HoldsClient *redis.Client
)

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitHoldsCache initializes the Redis client backing slot holds.
func InitHoldsCache() {
	HoldsClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisHoldsDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := HoldsClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Holds): %v", err)
	}
}

// GetHoldsClient returns the Redis client backing slot holds.
func GetHoldsClient() *redis.Client {
	if HoldsClient == nil {
		InitHoldsCache()
	}
	return HoldsClient
}

// InitRedis initializes all Redis clients.
func InitRedis() {
	InitCache()
	InitHoldsCache()
}
