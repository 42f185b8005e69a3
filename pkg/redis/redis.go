package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aryankm/modacart-backend/config"
	"github.com/aryankm/modacart-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes the Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// RevokeToken adds an access token to the revocation list until it would
// have expired anyway. Used on logout so the credential cannot be replayed.
func RevokeToken(ctx context.Context, token string, expiry time.Duration) error {
	if client == nil {
		return errors.New("redis client not initialized")
	}

	key := fmt.Sprintf("revoked:%s", token)
	if err := client.Set(ctx, key, "revoked", expiry).Err(); err != nil {
		logger.Error("Failed to revoke token", err, nil)
		return err
	}

	logger.Debug("Token revoked", map[string]interface{}{
		"expiry": expiry.String(),
	})
	return nil
}

// IsTokenRevoked checks whether an access token has been revoked. When Redis
// is unavailable the token is treated as not revoked; authentication still
// requires a valid signature.
func IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	if client == nil {
		return false, nil
	}

	key := fmt.Sprintf("revoked:%s", token)
	_, err := client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
