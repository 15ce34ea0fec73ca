package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hndang/servihub-backend/config"
	"github.com/hndang/servihub-backend/pkg/logger"
)

var client *redis.Client

// Init initializes Redis connection
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

	// Test connection
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

const serviceViewsKey = "service:views"

// ViewCounter tracks per-service view counts in a Redis sorted set so the
// most viewed services can be ranked for the trending endpoint.
type ViewCounter struct {
	client *redis.Client
}

func NewViewCounter(c *redis.Client) *ViewCounter {
	return &ViewCounter{client: c}
}

// Increment bumps the view count for a service.
func (v *ViewCounter) Increment(ctx context.Context, serviceID uint) error {
	member := strconv.FormatUint(uint64(serviceID), 10)
	return v.client.ZIncrBy(ctx, serviceViewsKey, 1, member).Err()
}

// Top returns up to n service IDs ordered by view count, most viewed first.
func (v *ViewCounter) Top(ctx context.Context, n int) ([]uint, error) {
	members, err := v.client.ZRevRange(ctx, serviceViewsKey, 0, int64(n)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read service view ranking: %w", err)
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
