package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wish-wall-server/internal/config"
	"wish-wall-server/internal/logger"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "wish_wall"

// NewRedisClient 创建 Redis 客户端；未启用或不可用时返回 nil，调用方降级为内存模式。
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		logger.Log.WithError(err).Warn("⚠️ Redis 不可用，降级为内存模式")
		return nil
	}

	logger.Log.WithField("addr", cfg.Addr).WithField("db", cfg.DB).Info("✅ Redis 已连接")
	return client
}

// CloseRedisClient 关闭 Redis 客户端连接。
func CloseRedisClient(client *redis.Client) error {
	if client == nil {
		return nil
	}
	if err := client.Close(); err != nil {
		return fmt.Errorf("close redis failed: %w", err)
	}
	return nil
}

// Key 基于配置前缀拼接 Redis 键名。
func Key(prefix string, parts ...string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	if len(parts) == 0 {
		return prefix
	}
	return prefix + ":" + strings.Join(parts, ":")
}
