package middleware

import (
	"context"
	"math"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"wish-wall-server/internal/config"
	"wish-wall-server/internal/logger"
	"wish-wall-server/internal/platform/cache"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const MsgTooManyRequests = "Too many requests, please try again later"

type IPRateLimiter struct {
	ips sync.Map
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

type client struct {
	limiter *rate.Limiter
	// 最近一次访问时间 (UnixNano)，请求协程与清理协程并发读写
	lastSeen atomic.Int64
}

func (c *client) touch() {
	c.lastSeen.Store(time.Now().UnixNano())
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		r: r,
		b: b,
	}

	go i.cleanupLoop()

	return i
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.touch()
		return c.limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Double check
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.touch()
		return c.limiter
	}

	c := &client{limiter: rate.NewLimiter(i.r, i.b)}
	c.touch()
	i.ips.Store(ip, c)

	return c.limiter
}

// Allow 判断该 IP 当前是否还有可用令牌
func (i *IPRateLimiter) Allow(ip string) bool {
	return i.getLimiter(ip).Allow()
}

func (i *IPRateLimiter) cleanupLoop() {
	for {
		time.Sleep(1 * time.Minute)
		i.evictIdle(time.Now(), 3*time.Minute)
	}
}

// evictIdle 删除超过 idle 未访问的 IP
func (i *IPRateLimiter) evictIdle(now time.Time, idle time.Duration) {
	cutoff := now.Add(-idle).UnixNano()
	i.ips.Range(func(key, value interface{}) bool {
		if value.(*client).lastSeen.Load() < cutoff {
			i.ips.Delete(key)
		}
		return true
	})
}

// allowByRedisRateLimit 基于 Redis 的固定窗口限流，多实例共享计数。
// 窗口长度为 burst/rps 秒，窗口内最多放行 burst 次。
func allowByRedisRateLimit(client *redis.Client, key string, rps float64, burst int) (bool, error) {
	if rps <= 0 || burst <= 0 {
		return true, nil
	}

	window := time.Duration(math.Ceil(float64(burst)/rps*1000)) * time.Millisecond
	if window < time.Second {
		window = time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := client.PExpire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(burst), nil
}

// RateLimitMiddleware 按客户端 IP 限制请求频率。
// redisClient 非 nil 时优先使用 Redis 计数，Redis 出错时回退到本地令牌桶。
// rps 或 burst 不为正时无法换算固定窗口，只使用本地令牌桶。
func RateLimitMiddleware(cfg config.RateLimitConfig, redisClient *redis.Client, prefix string) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := NewIPRateLimiter(rate.Limit(cfg.RPS), cfg.Burst)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		allowed := false
		useMemory := true
		if redisClient != nil && cfg.RPS > 0 && cfg.Burst > 0 {
			ok, err := allowByRedisRateLimit(redisClient, cache.Key(prefix, "rate", ip), cfg.RPS, cfg.Burst)
			if err == nil {
				allowed = ok
				useMemory = false
			} else {
				logger.Log.WithFields(logrus.Fields{"error": err, "client_ip": ip}).Warn("Redis 限流失败，回退本地限流")
			}
		}
		if useMemory {
			allowed = limiter.Allow(ip)
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": MsgTooManyRequests})
			c.Abort()
			return
		}
		c.Next()
	}
}
