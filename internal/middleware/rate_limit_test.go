package middleware

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"wish-wall-server/internal/config"

	"github.com/redis/go-redis/v9"
)

// 测试内容：验证限流关闭时请求不会被拦截。
func TestRateLimitMiddleware_DisabledAllowsRequests(t *testing.T) {
	r := newEngine(RateLimitMiddleware(config.RateLimitConfig{Enabled: false, RPS: 0, Burst: 1}, nil, ""))

	for i := 0; i < 3; i++ {
		if w := doGet(r, "1.2.3.4:1111"); w.Code != http.StatusOK {
			t.Fatalf("第 %d 次请求期望 200，实际为 %d", i+1, w.Code)
		}
	}
}

// 测试内容：验证限流开启且无补充时会阻止突发请求。
func TestRateLimitMiddleware_EnabledBlocksBurst(t *testing.T) {
	r := newEngine(RateLimitMiddleware(config.RateLimitConfig{Enabled: true, RPS: 0, Burst: 1}, nil, ""))

	if w := doGet(r, "1.2.3.4:1111"); w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d", w.Code)
	}
	w := doGet(r, "1.2.3.4:1111")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("期望 429，实际为 %d", w.Code)
	}
	if w.Body.String() != `{"error":"`+MsgTooManyRequests+`"}` {
		t.Fatalf("非预期的响应体: %s", w.Body.String())
	}
}

// 测试内容：验证不同 IP 拥有独立的令牌桶。
func TestRateLimitMiddleware_PerIP(t *testing.T) {
	r := newEngine(RateLimitMiddleware(config.RateLimitConfig{Enabled: true, RPS: 0, Burst: 1}, nil, ""))

	if w := doGet(r, "1.2.3.4:1111"); w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d", w.Code)
	}
	if w := doGet(r, "5.6.7.8:1111"); w.Code != http.StatusOK {
		t.Fatalf("另一 IP 期望 200，实际为 %d", w.Code)
	}
}

// 测试内容：验证 Redis 不可用时回退到本地限流。
func TestRateLimitMiddleware_RedisUnavailableFallsBackToMemory(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
	})
	defer func() { _ = client.Close() }()

	// 约 1000 秒补充一个令牌，测试期间不会补充
	r := newEngine(RateLimitMiddleware(config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}, client, "test"))

	if w := doGet(r, "1.2.3.4:1111"); w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d", w.Code)
	}
	if w := doGet(r, "1.2.3.4:1111"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("期望回退后 429，实际为 %d", w.Code)
	}
}

// 测试内容：验证 rps 为 0 时即使配置了 Redis 也按本地令牌桶拦截突发请求。
func TestRateLimitMiddleware_ZeroRPSWithRedisUsesMemory(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
	})
	defer func() { _ = client.Close() }()

	r := newEngine(RateLimitMiddleware(config.RateLimitConfig{Enabled: true, RPS: 0, Burst: 1}, client, "test"))

	if w := doGet(r, "1.2.3.4:1111"); w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d", w.Code)
	}
	for i := 0; i < 3; i++ {
		if w := doGet(r, "1.2.3.4:1111"); w.Code != http.StatusTooManyRequests {
			t.Fatalf("第 %d 次重复请求期望 429，实际为 %d", i+1, w.Code)
		}
	}
}

// 测试内容：验证同一 IP 的并发请求共享令牌桶，且并发访问不会产生数据竞争（配合 -race 运行）。
func TestIPRateLimiter_ConcurrentAllow(t *testing.T) {
	l := &IPRateLimiter{r: 0, b: 10}

	var (
		wg      sync.WaitGroup
		allowed atomic.Int64
	)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if l.Allow("1.1.1.1") {
					allowed.Add(1)
				}
			}
		}()
	}
	// 清理与请求并发执行
	l.evictIdle(time.Now(), time.Hour)
	wg.Wait()

	if got := allowed.Load(); got != 10 {
		t.Fatalf("期望共放行 10 次，实际为 %d", got)
	}
}

// 测试内容：验证清理只删除长时间未访问的 IP。
func TestIPRateLimiter_EvictIdle(t *testing.T) {
	l := &IPRateLimiter{r: 0, b: 1}
	l.Allow("1.1.1.1")
	l.Allow("2.2.2.2")

	// 把 1.1.1.1 的最近访问时间拨回 10 分钟前
	v, _ := l.ips.Load("1.1.1.1")
	v.(*client).lastSeen.Store(time.Now().Add(-10 * time.Minute).UnixNano())

	l.evictIdle(time.Now(), 3*time.Minute)

	if _, ok := l.ips.Load("1.1.1.1"); ok {
		t.Fatalf("期望空闲 IP 被清理")
	}
	if _, ok := l.ips.Load("2.2.2.2"); !ok {
		t.Fatalf("活跃 IP 不应被清理")
	}
}

// 测试内容：验证 rps/burst 非正时 Redis 计数函数不访问 Redis 直接放行，中间件在此情况下只走本地令牌桶。
func TestAllowByRedisRateLimit_DisabledReturnsOK(t *testing.T) {
	ok, err := allowByRedisRateLimit(nil, "rate", 0, 1)
	if err != nil || !ok {
		t.Fatalf("期望直接放行，实际为 ok=%v err=%v", ok, err)
	}
	ok, err = allowByRedisRateLimit(nil, "rate", 1, 0)
	if err != nil || !ok {
		t.Fatalf("期望直接放行，实际为 ok=%v err=%v", ok, err)
	}
}

// 测试内容：验证 Redis 不可用时速率限流返回错误。
func TestAllowByRedisRateLimit_UnavailableRedisReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
	})
	defer func() { _ = client.Close() }()

	ok, err := allowByRedisRateLimit(client, "rate", 1, 1)
	if err == nil || ok {
		t.Fatalf("期望 redis 错误，实际为 ok=%v err=%v", ok, err)
	}
}
