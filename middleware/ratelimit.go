package middleware

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"go-farmlink/logger"
	"go-farmlink/utils"
)

// Limiter 按键限流
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter 进程内令牌桶，每个键一个 rate.Limiter
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int
	maxKeys int
	now     func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter window 内最多 requests 次
func NewMemoryLimiter(requests int, window time.Duration) *MemoryLimiter {
	if requests <= 0 {
		requests = 1
	}
	return &MemoryLimiter{
		entries: make(map[string]*limiterEntry),
		limit:   rate.Every(window / time.Duration(requests)),
		burst:   requests,
		maxKeys: 10000,
		now:     time.Now,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	entry, ok := m.entries[key]
	if !ok {
		if len(m.entries) >= m.maxKeys {
			m.evictOldest()
		}
		entry = &limiterEntry{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1), nil
}

// evictOldest 移除最久未访问的键，其余键的计数保持不变
func (m *MemoryLimiter) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range m.entries {
		if oldestKey == "" || entry.lastSeen.Before(oldest) {
			oldestKey, oldest = key, entry.lastSeen
		}
	}
	delete(m.entries, oldestKey)
}

var redisAllowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RedisLimiter 固定窗口计数，多实例共享
type RedisLimiter struct {
	client   redis.Scripter
	requests int
	window   time.Duration
	prefix   string
}

// NewRedisLimiter 创建基于 redis 的限流器
func NewRedisLimiter(client redis.Scripter, requests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, requests: requests, window: window, prefix: "farmlink:ratelimit:"}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if r.requests <= 0 {
		return true, nil
	}
	windowMillis := r.window.Milliseconds()
	if windowMillis <= 0 {
		windowMillis = 1000
	}
	current, err := redisAllowScript.Run(ctx, r.client, []string{r.prefix + key}, windowMillis).Int64()
	if err != nil {
		return false, err
	}
	if current < 1 {
		return false, errors.New("unexpected redis rate limit response")
	}
	return current <= int64(r.requests), nil
}

// RateLimit 按路由与客户端 IP 限流。限流器出错时放行并记录日志
func RateLimit(limiter Limiter) gin.HandlerFunc {
	log := logger.NewSublogger("ratelimit")
	return func(c *gin.Context) {
		key := c.FullPath() + "|" + c.ClientIP()
		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.WithError(err).WithField("key", key).Warn("Rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			utils.TooManyRequests(c, "Too many requests, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
