/*
 * @module service/rate_limiter/redis_rate_limiter
 * @description 基于Redis的导出接口限流，按API Key固定窗口计数
 * @architecture 工具层 - 提供分布式限流能力
 * @documentReference ai_docs/sharing_req.md
 * @stateFlow 导出请求 -> Redis Lua计数 -> 判断是否超限
 * @rules 使用INCR+EXPIRE固定窗口；Lua脚本保证计数与过期设置原子
 * @refs api/middleware/apikey_auth.go
 */

package rate_limiter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cast"
)

// RateLimitResult 限流检查结果
type RateLimitResult struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetAt   int64 `json:"reset_at"` // 窗口重置时间（Unix时间戳）
}

// RedisRateLimiter 导出接口限流器
type RedisRateLimiter struct {
	client      *redis.Client
	maxRequests int
	window      time.Duration
}

// NewRedisRateLimiterFromEnv 从环境变量创建限流器；Redis不可达时返回错误，调用方可降级为不限流
// EXPORT_RATE_LIMIT为窗口内最大请求数，EXPORT_RATE_WINDOW_SECONDS为窗口长度
func NewRedisRateLimiterFromEnv() (*RedisRateLimiter, error) {
	host := getEnvWithDefault("REDIS_HOST", "localhost")
	port := getEnvWithDefault("REDIS_PORT", "6379")
	password := os.Getenv("REDIS_PASSWORD")
	db := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		fmt.Sscanf(dbStr, "%d", &db)
	}

	maxRequests := cast.ToInt(getEnvWithDefault("EXPORT_RATE_LIMIT", "60"))
	windowSeconds := cast.ToInt(getEnvWithDefault("EXPORT_RATE_WINDOW_SECONDS", "60"))
	if maxRequests <= 0 || windowSeconds <= 0 {
		return nil, fmt.Errorf("非法限流配置: limit=%d window=%ds", maxRequests, windowSeconds)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis连接失败: %w", err)
	}

	slog.Info("导出限流器初始化成功",
		"limit", maxRequests,
		"window_seconds", windowSeconds,
		"redis_host", host,
		"redis_port", port)

	return &RedisRateLimiter{
		client:      client,
		maxRequests: maxRequests,
		window:      time.Duration(windowSeconds) * time.Second,
	}, nil
}

// 计数与过期设置需要原子执行，否则崩溃会留下无过期的计数键
var limitScript = redis.NewScript(`
	local current = redis.call('INCR', KEYS[1])
	if current == 1 then
		redis.call('EXPIRE', KEYS[1], ARGV[1])
	end
	local ttl = redis.call('TTL', KEYS[1])
	if ttl == -1 then
		ttl = tonumber(ARGV[1])
	end
	return {current, ttl}
`)

// Allow 检查并记一次请求；keyID为API Key的标识
func (r *RedisRateLimiter) Allow(ctx context.Context, keyID string) (*RateLimitResult, error) {
	windowSeconds := int(r.window.Seconds())
	key := buildRateLimitKey(keyID, time.Now(), windowSeconds)

	raw, err := limitScript.Run(ctx, r.client, []string{key}, windowSeconds).Result()
	if err != nil {
		return nil, fmt.Errorf("限流检查失败: %w", err)
	}

	values := raw.([]interface{})
	current := int(values[0].(int64))
	ttl := int(values[1].(int64))

	remaining := r.maxRequests - current
	if remaining < 0 {
		remaining = 0
	}

	return &RateLimitResult{
		Allowed:   current <= r.maxRequests,
		Limit:     r.maxRequests,
		Remaining: remaining,
		ResetAt:   time.Now().Add(time.Duration(ttl) * time.Second).Unix(),
	}, nil
}

// Reset 清空某API Key当前窗口的计数，仅供管理与测试
func (r *RedisRateLimiter) Reset(ctx context.Context, keyID string) error {
	key := buildRateLimitKey(keyID, time.Now(), int(r.window.Seconds()))
	return r.client.Del(ctx, key).Err()
}

// Close 关闭Redis客户端
func (r *RedisRateLimiter) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// buildRateLimitKey 按窗口编号构造键，窗口滚动时键自然切换
func buildRateLimitKey(keyID string, now time.Time, windowSeconds int) string {
	windowIndex := now.Unix() / int64(windowSeconds)
	return fmt.Sprintf("compass:rate_limit:%s:%d", keyID, windowIndex)
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
