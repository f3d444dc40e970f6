/*
 * @module service/distributed_lock/redis_lock
 * @description Redis分布式锁，多实例部署时保证定时指标刷新只由一个实例执行
 * @architecture 工具层 - 提供分布式锁能力
 * @documentReference ai_docs/monitoring_req.md
 * @stateFlow 获取锁 -> 执行刷新 -> 释放锁/自动过期
 * @rules 使用Redis SET NX实现；锁未获取到不是错误，表示其他实例在执行
 * @dependencies github.com/go-redis/redis/v8
 * @refs service/scheduler/refresh_scheduler.go
 */

package distributed_lock

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// lockKeyPrefix 锁键前缀，与缓存键同命名空间
const lockKeyPrefix = "compass:lock:"

// RedisLock Redis分布式锁
type RedisLock struct {
	client     *redis.Client
	instanceID string
}

// NewRedisLockFromEnv 从环境变量创建分布式锁；Redis不可达时返回错误，调用方可降级为单实例模式
func NewRedisLockFromEnv() (*RedisLock, error) {
	host := getEnvWithDefault("REDIS_HOST", "localhost")
	port := getEnvWithDefault("REDIS_PORT", "6379")
	password := os.Getenv("REDIS_PASSWORD")
	db := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		fmt.Sscanf(dbStr, "%d", &db)
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

	hostname, _ := os.Hostname()
	instanceID := fmt.Sprintf("%s:%d", hostname, os.Getpid())

	slog.Info("分布式锁初始化成功", "instance_id", instanceID, "redis_host", host, "redis_port", port)
	return &RedisLock{client: client, instanceID: instanceID}, nil
}

// TryLock 尝试获取锁，key不存在时设置成功
func (r *RedisLock) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	locked, err := r.client.SetNX(ctx, lockKeyPrefix+key, r.instanceID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("获取锁失败: %w", err)
	}
	return locked, nil
}

// Unlock 释放锁，Lua脚本保证只有持有者能释放
func (r *RedisLock) Unlock(ctx context.Context, key string) error {
	script := `
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`
	result, err := r.client.Eval(ctx, script, []string{lockKeyPrefix + key}, r.instanceID).Result()
	if err != nil {
		return fmt.Errorf("释放锁失败: %w", err)
	}
	if result.(int64) != 1 {
		slog.Warn("锁不存在或已被其他实例持有", "key", key, "instance", r.instanceID)
	}
	return nil
}

// ExecuteWithLock 在锁保护下执行fn；锁被其他实例持有时静默跳过
func (r *RedisLock) ExecuteWithLock(ctx context.Context, key string, ttl time.Duration, fn func() error) error {
	locked, err := r.TryLock(ctx, key, ttl)
	if err != nil {
		return err
	}
	if !locked {
		slog.Debug("锁已被其他实例持有，跳过执行", "key", key)
		return nil
	}
	defer func() {
		if unlockErr := r.Unlock(ctx, key); unlockErr != nil {
			slog.Error("释放锁失败", "key", key, "error", unlockErr)
		}
	}()
	return fn()
}

// Close 关闭Redis客户端
func (r *RedisLock) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
