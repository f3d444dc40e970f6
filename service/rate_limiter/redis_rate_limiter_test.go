/*
 * @module service/rate_limiter/redis_rate_limiter_test
 * @description 导出限流器单元测试
 * @architecture 单元测试
 */

package rate_limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestBuildRateLimitKey 测试窗口键构造
func TestBuildRateLimitKey(t *testing.T) {
	base := time.Unix(1700000000, 0)

	t.Run("同一窗口内键相同", func(t *testing.T) {
		k1 := buildRateLimitKey("key-1", base, 60)
		k2 := buildRateLimitKey("key-1", base.Add(30*time.Second), 60)
		assert.Equal(t, k1, k2)
	})

	t.Run("跨窗口后键切换", func(t *testing.T) {
		k1 := buildRateLimitKey("key-1", base, 60)
		k2 := buildRateLimitKey("key-1", base.Add(61*time.Second), 60)
		assert.NotEqual(t, k1, k2)
	})

	t.Run("不同API Key互不影响", func(t *testing.T) {
		k1 := buildRateLimitKey("key-1", base, 60)
		k2 := buildRateLimitKey("key-2", base, 60)
		assert.NotEqual(t, k1, k2)
	})

	t.Run("键带命名空间前缀", func(t *testing.T) {
		assert.Contains(t, buildRateLimitKey("key-1", base, 60), "compass:rate_limit:key-1:")
	})
}

// TestRateLimiterRejectsBadConfig 测试非法限流配置
func TestRateLimiterRejectsBadConfig(t *testing.T) {
	t.Setenv("EXPORT_RATE_LIMIT", "0")
	_, err := NewRedisRateLimiterFromEnv()
	assert.Error(t, err)
}
