/*
 * @module service/scheduler/refresh_scheduler_test
 * @description 指标刷新调度器单元测试
 * @architecture 单元测试
 */

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRefresher struct {
	calls int
	err   error
}

func (s *stubRefresher) RefreshLatest(ctx context.Context) error {
	s.calls++
	return s.err
}

// TestRunRefreshInvokesRefresher 测试刷新任务调用底层服务
func TestRunRefreshInvokesRefresher(t *testing.T) {
	stub := &stubRefresher{}
	scheduler := NewRefreshScheduler(stub, nil)

	scheduler.runRefresh()

	assert.Equal(t, 1, stub.calls)
}

// TestRunRefreshSwallowsError 测试刷新失败不panic，等待下一周期
func TestRunRefreshSwallowsError(t *testing.T) {
	stub := &stubRefresher{err: errors.New("db down")}
	scheduler := NewRefreshScheduler(stub, nil)

	assert.NotPanics(t, scheduler.runRefresh)
	assert.Equal(t, 1, stub.calls)
}

type stubLocker struct {
	acquired bool // 是否允许本实例获取锁
	calls    int
}

func (s *stubLocker) ExecuteWithLock(ctx context.Context, key string, ttl time.Duration, fn func() error) error {
	s.calls++
	if !s.acquired {
		return nil
	}
	return fn()
}

// TestRunRefreshWithLock 测试持锁实例执行刷新
func TestRunRefreshWithLock(t *testing.T) {
	stub := &stubRefresher{}
	locker := &stubLocker{acquired: true}
	scheduler := NewRefreshScheduler(stub, locker)

	scheduler.runRefresh()

	assert.Equal(t, 1, locker.calls)
	assert.Equal(t, 1, stub.calls)
}

// TestRunRefreshSkipsWhenLockHeld 测试锁被其他实例持有时跳过刷新
func TestRunRefreshSkipsWhenLockHeld(t *testing.T) {
	stub := &stubRefresher{}
	scheduler := NewRefreshScheduler(stub, &stubLocker{acquired: false})

	scheduler.runRefresh()

	assert.Equal(t, 0, stub.calls)
}

// TestSchedulerStartStop 测试调度器启停
func TestSchedulerStartStop(t *testing.T) {
	t.Setenv("METRICS_REFRESH_CRON", "0 0 2 * * *")
	scheduler := NewRefreshScheduler(&stubRefresher{}, nil)

	require.NoError(t, scheduler.Start())
	scheduler.Stop()
}

// TestSchedulerRejectsBadCron 测试非法Cron表达式启动报错
func TestSchedulerRejectsBadCron(t *testing.T) {
	t.Setenv("METRICS_REFRESH_CRON", "not a cron")
	scheduler := NewRefreshScheduler(&stubRefresher{}, nil)

	assert.Error(t, scheduler.Start())
}
