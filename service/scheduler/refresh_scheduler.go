/*
 * @module service/scheduler/refresh_scheduler
 * @description 指标刷新调度器，按Cron表达式定时重算最新批次的报告与指标
 * @architecture 基于robfig/cron的调度器模式
 * @documentReference ai_docs/monitoring_req.md
 * @stateFlow 调度器启动 -> 定时触发刷新 -> 在住天数随时间推进 -> 停止时等待执行中任务
 * @rules 刷新失败只记录日志，等待下一个周期；默认每日凌晨执行；多实例部署时经分布式锁保证单实例执行
 * @dependencies github.com/robfig/cron/v3
 * @refs service/ingestion/upload_service.go, service/distributed_lock/redis_lock.go
 */

package scheduler

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

// 默认每日凌晨2点刷新（秒级Cron表达式）
const defaultRefreshSpec = "0 0 2 * * *"

// Refresher 可被调度刷新的服务
type Refresher interface {
	RefreshLatest(ctx context.Context) error
}

// Locker 分布式锁，多实例部署时保证刷新只由一个实例执行
type Locker interface {
	ExecuteWithLock(ctx context.Context, key string, ttl time.Duration, fn func() error) error
}

// refreshLockKey 定时刷新的锁键，TTL与刷新超时一致
const refreshLockKey = "metrics_refresh"

// RefreshScheduler 指标刷新调度器
type RefreshScheduler struct {
	cron      *cron.Cron
	refresher Refresher
	locker    Locker // 可为nil，单实例部署时直接执行
	spec      string
	entryID   cron.EntryID
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewRefreshScheduler 创建调度器；Cron表达式从METRICS_REFRESH_CRON读取
func NewRefreshScheduler(refresher Refresher, locker Locker) *RefreshScheduler {
	spec := os.Getenv("METRICS_REFRESH_CRON")
	if spec == "" {
		spec = defaultRefreshSpec
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &RefreshScheduler{
		cron:      cron.New(cron.WithSeconds()),
		refresher: refresher,
		locker:    locker,
		spec:      spec,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start 注册刷新任务并启动调度器
func (s *RefreshScheduler) Start() error {
	entryID, err := s.cron.AddFunc(s.spec, s.runRefresh)
	if err != nil {
		return err
	}
	s.entryID = entryID
	s.cron.Start()

	slog.Info("指标刷新调度器已启动", "cron", s.spec)
	return nil
}

// runRefresh 执行一次刷新，超时保护5分钟
func (s *RefreshScheduler) runRefresh() {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	refresh := func() error {
		start := time.Now()
		if err := s.refresher.RefreshLatest(ctx); err != nil {
			return err
		}
		slog.Info("定时指标刷新完成", "duration", time.Since(start).String())
		return nil
	}

	var err error
	if s.locker != nil {
		err = s.locker.ExecuteWithLock(ctx, refreshLockKey, 5*time.Minute, refresh)
	} else {
		err = refresh()
	}
	if err != nil {
		slog.Error("定时指标刷新失败", "error", err)
	}
}

// Stop 停止调度器并等待执行中的任务结束
func (s *RefreshScheduler) Stop() {
	s.cancel()
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	slog.Info("指标刷新调度器已停止")
}
