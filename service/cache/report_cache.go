/*
 * @module service/cache/report_cache
 * @description 最新批次质量报告与指标的Redis缓存，读路径优先命中缓存
 * @architecture 缓存层 - cache-aside，上传处理为唯一写入方
 * @documentReference ai_docs/compliance_req.md
 * @stateFlow 上传处理完成 -> 整体覆盖写缓存 -> GET请求优先读缓存，未命中回源重算
 * @rules 缓存只保存最新批次；写入失败不影响上传结果
 * @dependencies github.com/go-redis/redis/v8
 * @refs service/ingestion/upload_service.go
 */

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-redis/redis/v8"

	"compass-service/service/models"
)

const (
	keyLatestBatchID  = "compass:latest:batch_id"
	keyLatestReport   = "compass:latest:quality_report"
	keyLatestOverview = "compass:latest:metrics_overview"
	keyLatestPrograms = "compass:latest:metrics_programs"

	cacheTTL = 24 * time.Hour
)

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ReportCache 最新报告缓存
type ReportCache struct {
	client *redis.Client
}

// NewReportCacheFromEnv 从环境变量创建缓存；Redis不可达时返回错误，调用方可降级为无缓存
func NewReportCacheFromEnv() (*ReportCache, error) {
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

	slog.Info("报告缓存初始化成功", "redis_host", host, "redis_port", port)
	return &ReportCache{client: client}, nil
}

// SetLatest 整体覆盖写入最新批次的报告与指标
func (c *ReportCache) SetLatest(ctx context.Context, batchID string, report *models.DataQualityReport, overview models.OverviewMetrics, programs []models.ProgramMetrics) {
	pipe := c.client.Pipeline()
	pipe.Set(ctx, keyLatestBatchID, batchID, cacheTTL)
	c.pipeSetJSON(ctx, pipe, keyLatestReport, report)
	c.pipeSetJSON(ctx, pipe, keyLatestOverview, overview)
	c.pipeSetJSON(ctx, pipe, keyLatestPrograms, programs)

	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("写入报告缓存失败", "batch_id", batchID, "error", err)
	}
}

func (c *ReportCache) pipeSetJSON(ctx context.Context, pipe redis.Pipeliner, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("序列化缓存值失败", "key", key, "error", err)
		return
	}
	pipe.Set(ctx, key, data, cacheTTL)
}

// LatestBatchID 读取最新批次ID；未命中返回空串
func (c *ReportCache) LatestBatchID(ctx context.Context) string {
	id, err := c.client.Get(ctx, keyLatestBatchID).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("读取最新批次ID失败", "error", err)
		}
		return ""
	}
	return id
}

// GetLatestReport 读取最新质量报告；未命中返回nil
func (c *ReportCache) GetLatestReport(ctx context.Context) *models.DataQualityReport {
	var report models.DataQualityReport
	if !c.getJSON(ctx, keyLatestReport, &report) {
		return nil
	}
	return &report
}

// GetLatestOverview 读取最新整体指标
func (c *ReportCache) GetLatestOverview(ctx context.Context) (models.OverviewMetrics, bool) {
	var overview models.OverviewMetrics
	ok := c.getJSON(ctx, keyLatestOverview, &overview)
	return overview, ok
}

// GetLatestPrograms 读取最新分项目指标
func (c *ReportCache) GetLatestPrograms(ctx context.Context) ([]models.ProgramMetrics, bool) {
	var programs []models.ProgramMetrics
	ok := c.getJSON(ctx, keyLatestPrograms, &programs)
	return programs, ok
}

func (c *ReportCache) getJSON(ctx context.Context, key string, target interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("读取缓存失败", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		slog.Warn("反序列化缓存值失败", "key", key, "error", err)
		return false
	}
	return true
}

// Close 关闭Redis客户端
func (c *ReportCache) Close() error {
	return c.client.Close()
}
