/*
 * @module service/init
 * @description 服务初始化模块，负责数据库连接、迁移和全局服务装配
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/backend_requirements.md
 * @rules 确保所有依赖服务正常启动后才提供API服务
 * @stateFlow 应用启动时执行初始化流程
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres
 * @refs ai_docs/model.md
 */

package service

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"compass-service/service/cache"
	"compass-service/service/conversation"
	"compass-service/service/database"
	"compass-service/service/distributed_lock"
	"compass-service/service/event"
	"compass-service/service/ingestion"
	"compass-service/service/metrics"
	"compass-service/service/rate_limiter"
	"compass-service/service/scheduler"
	"compass-service/service/sharing"
)

var (
	DB                      *gorm.DB
	GlobalEventService      *event.EventService
	GlobalReportCache       *cache.ReportCache
	GlobalKafkaPublisher    *event.KafkaPublisher
	GlobalMetricsCollector  *metrics.Collector
	GlobalUploadService     *ingestion.UploadService
	GlobalSessionManager    *conversation.SessionManager
	GlobalSharingService    *sharing.SharingService
	GlobalRefreshScheduler  *scheduler.RefreshScheduler
	GlobalExportRateLimiter *rate_limiter.RedisRateLimiter
)

func init() {
	initDatabase()
	runMigrations()
	initServices()
}

// initDatabase 初始化数据库连接
func initDatabase() {
	var dsn string

	// 优先使用DATABASE_URL环境变量
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else {
		// 使用分离的环境变量构建连接字符串
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "postgres")
		dbname := getEnvWithDefault("DB_NAME", "compass")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")
		schema := getEnvWithDefault("DB_SCHEMA", "public")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
			host, port, user, password, dbname, sslmode, schema)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("数据库连接成功")
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// runMigrations 运行数据库迁移
func runMigrations() {
	if err := database.AutoMigrate(DB); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}
}

// initServices 初始化服务
func initServices() {
	GlobalEventService = event.NewEventService(DB)
	GlobalKafkaPublisher = event.NewKafkaPublisherFromEnv()
	GlobalMetricsCollector = metrics.NewCollector()

	// Redis不可达时降级为无缓存，读路径回源重算
	var err error
	GlobalReportCache, err = cache.NewReportCacheFromEnv()
	if err != nil {
		log.Printf("报告缓存初始化失败，降级为无缓存运行: %v", err)
		GlobalReportCache = nil
	}

	GlobalUploadService = ingestion.NewUploadService(
		DB, GlobalReportCache, GlobalKafkaPublisher, GlobalEventService, GlobalMetricsCollector)
	GlobalSessionManager = conversation.NewSessionManager(conversation.NewEngine(), DB)
	GlobalSharingService = sharing.NewSharingService(DB)

	// Redis不可达时降级为不限流
	GlobalExportRateLimiter, err = rate_limiter.NewRedisRateLimiterFromEnv()
	if err != nil {
		log.Printf("导出限流器初始化失败，降级为不限流: %v", err)
		GlobalExportRateLimiter = nil
	}

	// 多实例部署时经分布式锁保证单实例执行定时刷新
	var refreshLock scheduler.Locker
	if redisLock, lockErr := distributed_lock.NewRedisLockFromEnv(); lockErr != nil {
		log.Printf("分布式锁初始化失败，按单实例模式调度: %v", lockErr)
	} else {
		refreshLock = redisLock
	}

	// 启动定时指标刷新，保证在住天数随时间推进
	GlobalRefreshScheduler = scheduler.NewRefreshScheduler(GlobalUploadService, refreshLock)
	if err := GlobalRefreshScheduler.Start(); err != nil {
		log.Printf("启动指标刷新调度器失败: %v", err)
	}

	log.Println("服务初始化完成")
}
