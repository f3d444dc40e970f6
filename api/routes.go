/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference ai_docs/backend_requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers/
 */

package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"compass-service/api/controllers"
	apimiddleware "compass-service/api/middleware"
	"compass-service/service"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// SSE事件订阅
	eventController := controllers.NewEventController()
	r.Get("/sse/{user_name}", eventController.HandleSSE)

	// 事件管理
	r.Route("/events", func(r chi.Router) {
		r.Post("/send", eventController.SendEvent)
		r.Post("/broadcast", eventController.BroadcastEvent)
	})

	// 合规数据管理
	r.Route("/compliance", func(r chi.Router) {
		uploadController := controllers.NewUploadController()
		qualityController := controllers.NewQualityController()
		metricsController := controllers.NewMetricsController()

		// 数据上传，新批次整体取代旧批次
		r.Post("/uploads", uploadController.Upload)
		r.Get("/batches", uploadController.ListBatches)

		// 按批次ID查询
		r.Route("/uploads/{id}", func(r chi.Router) {
			r.Get("/quality-report", qualityController.GetQualityReport)
			r.Get("/metrics/overview", metricsController.GetOverview)
			r.Get("/metrics/programs", metricsController.GetByProgram)
		})

		// 最新批次查询，命中Redis缓存
		r.Route("/latest", func(r chi.Router) {
			r.Get("/quality-report", qualityController.GetQualityReport)
			r.Get("/metrics/overview", metricsController.GetOverview)
			r.Get("/metrics/programs", metricsController.GetByProgram)
		})

		// 查询参数形式的别名路由
		r.Get("/quality-report", qualityController.GetQualityReport)
		r.Post("/quality-rules/execute", qualityController.ExecuteCustomRule)
		r.Get("/metrics/overview", metricsController.GetOverview)
		r.Get("/metrics/programs", metricsController.GetByProgram)
	})

	// 评估对话
	r.Route("/conversations", func(r chi.Router) {
		conversationController := controllers.NewConversationController()
		r.Post("/", conversationController.StartConversation)
		r.Get("/{id}", conversationController.GetConversation)
		r.Delete("/{id}", conversationController.CloseConversation)
		r.Post("/{id}/answers", conversationController.SubmitAnswer)
	})

	// 数据共享
	r.Route("/sharing", func(r chi.Router) {
		sharingController := controllers.NewSharingController()
		r.Post("/api-keys", sharingController.CreateApiKey)
		r.Get("/api-keys", sharingController.ListApiKeys)
		r.Post("/api-keys/{id}/revoke", sharingController.RevokeApiKey)

		// 合作方导出，须通过API密钥认证
		r.Group(func(r chi.Router) {
			r.Use(apimiddleware.ApiKeyAuth(service.GlobalSharingService, service.GlobalExportRateLimiter))
			r.Get("/export", sharingController.ExportRecords)
		})
	})
}
