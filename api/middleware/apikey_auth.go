/*
 * @module api/middleware/apikey_auth
 * @description API密钥认证与限流中间件，合作方导出接口的访问控制
 * @architecture 中间件模式 - 请求链前置认证
 * @documentReference ai_docs/sharing_req.md
 * @stateFlow 提取X-API-Key -> bcrypt哈希比对 -> 按密钥限流 -> 通过则放行
 * @rules 密钥经X-API-Key请求头传递；验证失败统一返回401不泄露细节；超限返回429
 * @dependencies compass-service/service/sharing, compass-service/service/rate_limiter
 * @refs api/routes.go
 */

package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"compass-service/service/rate_limiter"
	"compass-service/service/sharing"
)

// ApiKeyAuth 基于共享服务的API密钥认证中间件；limiter为nil时不限流
func ApiKeyAuth(sharingService *sharing.SharingService, limiter *rate_limiter.RedisRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			keyValue := r.Header.Get("X-API-Key")
			if keyValue == "" {
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, map[string]interface{}{
					"status": 401,
					"msg":    "缺少X-API-Key请求头",
				})
				return
			}

			apiKey, err := sharingService.VerifyApiKey(keyValue)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, map[string]interface{}{
					"status": 401,
					"msg":    "API密钥验证失败",
				})
				return
			}

			if limiter != nil {
				result, limitErr := limiter.Allow(r.Context(), apiKey.ID)
				if limitErr != nil {
					// 限流器故障时放行，避免Redis抖动阻断导出
					slog.Error("限流检查失败，放行请求", "key_id", apiKey.ID, "error", limitErr)
				} else {
					w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
					w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
					w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))
					if !result.Allowed {
						w.WriteHeader(http.StatusTooManyRequests)
						render.JSON(w, r, map[string]interface{}{
							"status": 429,
							"msg":    "请求超过限流限制",
						})
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
