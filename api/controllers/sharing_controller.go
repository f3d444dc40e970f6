/*
 * @module api/controllers/sharing_controller
 * @description 数据共享控制器，提供API密钥管理和脱敏数据导出
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/sharing_req.md
 * @stateFlow 密钥创建（明文仅返回一次） -> 合作方携密钥请求导出 -> 脱敏记录返回
 * @rules 导出接口须通过API密钥认证；客户标识一律脱敏
 * @dependencies compass-service/service, github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/sharing/, api/middleware/apikey_auth.go
 */

package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"gorm.io/gorm"

	"compass-service/service"
	"compass-service/service/ingestion"
	"compass-service/service/sharing"
)

// SharingController 数据共享控制器
type SharingController struct {
	sharingService *sharing.SharingService
	uploadService  *ingestion.UploadService
}

// NewSharingController 创建数据共享控制器实例
func NewSharingController() *SharingController {
	return &SharingController{
		sharingService: service.GlobalSharingService,
		uploadService:  service.GlobalUploadService,
	}
}

// CreateApiKeyRequest 密钥创建请求
type CreateApiKeyRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedBy   string     `json:"created_by"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// CreateApiKeyResponse 密钥创建响应，明文密钥仅此一次返回
type CreateApiKeyResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	KeyValue string `json:"key_value"`
}

// CreateApiKey 创建合作方API密钥
// @Summary 创建API密钥
// @Description 创建合作方API密钥，明文密钥仅在响应中返回一次
// @Tags 数据共享
// @Accept json
// @Produce json
// @Param request body CreateApiKeyRequest true "密钥信息"
// @Success 200 {object} APIResponse{data=CreateApiKeyResponse}
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /sharing/api-keys [post]
func (c *SharingController) CreateApiKey(w http.ResponseWriter, r *http.Request) {
	var req CreateApiKeyRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}
	if req.Name == "" {
		render.JSON(w, r, BadRequestResponse("密钥名称不能为空", nil))
		return
	}

	apiKey, keyValue, err := c.sharingService.CreateApiKey(req.Name, req.Description, req.CreatedBy, req.ExpiresAt)
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("创建API密钥失败", nil))
		return
	}

	render.JSON(w, r, SuccessResponse("创建成功", &CreateApiKeyResponse{
		ID:       apiKey.ID,
		Name:     apiKey.Name,
		KeyValue: keyValue,
	}))
}

// ListApiKeys 查询密钥列表
// @Summary 查询API密钥列表
// @Description 返回全部密钥元信息，不含密钥明文和哈希
// @Tags 数据共享
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.ApiKey}
// @Failure 500 {object} APIResponse
// @Router /sharing/api-keys [get]
func (c *SharingController) ListApiKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := c.sharingService.ListApiKeys()
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("查询密钥列表失败", nil))
		return
	}
	render.JSON(w, r, SuccessResponse("查询成功", keys))
}

// RevokeApiKey 吊销密钥
// @Summary 吊销API密钥
// @Description 吊销后密钥立即失效
// @Tags 数据共享
// @Produce json
// @Param id path string true "密钥ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /sharing/api-keys/{id}/revoke [post]
func (c *SharingController) RevokeApiKey(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := c.sharingService.RevokeApiKey(id); err != nil {
		render.JSON(w, r, NotFoundResponse(err.Error(), nil))
		return
	}
	render.JSON(w, r, SuccessResponse("吊销成功", nil))
}

// ExportRecords 导出脱敏记录
// @Summary 导出脱敏客户记录
// @Description 合作方导出指定批次（缺省最新批次）的客户记录，客户标识脱敏
// @Tags 数据共享
// @Produce json
// @Param batch_id query string false "批次ID，缺省为最新批次"
// @Param X-API-Key header string true "合作方API密钥"
// @Success 200 {object} APIResponse{data=[]models.ClientRecord}
// @Failure 401 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /sharing/export [get]
func (c *SharingController) ExportRecords(w http.ResponseWriter, r *http.Request) {
	batchID := r.URL.Query().Get("batch_id")
	if batchID == "" {
		batch, err := c.uploadService.LatestBatch()
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				render.JSON(w, r, NotFoundResponse("尚无上传批次", nil))
				return
			}
			render.JSON(w, r, InternalErrorResponse("定位批次失败", nil))
			return
		}
		batchID = batch.ID
	}

	records, err := c.sharingService.ExportMaskedRecords(batchID, sharing.DefaultMaskingConfig)
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("导出失败", nil))
		return
	}
	render.JSON(w, r, SuccessResponse("导出成功", records))
}
