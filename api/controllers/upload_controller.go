/*
 * @module api/controllers/upload_controller
 * @description 合规数据上传控制器，接收multipart表单CSV并触发完整处理流水线
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/compliance_req.md
 * @stateFlow HTTP请求 -> 文件提取 -> 上传服务编排 -> 报告与指标响应
 * @rules 缺少必需列或文件非法返回400；空数据批次合法
 * @dependencies compass-service/service, github.com/go-chi/render
 * @refs service/ingestion/
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/render"

	"compass-service/service"
	"compass-service/service/ingestion"
)

// 上传文件大小上限32MB
const maxUploadSize = 32 << 20

// UploadController 合规数据上传控制器
type UploadController struct {
	uploadService *ingestion.UploadService
}

// NewUploadController 创建上传控制器实例
func NewUploadController() *UploadController {
	return &UploadController{
		uploadService: service.GlobalUploadService,
	}
}

// Upload 上传合规数据
// @Summary 上传合规数据CSV
// @Description 上传客户登记数据电子表格，新批次整体取代旧批次；返回质量报告和绩效指标
// @Tags 合规数据
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV文件，表头须包含七个必填列"
// @Param uploaded_by formData string false "上传人"
// @Success 200 {object} APIResponse{data=ingestion.UploadResult}
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /compliance/uploads [post]
func (c *UploadController) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		render.JSON(w, r, BadRequestResponse("解析上传表单失败", nil))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		render.JSON(w, r, BadRequestResponse("缺少上传文件字段file", nil))
		return
	}
	defer file.Close()

	uploadedBy := r.FormValue("uploaded_by")
	if uploadedBy == "" {
		uploadedBy = "anonymous"
	}

	result, err := c.uploadService.ProcessUpload(r.Context(), header.Filename, file, uploadedBy)
	if err != nil {
		// 解析类错误（缺列、空文件、非法CSV）按参数错误处理
		render.JSON(w, r, BadRequestResponse(err.Error(), nil))
		return
	}

	render.JSON(w, r, SuccessResponse("上传处理成功", result))
}

// ListBatches 查询上传批次列表
// @Summary 查询上传批次列表
// @Description 按上传时间倒序返回历史批次
// @Tags 合规数据
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.UploadBatch}
// @Failure 500 {object} APIResponse
// @Router /compliance/batches [get]
func (c *UploadController) ListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := c.uploadService.ListBatches()
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("查询批次列表失败", nil))
		return
	}
	render.JSON(w, r, SuccessResponse("查询成功", batches))
}
