/*
 * @module api/controllers/quality_controller
 * @description 数据质量控制器，提供质量报告查询和自定义规则脚本执行
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/compliance_req.md
 * @stateFlow 请求接收 -> 批次定位 -> 报告读取/规则执行 -> 响应返回
 * @rules 未指定批次时默认最新批次；自定义规则脚本先校验后执行
 * @dependencies compass-service/service, github.com/go-chi/render
 * @refs service/quality/
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"gorm.io/gorm"

	"compass-service/service"
	"compass-service/service/ingestion"
	"compass-service/service/quality"
)

// QualityController 数据质量控制器
type QualityController struct {
	uploadService  *ingestion.UploadService
	scriptExecutor *quality.ScriptRuleExecutor
}

// NewQualityController 创建数据质量控制器实例
func NewQualityController() *QualityController {
	return &QualityController{
		uploadService:  service.GlobalUploadService,
		scriptExecutor: quality.NewScriptRuleExecutor(),
	}
}

// resolveBatchID 解析目标批次：路径参数 -> 查询参数 -> 最新批次；指定的批次不存在时返回gorm.ErrRecordNotFound
func (c *QualityController) resolveBatchID(r *http.Request) (string, error) {
	batchID := chi.URLParam(r, "id")
	if batchID == "" {
		batchID = r.URL.Query().Get("batch_id")
	}
	if batchID != "" {
		if _, err := c.uploadService.GetBatch(batchID); err != nil {
			return "", err
		}
		return batchID, nil
	}
	batch, err := c.uploadService.LatestBatch()
	if err != nil {
		return "", err
	}
	return batch.ID, nil
}

// GetQualityReport 查询质量报告
// @Summary 查询数据质量报告
// @Description 返回指定批次（缺省最新批次）的字段覆盖率、总分和合规判定
// @Tags 数据质量
// @Produce json
// @Param batch_id query string false "批次ID，缺省为最新批次"
// @Success 200 {object} APIResponse{data=models.DataQualityReport}
// @Failure 404 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /compliance/quality-report [get]
func (c *QualityController) GetQualityReport(w http.ResponseWriter, r *http.Request) {
	batchID, err := c.resolveBatchID(r)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			render.JSON(w, r, NotFoundResponse("批次不存在或尚无上传批次", nil))
			return
		}
		render.JSON(w, r, InternalErrorResponse("定位批次失败", nil))
		return
	}

	report, err := c.uploadService.QualityReport(r.Context(), batchID)
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("查询质量报告失败", nil))
		return
	}
	render.JSON(w, r, SuccessResponse("查询成功", report))
}

// ExecuteRuleRequest 自定义规则执行请求
type ExecuteRuleRequest struct {
	Script  string `json:"script"`   // Go脚本，须定义Run(map[string]interface{}) (interface{}, error)
	BatchID string `json:"batch_id"` // 缺省为最新批次
}

// ExecuteRuleResponse 自定义规则执行结果
type ExecuteRuleResponse struct {
	BatchID string   `json:"batch_id"`
	Issues  []string `json:"issues"`
}

// ExecuteCustomRule 执行自定义质量规则脚本
// @Summary 执行自定义质量规则
// @Description 对指定批次执行Go脚本规则，返回脚本产出的问题列表
// @Tags 数据质量
// @Accept json
// @Produce json
// @Param request body ExecuteRuleRequest true "规则脚本"
// @Success 200 {object} APIResponse{data=ExecuteRuleResponse}
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /compliance/quality-rules/execute [post]
func (c *QualityController) ExecuteCustomRule(w http.ResponseWriter, r *http.Request) {
	var req ExecuteRuleRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}
	if req.Script == "" {
		render.JSON(w, r, BadRequestResponse("规则脚本不能为空", nil))
		return
	}

	if err := c.scriptExecutor.Validate(req.Script); err != nil {
		render.JSON(w, r, BadRequestResponse("规则脚本校验失败: "+err.Error(), nil))
		return
	}

	batchID := req.BatchID
	if batchID == "" {
		batch, err := c.uploadService.LatestBatch()
		if err != nil {
			render.JSON(w, r, NotFoundResponse("批次不存在或尚无上传批次", nil))
			return
		}
		batchID = batch.ID
	}

	records, err := c.uploadService.BatchRecords(batchID)
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("加载批次记录失败", nil))
		return
	}

	issues, err := c.scriptExecutor.Execute(r.Context(), req.Script, records)
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("规则脚本执行失败: "+err.Error(), nil))
		return
	}

	render.JSON(w, r, SuccessResponse("执行成功", &ExecuteRuleResponse{
		BatchID: batchID,
		Issues:  issues,
	}))
}
