/*
 * @module api/controllers/metrics_controller
 * @description 绩效指标控制器，提供总览指标和分项目指标查询
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/compliance_req.md
 * @stateFlow 请求接收 -> 批次定位 -> 缓存/重算 -> 响应返回
 * @rules 未指定批次时默认最新批次；在住天数按请求时刻推算
 * @dependencies compass-service/service, github.com/go-chi/render
 * @refs service/metrics/
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"gorm.io/gorm"

	"compass-service/service"
	"compass-service/service/ingestion"
)

// MetricsController 绩效指标控制器
type MetricsController struct {
	uploadService *ingestion.UploadService
}

// NewMetricsController 创建绩效指标控制器实例
func NewMetricsController() *MetricsController {
	return &MetricsController{
		uploadService: service.GlobalUploadService,
	}
}

// resolveBatchID 解析目标批次：路径参数 -> 查询参数 -> 最新批次；指定的批次不存在时返回gorm.ErrRecordNotFound
func (c *MetricsController) resolveBatchID(r *http.Request) (string, error) {
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

// GetOverview 查询总览指标
// @Summary 查询总览绩效指标
// @Description 返回指定批次（缺省最新批次）的去重客户数、在住数、安置数、平均住期和安置率
// @Tags 绩效指标
// @Produce json
// @Param batch_id query string false "批次ID，缺省为最新批次"
// @Success 200 {object} APIResponse{data=models.OverviewMetrics}
// @Failure 404 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /compliance/metrics/overview [get]
func (c *MetricsController) GetOverview(w http.ResponseWriter, r *http.Request) {
	batchID, err := c.resolveBatchID(r)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			render.JSON(w, r, NotFoundResponse("批次不存在或尚无上传批次", nil))
			return
		}
		render.JSON(w, r, InternalErrorResponse("定位批次失败", nil))
		return
	}

	overview, err := c.uploadService.OverviewMetrics(r.Context(), batchID)
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("查询总览指标失败", nil))
		return
	}
	render.JSON(w, r, SuccessResponse("查询成功", overview))
}

// GetByProgram 查询分项目指标
// @Summary 查询分项目绩效指标
// @Description 按ProgramName精确分区返回各项目指标，项目名升序
// @Tags 绩效指标
// @Produce json
// @Param batch_id query string false "批次ID，缺省为最新批次"
// @Success 200 {object} APIResponse{data=[]models.ProgramMetrics}
// @Failure 404 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /compliance/metrics/programs [get]
func (c *MetricsController) GetByProgram(w http.ResponseWriter, r *http.Request) {
	batchID, err := c.resolveBatchID(r)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			render.JSON(w, r, NotFoundResponse("批次不存在或尚无上传批次", nil))
			return
		}
		render.JSON(w, r, InternalErrorResponse("定位批次失败", nil))
		return
	}

	programs, err := c.uploadService.ProgramMetrics(r.Context(), batchID)
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("查询分项目指标失败", nil))
		return
	}
	render.JSON(w, r, SuccessResponse("查询成功", programs))
}
