/*
 * @module api/controllers/conversation_controller
 * @description 评估对话控制器，提供会话创建、答案提交和会话查询
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/assessment_req.md
 * @stateFlow 会话创建 -> 逐轮答案提交 -> 深度6或分支耗尽时结束
 * @rules 会话状态仅存于内存，重启后进行中会话失效；问答日志落库
 * @dependencies compass-service/service, github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/conversation/
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"compass-service/service"
	"compass-service/service/conversation"
)

// ConversationController 评估对话控制器
type ConversationController struct {
	sessions *conversation.SessionManager
}

// NewConversationController 创建评估对话控制器实例
func NewConversationController() *ConversationController {
	return &ConversationController{
		sessions: service.GlobalSessionManager,
	}
}

// StartConversationRequest 会话创建请求
type StartConversationRequest struct {
	Mode string `json:"mode"` // environment（自由文本）或kpi（结构化）
}

// SubmitAnswerRequest 答案提交请求
type SubmitAnswerRequest struct {
	Answer        string `json:"answer"`
	ResponseIndex *int   `json:"response_index,omitempty"` // 结构化模式的选项下标
}

// StartConversation 创建评估会话
// @Summary 创建评估会话
// @Description 创建自由文本环境扫描或结构化KPI评估会话，返回开场问题
// @Tags 评估对话
// @Accept json
// @Produce json
// @Param request body StartConversationRequest true "会话模式"
// @Success 200 {object} APIResponse{data=conversation.Session}
// @Failure 400 {object} APIResponse
// @Router /conversations [post]
func (c *ConversationController) StartConversation(w http.ResponseWriter, r *http.Request) {
	var req StartConversationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}

	session, err := c.sessions.StartSession(req.Mode)
	if err != nil {
		render.JSON(w, r, BadRequestResponse(err.Error(), nil))
		return
	}
	render.JSON(w, r, SuccessResponse("会话已创建", session))
}

// SubmitAnswer 提交答案
// @Summary 提交答案并获取下一问
// @Description 提交当前问题的答案，返回推进后的会话状态；completed为true时会话结束
// @Tags 评估对话
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Param request body SubmitAnswerRequest true "答案内容"
// @Success 200 {object} APIResponse{data=conversation.Session}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /conversations/{id}/answers [post]
func (c *ConversationController) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		render.JSON(w, r, BadRequestResponse("会话ID不能为空", nil))
		return
	}

	var req SubmitAnswerRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", nil))
		return
	}

	responseIndex := -1
	if req.ResponseIndex != nil {
		responseIndex = *req.ResponseIndex
	}

	session, err := c.sessions.SubmitAnswer(sessionID, req.Answer, responseIndex)
	if err != nil {
		if _, exists := c.sessions.GetSession(sessionID); !exists {
			render.JSON(w, r, NotFoundResponse("会话不存在", nil))
			return
		}
		render.JSON(w, r, BadRequestResponse(err.Error(), nil))
		return
	}
	render.JSON(w, r, SuccessResponse("答案已提交", session))
}

// GetConversation 查询会话状态
// @Summary 查询会话状态
// @Description 返回会话当前问题、问答历史和完成状态
// @Tags 评估对话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} APIResponse{data=conversation.Session}
// @Failure 404 {object} APIResponse
// @Router /conversations/{id} [get]
func (c *ConversationController) GetConversation(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	session, exists := c.sessions.GetSession(sessionID)
	if !exists {
		render.JSON(w, r, NotFoundResponse("会话不存在", nil))
		return
	}
	render.JSON(w, r, SuccessResponse("查询成功", session))
}

// CloseConversation 关闭会话
// @Summary 关闭会话
// @Description 删除会话的内存状态，已落库的问答日志保留
// @Tags 评估对话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} APIResponse
// @Router /conversations/{id} [delete]
func (c *ConversationController) CloseConversation(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	c.sessions.CloseSession(sessionID)
	render.JSON(w, r, SuccessResponse("会话已关闭", nil))
}
