/*
 * @module api/controllers/event_controller
 * @description 事件管理控制器，提供SSE连接和事件推送API
 * @architecture RESTful API架构 - 控制器层
 * @documentReference ai_docs/event_req.md
 * @stateFlow SSE连接建立 -> 事件通道监听 -> 客户端断开时清理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies compass-service/service, github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/event/
 */

package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"compass-service/service"
	"compass-service/service/event"
	"compass-service/service/models"
)

// EventController 事件管理控制器
type EventController struct {
	eventService *event.EventService
}

// NewEventController 创建事件控制器实例
func NewEventController() *EventController {
	return &EventController{
		eventService: service.GlobalEventService,
	}
}

// HandleSSE 处理SSE连接
// @Summary 建立SSE连接
// @Description 前端页面通过此接口建立SSE连接，接收上传处理和质量告警的实时推送
// @Tags 事件管理
// @Param user_name path string true "用户名"
// @Success 200 {string} string "SSE事件流"
// @Router /sse/{user_name} [get]
func (c *EventController) HandleSSE(w http.ResponseWriter, r *http.Request) {
	userName := chi.URLParam(r, "user_name")
	if userName == "" {
		http.Error(w, "用户名不能为空", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	connectionID := uuid.New().String()
	client := c.eventService.AddSSEConnection(userName, connectionID)
	defer c.eventService.RemoveSSEConnection(userName, connectionID)

	fmt.Fprintf(w, "data: {\"type\":\"connected\",\"connection_id\":\"%s\",\"timestamp\":\"%s\"}\n\n",
		connectionID, time.Now().Format(time.RFC3339))
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	for {
		select {
		case ev := <-client.Channel:
			fmt.Fprintf(w, "data: %s\n\n", toJSON(ev))
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-client.Done:
			return

		case <-r.Context().Done():
			return
		}
	}
}

// SendEventRequest 发送事件请求
type SendEventRequest struct {
	UserName  string      `json:"user_name"`
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}

// SendEvent 发送事件给指定用户
// @Summary 发送事件
// @Description 向指定用户的SSE连接发送事件
// @Tags 事件管理
// @Accept json
// @Produce json
// @Param request body SendEventRequest true "发送事件请求"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /events/send [post]
func (c *EventController) SendEvent(w http.ResponseWriter, r *http.Request) {
	var req SendEventRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数解析失败", nil))
		return
	}
	if req.UserName == "" {
		render.JSON(w, r, BadRequestResponse("用户名不能为空", nil))
		return
	}
	if req.EventType == "" {
		render.JSON(w, r, BadRequestResponse("事件类型不能为空", nil))
		return
	}

	ev := &models.SSEEvent{
		ID:        uuid.New().String(),
		Type:      req.EventType,
		Data:      req.Data,
		Timestamp: time.Now(),
	}
	if err := c.eventService.SendEventToUser(req.UserName, ev); err != nil {
		render.JSON(w, r, NotFoundResponse(err.Error(), nil))
		return
	}
	render.JSON(w, r, SuccessResponse("事件已发送", nil))
}

// BroadcastEvent 广播事件
// @Summary 广播事件
// @Description 向所有SSE连接广播事件
// @Tags 事件管理
// @Accept json
// @Produce json
// @Param request body SendEventRequest true "广播事件请求（user_name忽略）"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /events/broadcast [post]
func (c *EventController) BroadcastEvent(w http.ResponseWriter, r *http.Request) {
	var req SendEventRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数解析失败", nil))
		return
	}
	if req.EventType == "" {
		render.JSON(w, r, BadRequestResponse("事件类型不能为空", nil))
		return
	}

	c.eventService.BroadcastEvent(&models.SSEEvent{
		ID:        uuid.New().String(),
		Type:      req.EventType,
		Data:      req.Data,
		Timestamp: time.Now(),
	})
	render.JSON(w, r, SuccessResponse("事件已广播", nil))
}
