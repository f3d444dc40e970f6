/*
 * @module service/event/event_service
 * @description 事件管理服务，提供SSE事件推送和质量报告落库变更监听
 * @architecture 事件驱动架构 - 业务服务层
 * @documentReference ai_docs/event_req.md
 * @stateFlow 上传处理/数据库通知 -> 事件构造 -> 按用户分发或全局广播
 * @rules 推送为尽力而为，客户端队列满时丢弃；事件不承载业务状态
 * @dependencies gorm.io/gorm, github.com/lib/pq
 * @refs service/ingestion/, api/controllers/event_controller.go
 */

package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"compass-service/service/models"
)

const notifyChannel = "compass_changes"

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// SSEClient SSE客户端连接
type SSEClient struct {
	ID       string
	UserName string
	Channel  chan *models.SSEEvent
	Done     chan bool
}

// EventService 事件管理服务
type EventService struct {
	db          *gorm.DB
	mu          sync.RWMutex
	connections map[string]map[string]*SSEClient // userName -> connectionID -> client
	dbListener  *pq.Listener
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewEventService 创建事件服务实例并启动数据库监听
func NewEventService(db *gorm.DB) *EventService {
	ctx, cancel := context.WithCancel(context.Background())

	service := &EventService{
		db:          db,
		connections: make(map[string]map[string]*SSEClient),
		ctx:         ctx,
		cancel:      cancel,
	}

	go service.startDBListener()
	go service.startConnectionJanitor()

	return service
}

// AddSSEConnection 添加SSE连接
func (s *EventService) AddSSEConnection(userName, connectionID string) *SSEClient {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connections[userName] == nil {
		s.connections[userName] = make(map[string]*SSEClient)
	}

	client := &SSEClient{
		ID:       connectionID,
		UserName: userName,
		Channel:  make(chan *models.SSEEvent, 100),
		Done:     make(chan bool),
	}
	s.connections[userName][connectionID] = client

	slog.Info("SSE连接已建立", "user", userName, "connection_id", connectionID)
	return client
}

// RemoveSSEConnection 移除SSE连接
func (s *EventService) RemoveSSEConnection(userName, connectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userConnections, exists := s.connections[userName]
	if !exists {
		return
	}
	client, exists := userConnections[connectionID]
	if !exists {
		return
	}

	close(client.Done)
	delete(userConnections, connectionID)
	if len(userConnections) == 0 {
		delete(s.connections, userName)
	}
	slog.Info("SSE连接已断开", "user", userName, "connection_id", connectionID)
}

// SendEventToUser 向指定用户的所有连接发送事件
func (s *EventService) SendEventToUser(userName string, event *models.SSEEvent) error {
	s.mu.RLock()
	userConnections, exists := s.connections[userName]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("用户 %s 没有活跃的SSE连接", userName)
	}

	for _, client := range userConnections {
		select {
		case client.Channel <- event:
		default:
			slog.Warn("SSE事件队列已满，跳过发送", "user", userName, "connection_id", client.ID)
		}
	}
	return nil
}

// BroadcastEvent 向所有连接广播事件
func (s *EventService) BroadcastEvent(event *models.SSEEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for userName, userConnections := range s.connections {
		for _, client := range userConnections {
			select {
			case client.Channel <- event:
			default:
				slog.Warn("SSE事件队列已满，跳过广播", "user", userName, "connection_id", client.ID)
			}
		}
	}
}

// NewUploadProcessedEvent 构造上传处理完成事件
func NewUploadProcessedEvent(payload *models.QualityEvent) *models.SSEEvent {
	return &models.SSEEvent{
		ID:        uuid.New().String(),
		Type:      models.EventTypeUploadProcessed,
		Data:      payload,
		Timestamp: time.Now(),
	}
}

// NewQualityAlertEvent 构造质量告警事件（批次不合规时）
func NewQualityAlertEvent(payload *models.QualityEvent) *models.SSEEvent {
	return &models.SSEEvent{
		ID:        uuid.New().String(),
		Type:      models.EventTypeQualityAlert,
		Data:      payload,
		Timestamp: time.Now(),
	}
}

// NewMetricsRefreshEvent 构造指标刷新事件
func NewMetricsRefreshEvent(data interface{}) *models.SSEEvent {
	return &models.SSEEvent{
		ID:        uuid.New().String(),
		Type:      models.EventTypeMetricsRefresh,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// === 数据库监听 ===

// startDBListener 监听质量报告表的变更通知并广播
// 其他服务实例落库的报告也能触达本实例的SSE客户端
func (s *EventService) startDBListener() {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "postgres")
		dbname := getEnvWithDefault("DB_NAME", "compass")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")

		connStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode)
	}

	s.dbListener = pq.NewListener(connStr, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			slog.Warn("PostgreSQL监听器事件", "event", ev, "error", err)
		}
	})

	if err := s.ensureNotifyTrigger(); err != nil {
		slog.Warn("创建质量报告通知触发器失败", "error", err)
	}

	if err := s.dbListener.Listen(notifyChannel); err != nil {
		slog.Warn("监听数据库通知失败", "error", err)
		return
	}
	slog.Info("数据库监听器已启动", "channel", notifyChannel)

	for {
		select {
		case notification := <-s.dbListener.Notify:
			if notification != nil {
				s.handleDBNotification(notification)
			}
		case <-s.ctx.Done():
			slog.Info("数据库监听器已停止")
			return
		}
	}
}

// ensureNotifyTrigger 确保质量报告表的通知函数与触发器存在
func (s *EventService) ensureNotifyTrigger() error {
	createFunctionSQL := fmt.Sprintf(`
CREATE OR REPLACE FUNCTION notify_compass_changes()
RETURNS TRIGGER AS $$
BEGIN
    PERFORM pg_notify('%s', json_build_object(
        'table', TG_TABLE_NAME,
        'record_id', NEW.id,
        'batch_id', NEW.batch_id,
        'overall_score', NEW.overall_score,
        'is_compliant', NEW.is_compliant,
        'timestamp', extract(epoch from now())
    )::text);
    RETURN NEW;
END;
$$ LANGUAGE plpgsql;`, notifyChannel)

	if err := s.db.Exec(createFunctionSQL).Error; err != nil {
		return err
	}

	createTriggerSQL := `
CREATE OR REPLACE TRIGGER quality_report_records_notify
AFTER INSERT ON quality_report_records
FOR EACH ROW
EXECUTE FUNCTION notify_compass_changes();`

	return s.db.Exec(createTriggerSQL).Error
}

// handleDBNotification 处理质量报告落库通知，转为SSE广播
func (s *EventService) handleDBNotification(notification *pq.Notification) {
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(notification.Extra), &payload); err != nil {
		slog.Warn("解析数据库通知失败", "error", err)
		return
	}

	event := &models.SSEEvent{
		ID:        uuid.New().String(),
		Type:      models.EventTypeUploadProcessed,
		Data:      payload,
		Timestamp: time.Now(),
	}
	s.BroadcastEvent(event)
}

// startConnectionJanitor 周期清理已关闭的连接
func (s *EventService) startConnectionJanitor() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanupClosedConnections()
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *EventService) cleanupClosedConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for userName, userConnections := range s.connections {
		for connectionID, client := range userConnections {
			select {
			case <-client.Done:
				delete(userConnections, connectionID)
			default:
			}
		}
		if len(userConnections) == 0 {
			delete(s.connections, userName)
		}
	}
}

// Stop 停止事件服务并关闭全部连接
func (s *EventService) Stop() {
	s.cancel()

	if s.dbListener != nil {
		s.dbListener.Close()
	}

	s.mu.Lock()
	for _, userConnections := range s.connections {
		for _, client := range userConnections {
			close(client.Done)
		}
	}
	s.connections = make(map[string]map[string]*SSEClient)
	s.mu.Unlock()

	slog.Info("事件服务已停止")
}
