/*
 * @module service/event/kafka_publisher
 * @description Kafka质量事件发布器，上传处理结果投递到下游数据平台
 * @architecture 事件驱动架构 - 消息出口
 * @documentReference ai_docs/event_req.md
 * @stateFlow 上传处理完成 -> 事件序列化 -> 按批次ID分区写入topic
 * @rules 发布失败不回滚上传，仅记录日志；未配置broker时发布器为空实现
 * @dependencies github.com/segmentio/kafka-go
 * @refs service/ingestion/upload_service.go
 */

package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"compass-service/service/models"
)

const defaultQualityTopic = "compass.quality.events"

// KafkaPublisher 质量事件发布器
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaPublisherFromEnv 从环境变量创建发布器
// KAFKA_BROKERS未配置时返回nil，调用方按未启用处理
func NewKafkaPublisherFromEnv() *KafkaPublisher {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		slog.Info("未配置KAFKA_BROKERS，质量事件Kafka发布未启用")
		return nil
	}

	topic := os.Getenv("KAFKA_QUALITY_TOPIC")
	if topic == "" {
		topic = defaultQualityTopic
	}
	return NewKafkaPublisher(strings.Split(brokers, ","), topic)
}

// NewKafkaPublisher 创建发布器
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 100 * time.Millisecond,
	}
	return &KafkaPublisher{writer: writer, topic: topic}
}

// PublishQualityEvent 发布质量事件，批次ID作为消息Key保证同批次有序
func (p *KafkaPublisher) PublishQualityEvent(ctx context.Context, event *models.QualityEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.BatchID),
		Value: payload,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(models.EventTypeUploadProcessed)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.Error("Kafka质量事件发布失败", "topic", p.topic, "batch_id", event.BatchID, "error", err)
		return err
	}

	slog.Debug("Kafka质量事件已发布", "topic", p.topic, "batch_id", event.BatchID)
	return nil
}

// Close 关闭底层writer
func (p *KafkaPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
