// Package messaging 提供消息队列实现
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/entity"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/metrics"
)

var tracer = otel.Tracer("messaging")

// Producer 消息生产者
type Producer struct {
	client *redis.Client
	maxLen int64
}

// NewProducer 创建消息生产者
func NewProducer(client *redis.Client, maxLen int64) *Producer {
	if maxLen <= 0 {
		maxLen = 100000
	}
	return &Producer{
		client: client,
		maxLen: maxLen,
	}
}

// Publish 发布消息到指定流
func (p *Producer) Publish(ctx context.Context, stream Stream, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		span.RecordError(err)
		metrics.StreamPublishedTotal.WithLabelValues(string(stream), "error").Inc()
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	metrics.StreamPublishedTotal.WithLabelValues(string(stream), "ok").Inc()
	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// BatchRecordedMessage 批次已落库事件
type BatchRecordedMessage struct {
	BatchID   string   `json:"batch_id"`
	UserID    string   `json:"user_id"`
	Status    string   `json:"status"`
	Seed      int64    `json:"seed"`
	JobIDs    []string `json:"job_ids"`
	NumImages int      `json:"num_images"`
}

// PublishBatchRecorded 发布批次落库事件，供下游轮询任务结果
func (p *Producer) PublishBatchRecorded(ctx context.Context, batch *entity.PhotoshootBatch) (string, error) {
	ids := make([]string, 0, len(batch.Jobs))
	for _, j := range batch.Jobs {
		ids = append(ids, j.ID)
	}

	msg, err := NewMessage(batch.ID, TypeBatchRecorded, batch.UserID, &BatchRecordedMessage{
		BatchID:   batch.ID,
		UserID:    batch.UserID,
		Status:    string(batch.Status),
		Seed:      batch.Seed,
		JobIDs:    ids,
		NumImages: batch.NumImages,
	})
	if err != nil {
		return "", err
	}
	msg.SetMetadata("job_count", strconv.Itoa(len(ids)))

	return p.Publish(ctx, StreamPhotoshootBatches, msg)
}
