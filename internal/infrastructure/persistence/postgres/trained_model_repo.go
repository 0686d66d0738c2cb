package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/entity"
)

// TrainedModelRepository 训练模型仓储实现
type TrainedModelRepository struct {
	client *Client
}

// NewTrainedModelRepository 创建训练模型仓储
func NewTrainedModelRepository(client *Client) *TrainedModelRepository {
	return &TrainedModelRepository{client: client}
}

// GetLatestCompleted 获取用户最近完成的模型
func (r *TrainedModelRepository) GetLatestCompleted(ctx context.Context, userID string) (*entity.TrainedModel, error) {
	ctx, span := tracer.Start(ctx, "postgres.TrainedModelRepository.GetLatestCompleted")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var m entity.TrainedModel
	err := db.Where("user_id = ? AND status = ?", userID, entity.TrainingStatusCompleted).
		Order("COALESCE(completed_at, created_at) DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get trained model: %w", err)
	}
	return &m, nil
}

// Create 创建模型记录
func (r *TrainedModelRepository) Create(ctx context.Context, m *entity.TrainedModel) error {
	ctx, span := tracer.Start(ctx, "postgres.TrainedModelRepository.Create")
	defer span.End()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	db := getDB(ctx, r.client.db)
	if err := db.Create(m).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create trained model: %w", err)
	}
	return nil
}
