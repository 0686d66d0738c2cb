// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/entity"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/repository"
)

// PhotoshootBatchRepository 拍摄批次仓储实现
type PhotoshootBatchRepository struct {
	client *Client
}

// NewPhotoshootBatchRepository 创建拍摄批次仓储
func NewPhotoshootBatchRepository(client *Client) *PhotoshootBatchRepository {
	return &PhotoshootBatchRepository{client: client}
}

// Create 创建批次
func (r *PhotoshootBatchRepository) Create(ctx context.Context, batch *entity.PhotoshootBatch) error {
	ctx, span := tracer.Start(ctx, "postgres.PhotoshootBatchRepository.Create")
	defer span.End()

	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	span.SetAttributes(
		attribute.String("batch.id", batch.ID),
		attribute.Int("batch.jobs", len(batch.Jobs)),
	)

	db := getDB(ctx, r.client.db)
	if err := db.Create(batch).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create photoshoot batch: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取批次
func (r *PhotoshootBatchRepository) GetByID(ctx context.Context, id string) (*entity.PhotoshootBatch, error) {
	ctx, span := tracer.Start(ctx, "postgres.PhotoshootBatchRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var batch entity.PhotoshootBatch
	if err := db.First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get photoshoot batch: %w", err)
	}
	return &batch, nil
}

// ListByUser 分页获取用户批次
func (r *PhotoshootBatchRepository) ListByUser(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.PhotoshootBatch], error) {
	ctx, span := tracer.Start(ctx, "postgres.PhotoshootBatchRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.PhotoshootBatch{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count photoshoot batches: %w", err)
	}

	var batches []*entity.PhotoshootBatch
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&batches).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list photoshoot batches: %w", err)
	}

	return repository.NewPagedResult(batches, total, pagination), nil
}

// UpdateCreditsDeducted 更新批次扣除积分
func (r *PhotoshootBatchRepository) UpdateCreditsDeducted(ctx context.Context, id string, credits int) error {
	ctx, span := tracer.Start(ctx, "postgres.PhotoshootBatchRepository.UpdateCreditsDeducted")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Model(&entity.PhotoshootBatch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"credits_deducted": credits,
			"updated_at":       time.Now(),
		}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update credits deducted: %w", err)
	}
	return nil
}
