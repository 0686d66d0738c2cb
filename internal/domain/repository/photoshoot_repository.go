// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/entity"
)

// PhotoshootBatchRepository 拍摄批次仓储接口
type PhotoshootBatchRepository interface {
	// Create 创建批次，ID 为空时自动生成
	Create(ctx context.Context, batch *entity.PhotoshootBatch) error

	// GetByID 根据 ID 获取批次，不存在返回 nil, nil
	GetByID(ctx context.Context, id string) (*entity.PhotoshootBatch, error)

	// ListByUser 分页获取用户的批次，按创建时间倒序
	ListByUser(ctx context.Context, userID string, pagination Pagination) (*PagedResult[*entity.PhotoshootBatch], error)

	// UpdateCreditsDeducted 记录批次实际扣除的积分
	UpdateCreditsDeducted(ctx context.Context, id string, credits int) error
}

// TrainedModelRepository 训练模型仓储接口
type TrainedModelRepository interface {
	// GetLatestCompleted 获取用户最近完成的模型，不存在返回 nil, nil
	GetLatestCompleted(ctx context.Context, userID string) (*entity.TrainedModel, error)

	// Create 创建模型记录
	Create(ctx context.Context, model *entity.TrainedModel) error
}
