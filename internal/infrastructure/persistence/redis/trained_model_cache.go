package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/entity"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/repository"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/logger"
)

// errNoTrainedModel 加载结果为空，不写缓存
var errNoTrainedModel = errors.New("no completed trained model")

// CachedTrainedModelRepository 训练模型仓储的读穿缓存装饰器
type CachedTrainedModelRepository struct {
	next  repository.TrainedModelRepository
	cache *Cache
	ttl   time.Duration
}

// NewCachedTrainedModelRepository 创建带缓存的训练模型仓储
func NewCachedTrainedModelRepository(next repository.TrainedModelRepository, cache *Cache, ttl time.Duration) *CachedTrainedModelRepository {
	return &CachedTrainedModelRepository{next: next, cache: cache, ttl: ttl}
}

func trainedModelKey(userID string) string {
	return fmt.Sprintf("trained_model:latest:%s", userID)
}

// GetLatestCompleted 优先读缓存，Redis 故障时直接回源
func (r *CachedTrainedModelRepository) GetLatestCompleted(ctx context.Context, userID string) (*entity.TrainedModel, error) {
	var loadErr error
	data, err := r.cache.GetOrLoadSafe(ctx, trainedModelKey(userID), r.ttl, func() (interface{}, error) {
		m, err := r.next.GetLatestCompleted(ctx, userID)
		if err != nil {
			loadErr = err
			return nil, err
		}
		if m == nil {
			return nil, errNoTrainedModel
		}
		return m, nil
	})
	if err != nil {
		if errors.Is(err, errNoTrainedModel) {
			return nil, nil
		}
		if loadErr != nil {
			return nil, loadErr
		}
		logger.Warn(ctx, "trained model cache unavailable, reading through", "user_id", userID, "error", err.Error())
		return r.next.GetLatestCompleted(ctx, userID)
	}

	var m entity.TrainedModel
	if err := json.Unmarshal(data, &m); err != nil {
		logger.Warn(ctx, "drop corrupt trained model cache entry", "user_id", userID, "error", err.Error())
		_ = r.cache.Delete(ctx, trainedModelKey(userID))
		return r.next.GetLatestCompleted(ctx, userID)
	}
	return &m, nil
}

// Create 写入后使缓存失效
func (r *CachedTrainedModelRepository) Create(ctx context.Context, m *entity.TrainedModel) error {
	if err := r.next.Create(ctx, m); err != nil {
		return err
	}
	if err := r.cache.Delete(ctx, trainedModelKey(m.UserID)); err != nil {
		logger.Warn(ctx, "failed to invalidate trained model cache", "user_id", m.UserID, "error", err.Error())
	}
	return nil
}
