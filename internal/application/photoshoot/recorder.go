package photoshoot

import (
	"context"
	"fmt"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/entity"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/repository"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/logger"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/metrics"
)

// BatchPublisher 批次落库事件发布端口
type BatchPublisher interface {
	PublishBatchRecorded(ctx context.Context, batch *entity.PhotoshootBatch) (string, error)
}

// BatchRecorder 先落库，再扣费
type BatchRecorder struct {
	batches   repository.PhotoshootBatchRepository
	ledger    repository.CreditRepository
	publisher BatchPublisher
}

// NewBatchRecorder publisher 可为 nil（关闭事件流时）
func NewBatchRecorder(batches repository.PhotoshootBatchRepository, ledger repository.CreditRepository, publisher BatchPublisher) *BatchRecorder {
	return &BatchRecorder{batches: batches, ledger: ledger, publisher: publisher}
}

// Record 持久化批次并返回批次 ID
func (r *BatchRecorder) Record(ctx context.Context, batch *entity.PhotoshootBatch) (string, error) {
	if err := r.batches.Create(ctx, batch); err != nil {
		return "", fmt.Errorf("record photoshoot batch: %w", err)
	}
	r.publish(ctx, batch)
	return batch.ID, nil
}

func (r *BatchRecorder) publish(ctx context.Context, batch *entity.PhotoshootBatch) {
	if r.publisher == nil {
		return
	}
	if _, err := r.publisher.PublishBatchRecorded(ctx, batch); err != nil {
		logger.Error(ctx, "failed to publish batch recorded event", err, "batch_id", batch.ID)
	}
}

// Debit 单次账本调用，引用第一个任务句柄；成功后回写批次扣费额
func (r *BatchRecorder) Debit(ctx context.Context, userID string, amount int, referenceJobID, batchID string) (int, error) {
	res, err := r.ledger.Debit(ctx, repository.DebitInput{
		UserID:      userID,
		Amount:      amount,
		Category:    entity.CreditCategoryImage,
		Description: fmt.Sprintf("Photoshoot batch %s", batchID),
		ReferenceID: referenceJobID,
		BatchID:     batchID,
	})
	if err != nil {
		metrics.CreditDebitFailuresTotal.Inc()
		return 0, fmt.Errorf("debit credits: %w", err)
	}
	metrics.CreditsDebitedTotal.Add(float64(amount))

	if err := r.batches.UpdateCreditsDeducted(ctx, batchID, amount); err != nil {
		logger.Warn(ctx, "failed to store credits deducted on batch", "batch_id", batchID, "error", err.Error())
	}
	return res.NewBalance, nil
}
