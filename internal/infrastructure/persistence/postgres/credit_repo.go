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

// CreditRepository 积分账本仓储实现
type CreditRepository struct {
	client *Client
}

// NewCreditRepository 创建积分账本仓储
func NewCreditRepository(client *Client) *CreditRepository {
	return &CreditRepository{client: client}
}

// GetBalance 查询余额
func (r *CreditRepository) GetBalance(ctx context.Context, userID string) (int, error) {
	ctx, span := tracer.Start(ctx, "postgres.CreditRepository.GetBalance")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var credit entity.UserCredit
	if err := db.First(&credit, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		span.RecordError(err)
		return 0, fmt.Errorf("failed to get credit balance: %w", err)
	}
	return credit.Balance, nil
}

// Debit 条件扣减余额并写入流水，余额不足返回 repository.ErrInsufficientBalance
func (r *CreditRepository) Debit(ctx context.Context, in repository.DebitInput) (*repository.DebitResult, error) {
	ctx, span := tracer.Start(ctx, "postgres.CreditRepository.Debit")
	defer span.End()
	span.SetAttributes(
		attribute.String("credit.user_id", in.UserID),
		attribute.Int("credit.amount", in.Amount),
	)

	if in.Amount <= 0 {
		return nil, fmt.Errorf("debit amount must be positive, got %d", in.Amount)
	}

	var result repository.DebitResult
	err := getDB(ctx, r.client.db).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&entity.UserCredit{}).
			Where("user_id = ? AND balance >= ?", in.UserID, in.Amount).
			Updates(map[string]interface{}{
				"balance":    gorm.Expr("balance - ?", in.Amount),
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrInsufficientBalance
		}

		var credit entity.UserCredit
		if err := tx.First(&credit, "user_id = ?", in.UserID).Error; err != nil {
			return err
		}

		record := entity.CreditTransaction{
			ID:           uuid.NewString(),
			UserID:       in.UserID,
			Type:         entity.CreditTransactionDebit,
			Category:     in.Category,
			Amount:       in.Amount,
			BalanceAfter: credit.Balance,
			Description:  in.Description,
			ReferenceID:  in.ReferenceID,
			BatchID:      in.BatchID,
			CreatedAt:    now,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		result = repository.DebitResult{TransactionID: record.ID, NewBalance: credit.Balance}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return nil, err
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to debit credits: %w", err)
	}
	return &result, nil
}

// Grant 增加积分
func (r *CreditRepository) Grant(ctx context.Context, userID string, amount int, description string) (int, error) {
	ctx, span := tracer.Start(ctx, "postgres.CreditRepository.Grant")
	defer span.End()

	var balance int
	err := getDB(ctx, r.client.db).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		var credit entity.UserCredit
		err := tx.First(&credit, "user_id = ?", userID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			credit = entity.UserCredit{UserID: userID, Balance: amount, CreatedAt: now, UpdatedAt: now}
			if err := tx.Create(&credit).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			credit.Balance += amount
			if err := tx.Model(&entity.UserCredit{}).
				Where("user_id = ?", userID).
				Updates(map[string]interface{}{
					"balance":    gorm.Expr("balance + ?", amount),
					"updated_at": now,
				}).Error; err != nil {
				return err
			}
		}

		balance = credit.Balance
		return tx.Create(&entity.CreditTransaction{
			ID:           uuid.NewString(),
			UserID:       userID,
			Type:         entity.CreditTransactionGrant,
			Amount:       amount,
			BalanceAfter: credit.Balance,
			Description:  description,
			CreatedAt:    now,
		}).Error
	})
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to grant credits: %w", err)
	}
	return balance, nil
}
