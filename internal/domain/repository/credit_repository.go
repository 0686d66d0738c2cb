package repository

import (
	"context"
	"errors"
)

// ErrInsufficientBalance 条件扣减未命中（余额不足）
var ErrInsufficientBalance = errors.New("insufficient credit balance")

// DebitInput 扣费参数
type DebitInput struct {
	UserID      string
	Amount      int
	Category    string
	Description string
	ReferenceID string
	BatchID     string
}

// DebitResult 扣费结果
type DebitResult struct {
	TransactionID string
	NewBalance    int
}

// CreditRepository 积分账本接口，Debit 单次调用保证原子性
type CreditRepository interface {
	// GetBalance 查询余额，无账户记录时返回 0
	GetBalance(ctx context.Context, userID string) (int, error)

	// Debit 条件扣减并写入流水
	Debit(ctx context.Context, in DebitInput) (*DebitResult, error)

	// Grant 增加积分（开发数据初始化使用）
	Grant(ctx context.Context, userID string, amount int, description string) (int, error)
}
