// Package quota 提供用户积分预检能力
package quota

import (
	"context"
	"fmt"
)

// DefaultPerImageCost 单张图片默认积分
const DefaultPerImageCost = 1

// InsufficientCreditsError 表示用户余额不足以支付本批次
type InsufficientCreditsError struct {
	UserID   string
	Required int
	Current  int
}

func (e InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: user=%s required=%d current=%d", e.UserID, e.Required, e.Current)
}

// BalanceReader 积分余额读取端口
type BalanceReader interface {
	GetBalance(ctx context.Context, userID string) (int, error)
}

// CreditAuthorization 预检通过的结果，此时尚未扣费
type CreditAuthorization struct {
	UserID   string
	Required int
	Current  int
}

// CreditAuthorizer 出图前的积分预检，只读不写
type CreditAuthorizer struct {
	ledger       BalanceReader
	perImageCost int
}

func NewCreditAuthorizer(ledger BalanceReader, perImageCost int) *CreditAuthorizer {
	if perImageCost <= 0 {
		perImageCost = DefaultPerImageCost
	}
	return &CreditAuthorizer{ledger: ledger, perImageCost: perImageCost}
}

// Required 计算批次所需积分
func (a *CreditAuthorizer) Required(numImages int) int {
	return a.perImageCost * numImages
}

// Authorize 余额不足时返回 InsufficientCreditsError
func (a *CreditAuthorizer) Authorize(ctx context.Context, userID string, numImages int) (*CreditAuthorization, error) {
	required := a.Required(numImages)

	current, err := a.ledger.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read credit balance: %w", err)
	}
	if current < required {
		return nil, InsufficientCreditsError{
			UserID:   userID,
			Required: required,
			Current:  current,
		}
	}
	return &CreditAuthorization{UserID: userID, Required: required, Current: current}, nil
}
