package entity

import (
	"time"
)

// CreditCategoryImage 出图扣费分类
const CreditCategoryImage = "image"

// CreditTransactionType 积分流水类型
type CreditTransactionType string

const (
	CreditTransactionDebit CreditTransactionType = "debit"
	CreditTransactionGrant CreditTransactionType = "grant"
)

// UserCredit 用户积分余额
type UserCredit struct {
	UserID    string    `json:"user_id" gorm:"type:varchar(64);primaryKey"`
	Balance   int       `json:"balance" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 表名
func (UserCredit) TableName() string {
	return "user_credits"
}

// CreditTransaction 积分流水
type CreditTransaction struct {
	ID           string                `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       string                `json:"user_id" gorm:"type:varchar(64);index;not null"`
	Type         CreditTransactionType `json:"type" gorm:"type:varchar(20)"`
	Category     string                `json:"category" gorm:"type:varchar(50)"`
	Amount       int                   `json:"amount"`
	BalanceAfter int                   `json:"balance_after"`
	Description  string                `json:"description,omitempty" gorm:"type:text"`
	ReferenceID  string                `json:"reference_id,omitempty" gorm:"type:varchar(255)"`
	BatchID      string                `json:"batch_id,omitempty" gorm:"type:varchar(64);index"`
	CreatedAt    time.Time             `json:"created_at"`
}

// TableName 表名
func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
