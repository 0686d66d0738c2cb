// Package entity 定义领域实体
package entity

import (
	"time"
)

// BatchStatus 拍摄批次状态
type BatchStatus string

const (
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusFailed     BatchStatus = "failed"
	// BatchStatusPartial 派发中途失败，仅部分姿势已提交
	BatchStatusPartial BatchStatus = "partial"
)

// 单批次图片数量范围
const (
	MinBatchImages = 6
	MaxBatchImages = 9
)

// ValidBatchSize 检查批次图片数量是否在允许范围内
func ValidBatchSize(n int) bool {
	return n >= MinBatchImages && n <= MaxBatchImages
}

// PhotoshootBatch 拍摄批次实体
type PhotoshootBatch struct {
	ID                 string      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID             string      `json:"user_id" gorm:"type:varchar(64);index;not null"`
	ChatID             string      `json:"chat_id,omitempty" gorm:"type:varchar(64)"`
	TrainedModelID     string      `json:"trained_model_id" gorm:"type:varchar(64)"`
	ConceptTitle       string      `json:"concept_title" gorm:"type:varchar(255)"`
	ConceptDescription string      `json:"concept_description,omitempty" gorm:"type:text"`
	Category           string      `json:"category" gorm:"type:varchar(50)"`
	HeroImageURL       string      `json:"hero_image_url" gorm:"type:text"`
	HeroPrompt         string      `json:"hero_prompt" gorm:"type:text"`
	HeroSeed           *int64      `json:"hero_seed,omitempty"`
	Seed               int64       `json:"seed" gorm:"not null"`
	NumImages          int         `json:"num_images" gorm:"not null"`
	BaseOutfit         string      `json:"base_outfit,omitempty" gorm:"type:text"`
	LocationTheme      string      `json:"location_theme,omitempty" gorm:"type:text"`
	Jobs               []PoseJob   `json:"jobs" gorm:"type:jsonb;serializer:json"`
	Status             BatchStatus `json:"status" gorm:"type:varchar(20);index;default:'processing'"`
	FailureReason      string      `json:"failure_reason,omitempty" gorm:"type:text"`
	CreditsDeducted    int         `json:"credits_deducted" gorm:"default:0"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// TableName 表名
func (PhotoshootBatch) TableName() string {
	return "photoshoot_batches"
}

// NewPhotoshootBatch 创建处理中的批次，jobs 必须已全部提交
func NewPhotoshootBatch(userID string, seed int64, jobs []PoseJob) *PhotoshootBatch {
	now := time.Now()
	return &PhotoshootBatch{
		UserID:    userID,
		Seed:      seed,
		NumImages: len(jobs),
		Jobs:      jobs,
		Status:    BatchStatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkPartial 标记为部分提交
func (b *PhotoshootBatch) MarkPartial(reason string) {
	b.Status = BatchStatusPartial
	b.FailureReason = reason
	b.UpdatedAt = time.Now()
}

// ReferenceJobID 扣费引用的任务 ID（第一个姿势任务）
func (b *PhotoshootBatch) ReferenceJobID() string {
	if len(b.Jobs) == 0 {
		return ""
	}
	return b.Jobs[0].ID
}

// SeedConsistent 检查所有任务是否共享批次种子
func (b *PhotoshootBatch) SeedConsistent() bool {
	for _, j := range b.Jobs {
		if j.Seed != b.Seed {
			return false
		}
	}
	return true
}
