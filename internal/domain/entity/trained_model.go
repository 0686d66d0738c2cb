package entity

import (
	"time"
)

// TrainingStatus 训练状态
type TrainingStatus string

const (
	TrainingStatusPending   TrainingStatus = "pending"
	TrainingStatusTraining  TrainingStatus = "training"
	TrainingStatusCompleted TrainingStatus = "completed"
	TrainingStatusFailed    TrainingStatus = "failed"
)

// TrainedModel 用户的个人微调模型
type TrainedModel struct {
	ID             string         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         string         `json:"user_id" gorm:"type:varchar(64);index;not null"`
	Status         TrainingStatus `json:"status" gorm:"type:varchar(20);index"`
	TriggerWord    string         `json:"trigger_word" gorm:"type:varchar(64)"`
	ModelName      string         `json:"model_name,omitempty" gorm:"type:varchar(255)"`
	ModelVersion   string         `json:"model_version" gorm:"type:varchar(255)"`
	LoraWeightsURL string         `json:"lora_weights_url,omitempty" gorm:"type:text"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// TableName 表名
func (TrainedModel) TableName() string {
	return "trained_models"
}

// Usable 模型是否可用于出图：需要版本引用和触发词
func (m *TrainedModel) Usable() bool {
	return m != nil && m.ModelVersion != "" && m.TriggerWord != ""
}
