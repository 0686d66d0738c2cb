package dto

import (
	"time"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/application/photoshoot"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/entity"
)

// CreatePhotoshootRequest 创建拍摄批次请求
type CreatePhotoshootRequest struct {
	HeroImageURL       string `json:"heroImageUrl" validate:"required,url"`
	HeroPrompt         string `json:"heroPrompt" validate:"required"`
	HeroSeed           *int64 `json:"heroSeed" validate:"omitempty,min=0"`
	ConceptTitle       string `json:"conceptTitle" validate:"required"`
	ConceptDescription string `json:"conceptDescription"`
	Category           string `json:"category" validate:"max=50"`
	ChatID             string `json:"chatId" validate:"max=64"`
	NumImages          int    `json:"numImages" validate:"omitempty,min=6,max=9"`
}

// ToInput 转换为应用层输入
func (r *CreatePhotoshootRequest) ToInput(userID string) photoshoot.CreateInput {
	return photoshoot.CreateInput{
		UserID:             userID,
		ChatID:             r.ChatID,
		HeroImageURL:       r.HeroImageURL,
		HeroPrompt:         r.HeroPrompt,
		HeroSeed:           r.HeroSeed,
		ConceptTitle:       r.ConceptTitle,
		ConceptDescription: r.ConceptDescription,
		Category:           r.Category,
		NumImages:          r.NumImages,
	}
}

// PredictionResponse 单个渲染任务
type PredictionResponse struct {
	ID           string `json:"id"`
	Index        int    `json:"index"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Pose         string `json:"pose"`
	Location     string `json:"location"`
	Seed         int64  `json:"seed"`
	ShotDistance string `json:"shotDistance"`
}

// CreatePhotoshootResponse 创建成功响应
type CreatePhotoshootResponse struct {
	PhotoshootID    string               `json:"photoshootId"`
	Predictions     []PredictionResponse `json:"predictions"`
	TotalImages     int                  `json:"totalImages"`
	BaseOutfit      string               `json:"baseOutfit"`
	ConsistencySeed int64                `json:"consistencySeed"`
	CreditsDeducted int                  `json:"creditsDeducted"`
	NewBalance      int                  `json:"newBalance"`
}

// PhotoshootResponse 批次详情
type PhotoshootResponse struct {
	ID              string               `json:"id"`
	Status          string               `json:"status"`
	ChatID          string               `json:"chatId,omitempty"`
	ConceptTitle    string               `json:"conceptTitle"`
	Category        string               `json:"category"`
	HeroImageURL    string               `json:"heroImageUrl"`
	HeroSeed        *int64               `json:"heroSeed,omitempty"`
	ConsistencySeed int64                `json:"consistencySeed"`
	NumImages       int                  `json:"numImages"`
	BaseOutfit      string               `json:"baseOutfit,omitempty"`
	LocationTheme   string               `json:"locationTheme,omitempty"`
	Predictions     []PredictionResponse `json:"predictions"`
	FailureReason   string               `json:"failureReason,omitempty"`
	CreditsDeducted int                  `json:"creditsDeducted"`
	CreatedAt       time.Time            `json:"createdAt"`
}

// ToPredictionResponses 转换任务列表
func ToPredictionResponses(jobs []entity.PoseJob) []PredictionResponse {
	out := make([]PredictionResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, PredictionResponse{
			ID:           j.ID,
			Index:        j.Index,
			Title:        j.Title,
			Description:  j.Description,
			Pose:         j.Pose,
			Location:     j.Location,
			Seed:         j.Seed,
			ShotDistance: string(j.ShotDistance),
		})
	}
	return out
}

// ToCreatePhotoshootResponse 转换创建结果
func ToCreatePhotoshootResponse(res *photoshoot.CreateResult) *CreatePhotoshootResponse {
	return &CreatePhotoshootResponse{
		PhotoshootID:    res.Batch.ID,
		Predictions:     ToPredictionResponses(res.Predictions),
		TotalImages:     res.TotalImages,
		BaseOutfit:      res.BaseOutfit,
		ConsistencySeed: res.ConsistencySeed,
		CreditsDeducted: res.CreditsDeducted,
		NewBalance:      res.NewBalance,
	}
}

// ToPhotoshootResponse 转换批次实体
func ToPhotoshootResponse(b *entity.PhotoshootBatch) *PhotoshootResponse {
	return &PhotoshootResponse{
		ID:              b.ID,
		Status:          string(b.Status),
		ChatID:          b.ChatID,
		ConceptTitle:    b.ConceptTitle,
		Category:        b.Category,
		HeroImageURL:    b.HeroImageURL,
		HeroSeed:        b.HeroSeed,
		ConsistencySeed: b.Seed,
		NumImages:       b.NumImages,
		BaseOutfit:      b.BaseOutfit,
		LocationTheme:   b.LocationTheme,
		Predictions:     ToPredictionResponses(b.Jobs),
		FailureReason:   b.FailureReason,
		CreditsDeducted: b.CreditsDeducted,
		CreatedAt:       b.CreatedAt,
	}
}

// ToPhotoshootResponses 转换批次列表
func ToPhotoshootResponses(batches []*entity.PhotoshootBatch) []*PhotoshootResponse {
	out := make([]*PhotoshootResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, ToPhotoshootResponse(b))
	}
	return out
}
