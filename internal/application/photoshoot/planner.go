package photoshoot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/entity"
	wfmodel "github.com/sandrasocial/sselfie-9g-sub000/internal/workflow/model"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/workflow/node"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/logger"
)

// PlanGenerator 单次文本补全调用，由 chain.PhotoshootPlanChain 实现
type PlanGenerator interface {
	Invoke(ctx context.Context, in *wfmodel.PhotoshootPlanInput) (*schema.Message, error)
}

// PlanInput 规划输入
type PlanInput struct {
	BasePrompt         string
	TriggerWord        string
	NumImages          int
	Seed               int64
	Category           string
	ConceptTitle       string
	ConceptDescription string
}

// Plan 规划结果，Poses 数量与请求的 NumImages 一致
type Plan struct {
	BaseOutfit    string
	LocationTheme string
	LightingStyle string
	CameraSpecs   string
	Poses         []entity.PoseVariation
	Meta          wfmodel.LLMUsageMeta
}

// PlannerOptions 模型选择参数，零值使用工厂默认
type PlannerOptions struct {
	Provider    string
	Model       string
	Temperature *float32
	MaxTokens   *int
}

// VariationPlanner 把一个主提示词扩展成 N 个姿势
type VariationPlanner struct {
	gen        PlanGenerator
	opts       PlannerOptions
	extractors []node.Extractor
}

func NewVariationPlanner(gen PlanGenerator, opts PlannerOptions) *VariationPlanner {
	return &VariationPlanner{gen: gen, opts: opts, extractors: node.DefaultExtractors}
}

// Plan 不做重试，任何失败都返回 PlanningError
func (p *VariationPlanner) Plan(ctx context.Context, in PlanInput) (*Plan, error) {
	msg, err := p.gen.Invoke(ctx, &wfmodel.PhotoshootPlanInput{
		BasePrompt:         in.BasePrompt,
		TriggerWord:        in.TriggerWord,
		NumImages:          in.NumImages,
		Seed:               in.Seed,
		Category:           in.Category,
		ConceptTitle:       in.ConceptTitle,
		ConceptDescription: in.ConceptDescription,
		Provider:           p.opts.Provider,
		Model:              p.opts.Model,
		Temperature:        p.opts.Temperature,
		MaxTokens:          p.opts.MaxTokens,
	})
	if err != nil {
		return nil, &PlanningError{Reason: "text completion failed", Err: err}
	}
	if msg == nil {
		return nil, &PlanningError{Reason: "empty response"}
	}

	plan, err := p.parse(ctx, msg.Content, in)
	if err != nil {
		return nil, err
	}

	plan.Meta = wfmodel.LLMUsageMeta{
		Provider:    p.opts.Provider,
		Model:       p.opts.Model,
		GeneratedAt: time.Now().UTC(),
	}
	if msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
		plan.Meta.PromptTokens = msg.ResponseMeta.Usage.PromptTokens
		plan.Meta.CompletionTokens = msg.ResponseMeta.Usage.CompletionTokens
	}
	return plan, nil
}

func (p *VariationPlanner) parse(ctx context.Context, content string, in PlanInput) (*Plan, error) {
	raw, ok := node.ExtractJSON(content, p.extractors...)
	if !ok {
		return nil, &PlanningError{Reason: "no JSON in response"}
	}

	var out wfmodel.PhotoshootPlanOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, &PlanningError{Reason: "malformed JSON", Err: err}
	}
	if len(out.Poses) == 0 {
		return nil, &PlanningError{Reason: "no poses generated"}
	}
	if len(out.Poses) != in.NumImages {
		return nil, &PlanningError{Reason: fmt.Sprintf("expected %d poses, got %d", in.NumImages, len(out.Poses))}
	}

	poses := make([]entity.PoseVariation, 0, len(out.Poses))
	for i, pp := range out.Poses {
		prompt := strings.TrimSpace(pp.Prompt)
		if prompt == "" {
			return nil, &PlanningError{Reason: fmt.Sprintf("pose %d has an empty prompt", i)}
		}
		poses = append(poses, normalizePose(ctx, i, pp, in.TriggerWord))
	}

	return &Plan{
		BaseOutfit:    strings.TrimSpace(out.BaseOutfit),
		LocationTheme: strings.TrimSpace(out.LocationTheme),
		LightingStyle: strings.TrimSpace(out.LightingStyle),
		CameraSpecs:   strings.TrimSpace(out.CameraSpecs),
		Poses:         poses,
	}, nil
}

// normalizePose 枚举字段归一，未知值回退默认并记录警告；提示词缺触发词时补在开头
func normalizePose(ctx context.Context, index int, pp wfmodel.PlannedPose, triggerWord string) entity.PoseVariation {
	shot, ok := entity.ParseShotType(pp.ShotType)
	if !ok {
		logger.Warn(ctx, "unknown shot type, using default", "pose_index", index, "value", pp.ShotType, "default", shot)
	}
	angle, ok := entity.ParseCameraAngle(pp.CameraAngle)
	if !ok {
		logger.Warn(ctx, "unknown camera angle, using default", "pose_index", index, "value", pp.CameraAngle, "default", angle)
	}
	lens, ok := entity.ParseLensChoice(pp.LensChoice)
	if !ok {
		logger.Warn(ctx, "unknown lens choice, using default", "pose_index", index, "value", pp.LensChoice, "default", lens)
	}

	prompt := strings.TrimSpace(pp.Prompt)
	trigger := strings.TrimSpace(triggerWord)
	if trigger != "" && !strings.Contains(strings.ToLower(prompt), strings.ToLower(trigger)) {
		prompt = trigger + ", " + prompt
	}

	title := strings.TrimSpace(pp.Title)
	if title == "" {
		title = fmt.Sprintf("Pose %d", index+1)
	}

	return entity.PoseVariation{
		Title:       title,
		ShotType:    shot,
		Scenery:     strings.TrimSpace(pp.Scenery),
		Action:      strings.TrimSpace(pp.Action),
		CameraAngle: angle,
		LensChoice:  lens,
		Prompt:      prompt,
	}
}
