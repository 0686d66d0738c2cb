package chain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.opentelemetry.io/otel/attribute"

	wfmodel "github.com/sandrasocial/sselfie-9g-sub000/internal/workflow/model"
	workflowport "github.com/sandrasocial/sselfie-9g-sub000/internal/workflow/port"
	workflowprompt "github.com/sandrasocial/sselfie-9g-sub000/internal/workflow/prompt"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/metrics"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/tracer"
)

const workflowPhotoshootPlan = "photoshoot_plan"

// PhotoshootPlanChain 单次调用 LLM 生成姿势计划
type PhotoshootPlanChain struct {
	factory  workflowport.ChatModelFactory
	registry *workflowprompt.Registry
}

func NewPhotoshootPlanChain(factory workflowport.ChatModelFactory) *PhotoshootPlanChain {
	return &PhotoshootPlanChain{factory: factory, registry: workflowprompt.NewRegistry()}
}

// Invoke 不做重试，返回原始模型消息，由调用方解析
func (c *PhotoshootPlanChain) Invoke(ctx context.Context, in *wfmodel.PhotoshootPlanInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.BasePrompt) == "" {
		return nil, fmt.Errorf("base prompt is required")
	}
	if in.NumImages <= 0 {
		return nil, fmt.Errorf("num_images is required")
	}

	provider := strings.TrimSpace(in.Provider)
	providerLabel := provider
	if providerLabel == "" {
		providerLabel = "default"
	}

	ctx, span := tracer.Start(ctx, "llm.photoshoot_plan")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.provider", providerLabel),
		attribute.Int("photoshoot.num_images", in.NumImages),
	)

	chatModel, err := c.factory.Get(ctx, provider)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}

	msgs, err := c.formatMessages(ctx, in)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}

	start := time.Now()
	outMsg, err := chatModel.Generate(ctx, msgs, buildPlanModelOptions(in)...)
	metrics.LLMCallDuration.WithLabelValues(workflowPhotoshootPlan, providerLabel).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(workflowPhotoshootPlan, providerLabel, "error").Inc()
		tracer.RecordError(span, err)
		return nil, err
	}
	if outMsg == nil {
		metrics.LLMCallTotal.WithLabelValues(workflowPhotoshootPlan, providerLabel, "error").Inc()
		return nil, fmt.Errorf("empty llm response")
	}
	metrics.LLMCallTotal.WithLabelValues(workflowPhotoshootPlan, providerLabel, "success").Inc()

	if outMsg.ResponseMeta != nil && outMsg.ResponseMeta.Usage != nil {
		usage := outMsg.ResponseMeta.Usage
		metrics.LLMTokensUsed.WithLabelValues(workflowPhotoshootPlan, providerLabel, "prompt").Add(float64(usage.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(workflowPhotoshootPlan, providerLabel, "completion").Add(float64(usage.CompletionTokens))
		span.SetAttributes(
			attribute.Int("llm.prompt_tokens", usage.PromptTokens),
			attribute.Int("llm.completion_tokens", usage.CompletionTokens),
		)
	}
	return outMsg, nil
}

func (c *PhotoshootPlanChain) formatMessages(ctx context.Context, in *wfmodel.PhotoshootPlanInput) ([]*schema.Message, error) {
	tpl, err := c.registry.ChatTemplate(workflowprompt.PromptPhotoshootPlanV1)
	if err != nil {
		return nil, err
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "lifestyle"
	}
	vars := map[string]any{
		"base_prompt":         strings.TrimSpace(in.BasePrompt),
		"trigger_word":        strings.TrimSpace(in.TriggerWord),
		"num_images":          in.NumImages,
		"seed":                in.Seed,
		"category":            category,
		"concept_title":       strings.TrimSpace(in.ConceptTitle),
		"concept_description": strings.TrimSpace(in.ConceptDescription),
	}
	return tpl.Format(ctx, vars)
}

func buildPlanModelOptions(in *wfmodel.PhotoshootPlanInput) []model.Option {
	opts := make([]model.Option, 0, 3)
	if in.Temperature != nil {
		opts = append(opts, model.WithTemperature(*in.Temperature))
	}
	if in.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*in.MaxTokens))
	}
	if strings.TrimSpace(in.Model) != "" {
		opts = append(opts, model.WithModel(strings.TrimSpace(in.Model)))
	}
	return opts
}
