package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/config"
)

// ErrStreamUnsupported Gemini 适配器不支持流式输出
var ErrStreamUnsupported = errors.New("gemini adapter: streaming is not supported")

// GeminiChatModel 把 Gemini GenerativeModel 适配为 eino BaseChatModel
type GeminiChatModel struct {
	client      *genai.Client
	modelName   string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

// NewGeminiChatModel 创建 Gemini 适配器
func NewGeminiChatModel(ctx context.Context, cfg config.ProviderConfig) (*GeminiChatModel, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiChatModel{
		client:      client,
		modelName:   cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		timeout:     cfg.Timeout,
	}, nil
}

// Generate 单轮生成：system 消息合并为 SystemInstruction，其余消息按顺序作为文本片段
func (g *GeminiChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	o := model.GetCommonOptions(&model.Options{
		Model:       &g.modelName,
		MaxTokens:   &g.maxTokens,
		Temperature: &g.temperature,
	}, opts...)

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	gm := g.client.GenerativeModel(*o.Model)
	if o.Temperature != nil {
		gm.SetTemperature(*o.Temperature)
	}
	if o.MaxTokens != nil && *o.MaxTokens > 0 {
		gm.SetMaxOutputTokens(int32(*o.MaxTokens))
	}

	var system []genai.Part
	var parts []genai.Part
	for _, m := range input {
		if m == nil || m.Content == "" {
			continue
		}
		if m.Role == schema.System {
			system = append(system, genai.Text(m.Content))
			continue
		}
		parts = append(parts, genai.Text(m.Content))
	}
	if len(system) > 0 {
		gm.SystemInstruction = &genai.Content{Parts: system}
	}
	if len(parts) == 0 {
		return nil, errors.New("gemini adapter: empty prompt")
	}

	resp, err := gm.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, errors.New("gemini adapter: empty response")
	}

	msg := schema.AssistantMessage(text, nil)
	if resp.UsageMetadata != nil {
		msg.ResponseMeta = &schema.ResponseMeta{
			Usage: &schema.TokenUsage{
				PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
				CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
				TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
			},
		}
	}
	return msg, nil
}

// Stream 不支持
func (g *GeminiChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, ErrStreamUnsupported
}

// Close 关闭底层客户端
func (g *GeminiChatModel) Close() error {
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
