package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wfmodel "github.com/sandrasocial/sselfie-9g-sub000/internal/workflow/model"
)

type recordingChatModel struct {
	reply    *schema.Message
	err      error
	calls    int
	messages []*schema.Message
	options  *model.Options
}

func (m *recordingChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.calls++
	m.messages = input
	m.options = model.GetCommonOptions(&model.Options{}, opts...)
	return m.reply, m.err
}

func (m *recordingChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

type staticFactory struct {
	model    model.BaseChatModel
	err      error
	provider string
}

func (f *staticFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	f.provider = name
	return f.model, f.err
}

func TestPhotoshootPlanChainRendersPrompt(t *testing.T) {
	cm := &recordingChatModel{reply: schema.AssistantMessage(`{"poses": []}`, nil)}
	factory := &staticFactory{model: cm}
	c := NewPhotoshootPlanChain(factory)

	temp := float32(0.7)
	out, err := c.Invoke(context.Background(), &wfmodel.PhotoshootPlanInput{
		BasePrompt:   "ssx woman in a cream linen blazer at a Paris cafe",
		TriggerWord:  "ssx",
		NumImages:    6,
		Seed:         482913,
		Category:     "editorial",
		ConceptTitle: "Paris morning",
		Provider:     "gemini",
		Model:        "gemini-1.5-pro",
		Temperature:  &temp,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"poses": []}`, out.Content)
	assert.Equal(t, 1, cm.calls)
	assert.Equal(t, "gemini", factory.provider)

	require.Len(t, cm.messages, 2)
	assert.Equal(t, schema.System, cm.messages[0].Role)
	assert.Contains(t, cm.messages[0].Content, `"poses"`)
	user := cm.messages[1].Content
	assert.Contains(t, user, "Trigger word: ssx")
	assert.Contains(t, user, "Number of poses: 6")
	assert.Contains(t, user, "Shared seed: 482913")
	assert.Contains(t, user, "Concept: Paris morning")
	assert.NotContains(t, user, "Concept notes")
	assert.Contains(t, user, "Paris cafe")

	require.NotNil(t, cm.options.Model)
	assert.Equal(t, "gemini-1.5-pro", *cm.options.Model)
	require.NotNil(t, cm.options.Temperature)
	assert.Equal(t, temp, *cm.options.Temperature)
}

func TestPhotoshootPlanChainValidatesInput(t *testing.T) {
	c := NewPhotoshootPlanChain(&staticFactory{model: &recordingChatModel{}})

	_, err := c.Invoke(context.Background(), &wfmodel.PhotoshootPlanInput{NumImages: 6})
	assert.Error(t, err)

	_, err = c.Invoke(context.Background(), &wfmodel.PhotoshootPlanInput{BasePrompt: "x"})
	assert.Error(t, err)

	_, err = c.Invoke(context.Background(), nil)
	assert.Error(t, err)
}

func TestPhotoshootPlanChainPropagatesModelError(t *testing.T) {
	boom := errors.New("upstream 500")
	c := NewPhotoshootPlanChain(&staticFactory{model: &recordingChatModel{err: boom}})

	_, err := c.Invoke(context.Background(), &wfmodel.PhotoshootPlanInput{BasePrompt: "x", NumImages: 6})
	assert.ErrorIs(t, err, boom)
}
