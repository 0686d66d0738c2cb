package photoshoot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/entity"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/repository"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/infrastructure/rendering"
	wfmodel "github.com/sandrasocial/sselfie-9g-sub000/internal/workflow/model"
)

type fakeGenerator struct {
	content string
	err     error
	calls   int
	last    *wfmodel.PhotoshootPlanInput
}

func (g *fakeGenerator) Invoke(ctx context.Context, in *wfmodel.PhotoshootPlanInput) (*schema.Message, error) {
	g.calls++
	g.last = in
	if g.err != nil {
		return nil, g.err
	}
	return &schema.Message{Role: schema.Assistant, Content: g.content}, nil
}

// planJSON 生成 n 个姿势的计划 JSON
func planJSON(n int) string {
	poses := make([]string, 0, n)
	for i := 0; i < n; i++ {
		poses = append(poses, fmt.Sprintf(
			`{"title": "Pose %d", "shotType": "medium shot", "scenery": "cafe terrace", "action": "sipping coffee %d", "cameraAngle": "straight on", "lensChoice": "50mm", "prompt": "ssx woman in a camel coat at a cafe terrace, pose %d"}`,
			i+1, i, i))
	}
	return `{"baseOutfit": "camel coat", "locationTheme": "paris cafe", "lightingStyle": "golden hour", "cameraSpecs": "50mm f/1.8", "poses": [` +
		strings.Join(poses, ",") + `]}`
}

// submitResult 脚本化的单次提交结果
type submitResult struct {
	id  string
	err error
}

type fakeSubmitter struct {
	mu      sync.Mutex
	script  []submitResult
	specs   []entity.RenderJobSpec
	onCall  func(n int)
	counter int
}

func (s *fakeSubmitter) Submit(ctx context.Context, spec entity.RenderJobSpec) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.specs = append(s.specs, spec)
	n := s.counter
	s.counter++
	if s.onCall != nil {
		s.onCall(n)
	}
	if n < len(s.script) {
		r := s.script[n]
		return r.id, r.err
	}
	return fmt.Sprintf("job-%d", n), nil
}

func (s *fakeSubmitter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.specs)
}

func throttled(retryAfter time.Duration) error {
	return &rendering.APIError{StatusCode: 429, Message: "Request was throttled.", RetryAfter: retryAfter}
}

type recordingSleeper struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.sleeps = append(r.sleeps, d)
	r.mu.Unlock()
	return ctx.Err()
}

func (r *recordingSleeper) recorded() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.sleeps...)
}

type fakeModels struct {
	model *entity.TrainedModel
	err   error
}

func (m *fakeModels) GetLatestCompleted(ctx context.Context, userID string) (*entity.TrainedModel, error) {
	return m.model, m.err
}

func (m *fakeModels) Create(ctx context.Context, model *entity.TrainedModel) error {
	m.model = model
	return nil
}

type fakeBatches struct {
	mu        sync.Mutex
	created   []*entity.PhotoshootBatch
	createErr error
	createCtx context.Context
	getErr    error
}

func (b *fakeBatches) Create(ctx context.Context, batch *entity.PhotoshootBatch) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createCtx = ctx
	if b.createErr != nil {
		return b.createErr
	}
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	b.created = append(b.created, batch)
	return nil
}

func (b *fakeBatches) GetByID(ctx context.Context, id string) (*entity.PhotoshootBatch, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.getErr != nil {
		return nil, b.getErr
	}
	for _, batch := range b.created {
		if batch.ID == id {
			return batch, nil
		}
	}
	return nil, nil
}

func (b *fakeBatches) ListByUser(ctx context.Context, userID string, p repository.Pagination) (*repository.PagedResult[*entity.PhotoshootBatch], error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var items []*entity.PhotoshootBatch
	for _, batch := range b.created {
		if batch.UserID == userID {
			items = append(items, batch)
		}
	}
	return repository.NewPagedResult(items, int64(len(items)), p), nil
}

func (b *fakeBatches) UpdateCreditsDeducted(ctx context.Context, id string, credits int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, batch := range b.created {
		if batch.ID == id {
			batch.CreditsDeducted = credits
		}
	}
	return nil
}

type fakeLedger struct {
	mu       sync.Mutex
	balance  int
	debitErr error
	debits   []repository.DebitInput
	reads    int
}

func (l *fakeLedger) GetBalance(ctx context.Context, userID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reads++
	return l.balance, nil
}

func (l *fakeLedger) Debit(ctx context.Context, in repository.DebitInput) (*repository.DebitResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debits = append(l.debits, in)
	if l.debitErr != nil {
		return nil, l.debitErr
	}
	if l.balance < in.Amount {
		return nil, repository.ErrInsufficientBalance
	}
	l.balance -= in.Amount
	return &repository.DebitResult{TransactionID: uuid.NewString(), NewBalance: l.balance}, nil
}

func (l *fakeLedger) Grant(ctx context.Context, userID string, amount int, description string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance += amount
	return l.balance, nil
}

type fakePublisher struct {
	published []*entity.PhotoshootBatch
	err       error
}

func (p *fakePublisher) PublishBatchRecorded(ctx context.Context, batch *entity.PhotoshootBatch) (string, error) {
	p.published = append(p.published, batch)
	if p.err != nil {
		return "", p.err
	}
	return "1-0", nil
}

var errBoom = errors.New("boom")

func testModel() *entity.TrainedModel {
	now := time.Now()
	return &entity.TrainedModel{
		ID:             "model-1",
		UserID:         "user-1",
		Status:         entity.TrainingStatusCompleted,
		TriggerWord:    "ssx",
		ModelVersion:   "sandra/ssx-model:abc123",
		LoraWeightsURL: "https://weights/ssx.tar",
		CompletedAt:    &now,
	}
}
