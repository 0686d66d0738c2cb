package photoshoot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/application/quota"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/entity"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/repository"
	apperrors "github.com/sandrasocial/sselfie-9g-sub000/pkg/errors"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/logger"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/metrics"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/tracer"
)

// CreateInput 创建拍摄批次的请求
type CreateInput struct {
	UserID             string
	ChatID             string
	HeroImageURL       string
	HeroPrompt         string
	HeroSeed           *int64
	ConceptTitle       string
	ConceptDescription string
	Category           string
	// NumImages 为 0 时使用配置的默认值
	NumImages int
}

// CreateResult 创建成功的结果
type CreateResult struct {
	Batch           *entity.PhotoshootBatch
	Predictions     []entity.PoseJob
	TotalImages     int
	BaseOutfit      string
	ConsistencySeed int64
	CreditsDeducted int
	NewBalance      int
}

// ServiceOptions 业务参数
type ServiceOptions struct {
	DefaultImages int
}

// Service 拍摄批次编排
type Service struct {
	models     repository.TrainedModelRepository
	batches    repository.PhotoshootBatchRepository
	seeds      *SeedAllocator
	authorizer *quota.CreditAuthorizer
	planner    *VariationPlanner
	dispatcher *JobDispatcher
	recorder   *BatchRecorder
	opts       ServiceOptions
}

func NewService(
	models repository.TrainedModelRepository,
	batches repository.PhotoshootBatchRepository,
	seeds *SeedAllocator,
	authorizer *quota.CreditAuthorizer,
	planner *VariationPlanner,
	dispatcher *JobDispatcher,
	recorder *BatchRecorder,
	opts ServiceOptions,
) *Service {
	if opts.DefaultImages == 0 {
		opts.DefaultImages = entity.MinBatchImages
	}
	return &Service{
		models:     models,
		batches:    batches,
		seeds:      seeds,
		authorizer: authorizer,
		planner:    planner,
		dispatcher: dispatcher,
		recorder:   recorder,
		opts:       opts,
	}
}

func (s *Service) validate(in *CreateInput) error {
	switch {
	case strings.TrimSpace(in.UserID) == "":
		return &ValidationError{Field: "userId", Reason: "is required"}
	case strings.TrimSpace(in.HeroImageURL) == "":
		return &ValidationError{Field: "heroImageUrl", Reason: "is required"}
	case strings.TrimSpace(in.HeroPrompt) == "":
		return &ValidationError{Field: "heroPrompt", Reason: "is required"}
	case strings.TrimSpace(in.ConceptTitle) == "":
		return &ValidationError{Field: "conceptTitle", Reason: "is required"}
	}
	if in.NumImages == 0 {
		in.NumImages = s.opts.DefaultImages
	}
	if !entity.ValidBatchSize(in.NumImages) {
		return &ValidationError{
			Field:  "numImages",
			Reason: fmt.Sprintf("must be between %d and %d", entity.MinBatchImages, entity.MaxBatchImages),
		}
	}
	return nil
}

// Create 校验 -> 查模型 -> 分配种子 -> 积分预检 -> 规划 -> 派发 -> 落库 -> 扣费
func (s *Service) Create(ctx context.Context, in CreateInput) (res *CreateResult, err error) {
	ctx, span := tracer.Start(ctx, "photoshoot.Create")
	defer span.End()

	start := time.Now()
	outcome := "success"
	defer func() {
		metrics.PhotoshootBatchesTotal.WithLabelValues(outcome).Inc()
		metrics.PhotoshootDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			tracer.RecordError(span, err)
		}
	}()

	if err := s.validate(&in); err != nil {
		outcome = "invalid"
		return nil, err
	}
	span.SetAttributes(attribute.Int("photoshoot.num_images", in.NumImages))
	metrics.PhotoshootBatchSize.Observe(float64(in.NumImages))

	model, err := s.models.GetLatestCompleted(ctx, in.UserID)
	if err != nil {
		outcome = "error"
		return nil, fmt.Errorf("lookup trained model: %w", err)
	}
	if model == nil {
		outcome = "model_not_found"
		return nil, &ModelNotFoundError{UserID: in.UserID}
	}
	if !model.Usable() {
		outcome = "invalid"
		return nil, &ValidationError{Field: "trainedModel", Reason: "has no usable version or trigger word"}
	}

	seed := s.seeds.Allocate(in.HeroSeed)
	span.SetAttributes(attribute.Int64("photoshoot.seed", seed))

	auth, err := s.authorizer.Authorize(ctx, in.UserID, in.NumImages)
	if err != nil {
		var insufficient quota.InsufficientCreditsError
		if errors.As(err, &insufficient) {
			outcome = "insufficient_credits"
		} else {
			outcome = "error"
		}
		return nil, err
	}

	plan, err := s.planner.Plan(ctx, PlanInput{
		BasePrompt:         in.HeroPrompt,
		TriggerWord:        model.TriggerWord,
		NumImages:          in.NumImages,
		Seed:               seed,
		Category:           in.Category,
		ConceptTitle:       in.ConceptTitle,
		ConceptDescription: in.ConceptDescription,
	})
	if err != nil {
		outcome = "planning_failed"
		return nil, err
	}

	jobs, err := s.dispatcher.Dispatch(ctx, DispatchRequest{
		Poses:   plan.Poses,
		Seed:    seed,
		Model:   model,
		Quality: QualityPresetFor(in.Category),
	})
	if err != nil {
		err = s.handleDispatchFailure(ctx, in, model, seed, plan, err)
		outcome = dispatchOutcome(err)
		return nil, err
	}

	batch := s.newBatch(in, model, seed, plan, jobs)
	batchID, err := s.recorder.Record(ctx, batch)
	if err != nil {
		outcome = "error"
		logger.Error(ctx, "submitted jobs could not be recorded", err, "job_count", len(jobs))
		return nil, err
	}
	ctx = logger.WithContext(ctx, logger.BatchIDKey, batchID)

	res = &CreateResult{
		Batch:           batch,
		Predictions:     jobs,
		TotalImages:     len(jobs),
		BaseOutfit:      plan.BaseOutfit,
		ConsistencySeed: seed,
		CreditsDeducted: auth.Required,
	}

	newBalance, err := s.recorder.Debit(ctx, in.UserID, auth.Required, batch.ReferenceJobID(), batchID)
	if err != nil {
		// 批次已存在，扣费失败只记录不回滚
		outcome = "debit_failed"
		logger.Error(ctx, "credit debit failed after batch was recorded", err,
			"required", auth.Required, "balance", auth.Current)
		res.CreditsDeducted = 0
		res.NewBalance = auth.Current
		return res, nil
	}
	batch.CreditsDeducted = auth.Required
	res.NewBalance = newBalance

	logger.Info(ctx, "photoshoot batch created",
		"num_images", len(jobs), "seed", seed, "credits", auth.Required)
	return res, nil
}

func dispatchOutcome(err error) string {
	var (
		partial  *PartialBatchError
		throttle *ThrottleError
	)
	switch {
	case errors.As(err, &partial):
		return "partial"
	case errors.As(err, &throttle):
		return "throttled"
	default:
		return "dispatch_failed"
	}
}

// handleDispatchFailure 已提交 k>=1 个任务时落库为 partial 且不扣费，k=0 时不落库
func (s *Service) handleDispatchFailure(ctx context.Context, in CreateInput, model *entity.TrainedModel, seed int64, plan *Plan, err error) error {
	var derr *DispatchError
	if !errors.As(err, &derr) || derr.Submitted() == 0 {
		return err
	}

	batch := s.newBatch(in, model, seed, plan, derr.Jobs)
	batch.MarkPartial(derr.Error())

	// 请求可能已取消，落库使用独立 ctx
	persistCtx := context.WithoutCancel(ctx)
	batchID, recErr := s.recorder.Record(persistCtx, batch)
	if recErr != nil {
		logger.Error(persistCtx, "failed to record partial photoshoot batch", recErr,
			"submitted", derr.Submitted())
		return err
	}

	logger.Warn(persistCtx, "photoshoot dispatch aborted, partial batch recorded",
		"batch_id", batchID, "submitted", derr.Submitted(), "requested", in.NumImages, "cause", derr.Cause.Error())
	return &PartialBatchError{BatchID: batchID, Submitted: derr.Submitted(), Err: err}
}

func (s *Service) newBatch(in CreateInput, model *entity.TrainedModel, seed int64, plan *Plan, jobs []entity.PoseJob) *entity.PhotoshootBatch {
	batch := entity.NewPhotoshootBatch(in.UserID, seed, jobs)
	// 部分提交时 jobs 少于请求数，保留请求的 N
	batch.NumImages = in.NumImages
	batch.ChatID = in.ChatID
	batch.TrainedModelID = model.ID
	batch.ConceptTitle = in.ConceptTitle
	batch.ConceptDescription = in.ConceptDescription
	batch.Category = in.Category
	batch.HeroImageURL = in.HeroImageURL
	batch.HeroPrompt = in.HeroPrompt
	batch.HeroSeed = in.HeroSeed
	batch.BaseOutfit = plan.BaseOutfit
	batch.LocationTheme = plan.LocationTheme
	return batch
}

// Get 只返回属于该用户的批次
func (s *Service) Get(ctx context.Context, userID, batchID string) (*entity.PhotoshootBatch, error) {
	// 主键为 uuid 列，非法 ID 不可能存在
	if _, err := uuid.Parse(batchID); err != nil {
		return nil, apperrors.New(apperrors.CodeBatchNotFound, "photoshoot not found")
	}
	batch, err := s.batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load photoshoot")
	}
	if batch == nil || batch.UserID != userID {
		return nil, apperrors.New(apperrors.CodeBatchNotFound, "photoshoot not found")
	}
	return batch, nil
}

// List 分页列出用户的批次
func (s *Service) List(ctx context.Context, userID string, page repository.Pagination) (*repository.PagedResult[*entity.PhotoshootBatch], error) {
	result, err := s.batches.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list photoshoots")
	}
	return result, nil
}
