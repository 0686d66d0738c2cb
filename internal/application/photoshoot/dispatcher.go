package photoshoot

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/entity"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/logger"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/metrics"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/tracer"
)

// RenderSubmitter 渲染服务提交端口，返回异步任务句柄
type RenderSubmitter interface {
	Submit(ctx context.Context, spec entity.RenderJobSpec) (string, error)
}

// RenderDefaults 每个任务共用的固定参数
type RenderDefaults struct {
	AspectRatio    string
	StyleLoraURL   string
	StyleLoraScale float64
}

// DispatchRequest 一次派发的输入
type DispatchRequest struct {
	Poses   []entity.PoseVariation
	Seed    int64
	Model   *entity.TrainedModel
	Quality QualityPreset
}

// JobDispatcher 按顺序逐个提交姿势任务
type JobDispatcher struct {
	submitter RenderSubmitter
	policy    RetryPolicy
	defaults  RenderDefaults
	sleeper   Sleeper
}

func NewJobDispatcher(submitter RenderSubmitter, policy RetryPolicy, defaults RenderDefaults, sleeper Sleeper) *JobDispatcher {
	if sleeper == nil {
		sleeper = NewTimerSleeper()
	}
	if defaults.AspectRatio == "" {
		defaults.AspectRatio = "4:5"
	}
	return &JobDispatcher{
		submitter: submitter,
		policy:    policy,
		defaults:  defaults,
		sleeper:   sleeper,
	}
}

// BuildSpec 构造单个姿势的渲染任务规格
func (d *JobDispatcher) BuildSpec(pose entity.PoseVariation, seed int64, model *entity.TrainedModel, q QualityPreset) entity.RenderJobSpec {
	return entity.RenderJobSpec{
		ModelVersion:         model.ModelVersion,
		Prompt:               pose.Prompt,
		Seed:                 seed,
		AspectRatio:          d.defaults.AspectRatio,
		GuidanceScale:        q.GuidanceScale,
		NumInferenceSteps:    q.NumInferenceSteps,
		Megapixels:           q.Megapixels,
		OutputFormat:         q.OutputFormat,
		OutputQuality:        q.OutputQuality,
		LoraWeights:          model.LoraWeightsURL,
		LoraScale:            q.LoraScale,
		ExtraLora:            d.defaults.StyleLoraURL,
		ExtraLoraScale:       d.defaults.StyleLoraScale,
		DisableSafetyChecker: true,
		NumOutputs:           1,
	}
}

// jobAccumulator 按提交顺序累积已成功的任务
type jobAccumulator struct {
	jobs []entity.PoseJob
}

func (a *jobAccumulator) add(job entity.PoseJob) {
	a.jobs = append(a.jobs, job)
}

func (a *jobAccumulator) fail(index, attempts int, cause error) *DispatchError {
	jobs := make([]entity.PoseJob, len(a.jobs))
	copy(jobs, a.jobs)
	return &DispatchError{Index: index, Attempts: attempts, Jobs: jobs, Cause: cause}
}

// Dispatch 全部成功时返回与 Poses 同序的任务；失败或取消时返回 *DispatchError，携带已提交部分
func (d *JobDispatcher) Dispatch(ctx context.Context, req DispatchRequest) ([]entity.PoseJob, error) {
	ctx, span := tracer.Start(ctx, "photoshoot.Dispatch")
	defer span.End()
	span.SetAttributes(
		attribute.Int("photoshoot.num_images", len(req.Poses)),
		attribute.Int64("photoshoot.seed", req.Seed),
	)

	acc := &jobAccumulator{jobs: make([]entity.PoseJob, 0, len(req.Poses))}
	last := len(req.Poses) - 1

	for i, pose := range req.Poses {
		spec := d.BuildSpec(pose, req.Seed, req.Model, req.Quality)

		poseCtx := logger.WithContext(ctx, logger.PoseIndexKey, i)
		handle, attempts, err := RetryWithDelay(poseCtx, d.sleeper, d.policy.MaxAttempts,
			func(ctx context.Context) (string, error) {
				return d.submitter.Submit(ctx, spec)
			},
			func(err error) (time.Duration, bool) {
				retryAfter, throttled := classifyThrottle(err)
				if !throttled {
					return 0, false
				}
				return d.policy.ThrottleWait(retryAfter), true
			},
		)
		if err != nil {
			derr := acc.fail(i, attempts, err)
			tracer.RecordError(span, derr)
			return derr.Jobs, derr
		}

		acc.add(entity.NewPoseJob(i, handle, req.Seed, pose))
		logger.Debug(ctx, "pose job submitted", "pose_index", i, "job_id", handle, "attempts", attempts)

		if i < last {
			metrics.RenderWaitSeconds.WithLabelValues("pacing").Add(d.policy.InterSubmitDelay.Seconds())
			if err := d.sleeper.Sleep(ctx, d.policy.InterSubmitDelay); err != nil {
				derr := acc.fail(i+1, 0, err)
				tracer.RecordError(span, derr)
				return derr.Jobs, derr
			}
		}
	}
	return acc.jobs, nil
}
