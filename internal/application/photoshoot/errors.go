package photoshoot

import (
	"errors"
	"fmt"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/application/quota"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/entity"
	apperrors "github.com/sandrasocial/sselfie-9g-sub000/pkg/errors"
)

// ValidationError 请求字段缺失或取值非法
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// ModelNotFoundError 用户没有已完成训练的模型
type ModelNotFoundError struct {
	UserID string
}

func (e *ModelNotFoundError) Error() string {
	return "no completed trained model for user " + e.UserID
}

// PlanningError 姿势规划失败，此时没有任何付费操作
type PlanningError struct {
	Reason string
	Err    error
}

func (e *PlanningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("planning failed: %s: %v", e.Reason, e.Err)
	}
	return "planning failed: " + e.Reason
}

func (e *PlanningError) Unwrap() error { return e.Err }

// ThrottleError 单个姿势重试次数用尽
type ThrottleError struct {
	Attempts int
	Err      error
}

func (e *ThrottleError) Error() string {
	return fmt.Sprintf("render provider throttled after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ThrottleError) Unwrap() error { return e.Err }

// DispatchError 派发中止，Jobs 为中止前已提交的有序任务（索引 0..Index-1）
type DispatchError struct {
	Index    int
	Attempts int
	Jobs     []entity.PoseJob
	Cause    error
}

func (e *DispatchError) Error() string {
	// 在两次提交之间的等待中被取消时该姿势尚未尝试
	if e.Attempts == 0 {
		return fmt.Sprintf("dispatch aborted before pose %d, %d job(s) submitted: %v",
			e.Index, len(e.Jobs), e.Cause)
	}
	return fmt.Sprintf("dispatch aborted at pose %d after %d attempt(s), %d job(s) submitted: %v",
		e.Index, e.Attempts, len(e.Jobs), e.Cause)
}

func (e *DispatchError) Unwrap() error { return e.Cause }

// Submitted 已提交任务数
func (e *DispatchError) Submitted() int { return len(e.Jobs) }

// PartialBatchError 部分任务已提交并作为 partial 批次落库，未扣费
type PartialBatchError struct {
	BatchID   string
	Submitted int
	Err       error
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("photoshoot %s partially submitted (%d jobs): %v", e.BatchID, e.Submitted, e.Err)
}

func (e *PartialBatchError) Unwrap() error { return e.Err }

// ToAppError 把领域错误映射为带 HTTP 状态的 AppError
func ToAppError(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}

	var (
		appErr       *apperrors.AppError
		validation   *ValidationError
		notFound     *ModelNotFoundError
		insufficient quota.InsufficientCreditsError
		planning     *PlanningError
		throttle     *ThrottleError
		dispatch     *DispatchError
		partial      *PartialBatchError
	)

	var out *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &validation):
		out = apperrors.Wrap(err, apperrors.CodeInvalidParam, validation.Error())
	case errors.As(err, &notFound):
		out = apperrors.Wrap(err, apperrors.CodeModelNotFound, "no completed trained model found, train a model first")
	case errors.As(err, &insufficient):
		out = apperrors.Wrap(err, apperrors.CodeInsufficientCredits,
			fmt.Sprintf("insufficient credits: %d required, %d available", insufficient.Required, insufficient.Current)).
			WithData("required", insufficient.Required).
			WithData("current", insufficient.Current)
	case errors.As(err, &planning):
		out = apperrors.Wrap(err, apperrors.CodePlanningFailed, "failed to plan photoshoot poses").
			WithDetail(planning.Error())
	case errors.As(err, &throttle):
		out = apperrors.Wrap(err, apperrors.CodeProviderThrottled,
			fmt.Sprintf("rendering provider rate limit exceeded after %d attempts", throttle.Attempts)).
			WithDetail(throttle.Error())
	case errors.As(err, &dispatch):
		out = apperrors.Wrap(err, apperrors.CodeDispatchFailed, "failed to submit photoshoot jobs").
			WithDetail(dispatch.Error())
	default:
		out = apperrors.Wrap(err, apperrors.CodeUnknown, "failed to create photoshoot").
			WithDetail(err.Error())
	}

	if errors.As(err, &partial) {
		out.WithData("photoshootId", partial.BatchID).
			WithData("submittedImages", partial.Submitted)
	}
	return out
}
