package photoshoot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/entity"
)

func testPoses(n int) []entity.PoseVariation {
	poses := make([]entity.PoseVariation, n)
	for i := range poses {
		poses[i] = entity.PoseVariation{
			Title:       "Pose",
			ShotType:    entity.ShotTypeMediumShot,
			Scenery:     "cafe",
			Action:      "sipping coffee",
			CameraAngle: entity.CameraAngleStraightOn,
			LensChoice:  entity.Lens50mm,
			Prompt:      "ssx at a cafe",
		}
		poses[i].Title = poses[i].Title + string(rune('A'+i))
	}
	return poses
}

func newTestDispatcher(sub RenderSubmitter, sleeper Sleeper) *JobDispatcher {
	return NewJobDispatcher(sub, DefaultRetryPolicy(), RenderDefaults{
		AspectRatio:    "4:5",
		StyleLoraURL:   "https://weights/realism.safetensors",
		StyleLoraScale: 0.2,
	}, sleeper)
}

func dispatchRequest(n int) DispatchRequest {
	return DispatchRequest{
		Poses:   testPoses(n),
		Seed:    482913,
		Model:   testModel(),
		Quality: QualityPresetFor("editorial"),
	}
}

func TestDispatchSubmitsInOrderWithPacing(t *testing.T) {
	sub := &fakeSubmitter{}
	sleeper := &recordingSleeper{}
	d := newTestDispatcher(sub, sleeper)

	jobs, err := d.Dispatch(context.Background(), dispatchRequest(6))
	require.NoError(t, err)
	require.Len(t, jobs, 6)

	for i, job := range jobs {
		assert.Equal(t, i, job.Index)
		assert.Equal(t, int64(482913), job.Seed)
		assert.Equal(t, "Pose"+string(rune('A'+i)), job.Title)
	}
	assert.Equal(t, "job-0", jobs[0].ID)

	// N-1 次节奏等待，最后一次提交后不等待
	sleeps := sleeper.recorded()
	require.Len(t, sleeps, 5)
	for _, s := range sleeps {
		assert.Equal(t, 11*time.Second, s)
	}
}

func TestDispatchBuildsJobSpec(t *testing.T) {
	sub := &fakeSubmitter{}
	d := newTestDispatcher(sub, &recordingSleeper{})

	_, err := d.Dispatch(context.Background(), dispatchRequest(6))
	require.NoError(t, err)

	spec := sub.specs[0]
	assert.Equal(t, "sandra/ssx-model:abc123", spec.ModelVersion)
	assert.Equal(t, int64(482913), spec.Seed)
	assert.Equal(t, "4:5", spec.AspectRatio)
	assert.Equal(t, "https://weights/ssx.tar", spec.LoraWeights)
	assert.Equal(t, "https://weights/realism.safetensors", spec.ExtraLora)
	assert.Equal(t, 0.2, spec.ExtraLoraScale)
	assert.True(t, spec.DisableSafetyChecker)
	assert.Equal(t, 1, spec.NumOutputs)
	assert.Equal(t, QualityPresetFor("editorial").NumInferenceSteps, spec.NumInferenceSteps)
	for _, s := range sub.specs {
		assert.Equal(t, int64(482913), s.Seed)
	}
}

func TestDispatchRetriesThrottleThenSucceeds(t *testing.T) {
	sub := &fakeSubmitter{script: []submitResult{
		{err: throttled(5 * time.Second)},
		{err: throttled(5 * time.Second)},
		{id: "pred-ok"},
	}}
	sleeper := &recordingSleeper{}
	d := newTestDispatcher(sub, sleeper)

	req := dispatchRequest(1)
	jobs, err := d.Dispatch(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, jobs, 1)
	assert.Equal(t, "pred-ok", jobs[0].ID)
	assert.Equal(t, 3, sub.calls())
	assert.Equal(t, []time.Duration{7 * time.Second, 7 * time.Second}, sleeper.recorded())
}

func TestDispatchGivesUpAfterThreeThrottles(t *testing.T) {
	sub := &fakeSubmitter{script: []submitResult{
		{id: "job-0"},
		{err: throttled(0)},
		{err: throttled(0)},
		{err: throttled(0)},
	}}
	sleeper := &recordingSleeper{}
	d := newTestDispatcher(sub, sleeper)

	jobs, err := d.Dispatch(context.Background(), dispatchRequest(6))

	var te *ThrottleError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 3, te.Attempts)

	var de *DispatchError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 1, de.Index)
	assert.Equal(t, 3, de.Attempts)
	require.Len(t, de.Jobs, 1)
	assert.Equal(t, "job-0", de.Jobs[0].ID)
	assert.Equal(t, de.Jobs, jobs)

	assert.Equal(t, 4, sub.calls())
	// 一次节奏等待 + 两次节流等待（默认 10s + 2s），第三次失败后不再等待
	assert.Equal(t, []time.Duration{11 * time.Second, 12 * time.Second, 12 * time.Second}, sleeper.recorded())
}

func TestDispatchDoesNotRetryOtherFailures(t *testing.T) {
	sub := &fakeSubmitter{script: []submitResult{
		{err: errors.New("rendering api: status 422: invalid version")},
	}}
	sleeper := &recordingSleeper{}
	d := newTestDispatcher(sub, sleeper)

	_, err := d.Dispatch(context.Background(), dispatchRequest(6))

	var de *DispatchError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 0, de.Index)
	assert.Equal(t, 1, de.Attempts)
	assert.Empty(t, de.Jobs)
	assert.Equal(t, 1, sub.calls())
	assert.Empty(t, sleeper.recorded())

	var te *ThrottleError
	assert.False(t, errors.As(err, &te))
}

func TestDispatchStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := &fakeSubmitter{onCall: func(n int) {
		if n == 2 {
			cancel()
		}
	}}
	d := newTestDispatcher(sub, &recordingSleeper{})

	_, err := d.Dispatch(ctx, dispatchRequest(6))

	var de *DispatchError
	require.True(t, errors.As(err, &de))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, de.Jobs, 3)
	assert.Equal(t, 3, sub.calls())
	assert.Equal(t, 0, de.Attempts)
	assert.Equal(t, "dispatch aborted before pose 3, 3 job(s) submitted: context canceled", de.Error())
	for i, j := range de.Jobs {
		assert.Equal(t, i, j.Index)
	}
}
