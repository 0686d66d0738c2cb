package rendering

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/entity"
)

func TestSubmitSendsPrediction(t *testing.T) {
	var got predictionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/predictions", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "pred-123", "status": "starting"}`))
	}))
	defer srv.Close()

	c := NewClientWithHTTP(srv.URL+"/", "tok", srv.Client())
	id, err := c.Submit(context.Background(), entity.RenderJobSpec{
		ModelVersion:         "sandra/ssx-model:abc123",
		Prompt:               "ssx woman at a cafe",
		Seed:                 482913,
		AspectRatio:          "4:5",
		GuidanceScale:        3.5,
		NumInferenceSteps:    28,
		LoraWeights:          "https://weights/ssx.tar",
		LoraScale:            1,
		ExtraLora:            "https://weights/realism.safetensors",
		ExtraLoraScale:       0.2,
		DisableSafetyChecker: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "pred-123", id)

	assert.Equal(t, "abc123", got.Version)
	assert.Equal(t, int64(482913), got.Input.Seed)
	assert.Equal(t, 1, got.Input.NumOutputs)
	assert.True(t, got.Input.DisableSafetyChecker)
	assert.Equal(t, 0.2, got.Input.ExtraLoraScale)
}

func TestSubmitThrottledWithRetryAfterHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"title": "Too many requests", "detail": "Request was throttled."}`))
	}))
	defer srv.Close()

	_, err := NewClientWithHTTP(srv.URL, "tok", srv.Client()).Submit(context.Background(), entity.RenderJobSpec{Prompt: "p"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Throttled())
	assert.Equal(t, 5*time.Second, apiErr.RetryAfterHint())
	assert.Equal(t, "Request was throttled.", apiErr.Message)
}

func TestSubmitRetryAfterFromBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"detail": "slow down", "retry_after": 7}`))
	}))
	defer srv.Close()

	_, err := NewClientWithHTTP(srv.URL, "tok", srv.Client()).Submit(context.Background(), entity.RenderJobSpec{Prompt: "p"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 7*time.Second, apiErr.RetryAfter)
}

func TestSubmitNonThrottleError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": "invalid version"}`))
	}))
	defer srv.Close()

	_, err := NewClientWithHTTP(srv.URL, "tok", srv.Client()).Submit(context.Background(), entity.RenderJobSpec{Prompt: "p"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.False(t, apiErr.Throttled())
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
}

func TestAPIErrorThrottledMessage(t *testing.T) {
	assert.True(t, (&APIError{StatusCode: 500, Message: "Request was Throttled by upstream"}).Throttled())
	assert.False(t, (&APIError{StatusCode: 500, Message: "boom"}).Throttled())
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 3*time.Second, parseRetryAfter("3", now))
	assert.Equal(t, 1500*time.Millisecond, parseRetryAfter("1.5", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("-1", now))
	assert.Equal(t, 10*time.Second, parseRetryAfter(now.Add(10*time.Second).Format(http.TimeFormat), now))
}
