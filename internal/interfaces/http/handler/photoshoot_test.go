package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/application/photoshoot"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/application/quota"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/entity"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/repository"
	apperrors "github.com/sandrasocial/sselfie-9g-sub000/pkg/errors"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/utils"
)

type fakeService struct {
	res     *photoshoot.CreateResult
	err     error
	lastIn  photoshoot.CreateInput
	batches map[string]*entity.PhotoshootBatch
}

func (s *fakeService) Create(ctx context.Context, in photoshoot.CreateInput) (*photoshoot.CreateResult, error) {
	s.lastIn = in
	return s.res, s.err
}

func (s *fakeService) Get(ctx context.Context, userID, batchID string) (*entity.PhotoshootBatch, error) {
	b, ok := s.batches[batchID]
	if !ok || b.UserID != userID {
		return nil, apperrors.New(apperrors.CodeBatchNotFound, "photoshoot not found")
	}
	return b, nil
}

func (s *fakeService) List(ctx context.Context, userID string, p repository.Pagination) (*repository.PagedResult[*entity.PhotoshootBatch], error) {
	var items []*entity.PhotoshootBatch
	for _, b := range s.batches {
		if b.UserID == userID {
			items = append(items, b)
		}
	}
	return repository.NewPagedResult(items, int64(len(items)), p), nil
}

func newTestEngine(svc PhotoshootService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPhotoshootHandler(svc, utils.NewValidator())
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Set("trace_id", "trace-abc")
		c.Next()
	})
	r.POST("/photoshoots", h.CreatePhotoshoot)
	r.GET("/photoshoots", h.ListPhotoshoots)
	r.GET("/photoshoots/:id", h.GetPhotoshoot)
	return r
}

func postJSON(t *testing.T, r http.Handler, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/photoshoots", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w, out
}

func validBody() map[string]any {
	return map[string]any{
		"heroImageUrl": "https://img/hero.png",
		"heroPrompt":   "ssx woman in a camel coat",
		"heroSeed":     482913,
		"conceptTitle": "Paris Mornings",
		"category":     "lifestyle",
		"chatId":       "chat-1",
	}
}

func TestCreatePhotoshootSuccess(t *testing.T) {
	jobs := []entity.PoseJob{
		{ID: "job-0", Index: 0, Title: "A", Seed: 482913, ShotDistance: entity.ShotTypeCloseUp},
		{ID: "job-1", Index: 1, Title: "B", Seed: 482913, ShotDistance: entity.ShotTypeFullBody},
	}
	svc := &fakeService{res: &photoshoot.CreateResult{
		Batch:           &entity.PhotoshootBatch{ID: "batch-1"},
		Predictions:     jobs,
		TotalImages:     2,
		BaseOutfit:      "camel coat",
		ConsistencySeed: 482913,
		CreditsDeducted: 6,
		NewBalance:      14,
	}}

	w, body := postJSON(t, newTestEngine(svc, "user-1"), validBody())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "batch-1", body["photoshootId"])
	assert.Equal(t, float64(482913), body["consistencySeed"])
	assert.Equal(t, float64(6), body["creditsDeducted"])
	assert.Equal(t, float64(14), body["newBalance"])
	preds := body["predictions"].([]any)
	require.Len(t, preds, 2)
	assert.Equal(t, "close-up", preds[0].(map[string]any)["shotDistance"])

	assert.Equal(t, "user-1", svc.lastIn.UserID)
	require.NotNil(t, svc.lastIn.HeroSeed)
	assert.Equal(t, int64(482913), *svc.lastIn.HeroSeed)
}

func TestCreatePhotoshootValidation(t *testing.T) {
	body := validBody()
	delete(body, "heroPrompt")

	w, out := postJSON(t, newTestEngine(&fakeService{}, "user-1"), body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "heroPrompt is required", out["message"])
	assert.Equal(t, "trace-abc", out["trace_id"])

	body = validBody()
	body["numImages"] = 12
	w, out = postJSON(t, newTestEngine(&fakeService{}, "user-1"), body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "numImages must be at most 9", out["message"])
}

func TestCreatePhotoshootUnauthenticated(t *testing.T) {
	w, out := postJSON(t, newTestEngine(&fakeService{}, ""), validBody())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, out, "message")
}

func TestCreatePhotoshootErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		check  func(t *testing.T, body map[string]any)
	}{
		{
			name:   "insufficient credits",
			err:    quota.InsufficientCreditsError{UserID: "user-1", Required: 6, Current: 3},
			status: http.StatusPaymentRequired,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, float64(6), body["required"])
				assert.Equal(t, float64(3), body["current"])
			},
		},
		{
			name:   "model not found",
			err:    &photoshoot.ModelNotFoundError{UserID: "user-1"},
			status: http.StatusNotFound,
		},
		{
			name:   "planning failed",
			err:    &photoshoot.PlanningError{Reason: "no JSON in response"},
			status: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.NotEmpty(t, body["error"])
				assert.Contains(t, body["details"], "no JSON in response")
			},
		},
		{
			name: "throttled partial",
			err: &photoshoot.PartialBatchError{BatchID: "batch-9", Submitted: 2, Err: &photoshoot.DispatchError{
				Index: 2, Attempts: 3, Cause: &photoshoot.ThrottleError{Attempts: 3, Err: errors.New("429")},
			}},
			status: http.StatusTooManyRequests,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "batch-9", body["photoshootId"])
				assert.Equal(t, float64(2), body["submittedImages"])
			},
		},
		{
			name:   "unknown",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := postJSON(t, newTestEngine(&fakeService{err: tt.err}, "user-1"), validBody())
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, body["message"])
			assert.Equal(t, "trace-abc", body["trace_id"])
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestGetAndListPhotoshoots(t *testing.T) {
	svc := &fakeService{batches: map[string]*entity.PhotoshootBatch{
		"batch-1": {ID: "batch-1", UserID: "user-1", Status: entity.BatchStatusProcessing, Seed: 7, CreatedAt: time.Now()},
		"batch-2": {ID: "batch-2", UserID: "user-2", Status: entity.BatchStatusPartial},
	}}
	r := newTestEngine(svc, "user-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/photoshoots/batch-1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	data := got["data"].(map[string]any)
	assert.Equal(t, "batch-1", data["id"])
	assert.Equal(t, float64(7), data["consistencySeed"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/photoshoots/batch-2", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/photoshoots?page=1&page_size=10", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var list map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list["data"].([]any), 1)
	assert.Equal(t, float64(1), list["meta"].(map[string]any)["total"])
}

type stubChecker struct{ err error }

func (s stubChecker) HealthCheck(ctx context.Context) error { return s.err }

func TestReady(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ok := NewHealthHandler("v1", stubChecker{}, stubChecker{})
	r := gin.New()
	r.GET("/ready", ok.Ready)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	bad := NewHealthHandler("v1", stubChecker{}, stubChecker{err: errors.New("redis down")})
	r = gin.New()
	r.GET("/ready", bad.Ready)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis down")
}
