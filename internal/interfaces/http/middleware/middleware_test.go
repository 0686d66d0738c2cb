package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrasocial/sselfie-9g-sub000/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	mgr := utils.NewJWTManager("secret", "photoshoot-api")
	token, err := mgr.GenerateAccessToken("user-1", "a@b.c", time.Hour)
	require.NoError(t, err)
	expired, err := mgr.GenerateAccessToken("user-1", "a@b.c", -time.Minute)
	require.NoError(t, err)

	r := gin.New()
	r.Use(Auth(AuthConfig{Secret: "secret", Issuer: "photoshoot-api"}))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, GetUserIDFromGin(c))
	})

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid", "Bearer " + token, http.StatusOK, "user-1"},
		{"missing", "", http.StatusUnauthorized, "missing authorization header"},
		{"bad scheme", "Basic abc", http.StatusUnauthorized, "invalid authorization format"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "token expired"},
		{"garbage", "Bearer nope", http.StatusUnauthorized, "invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (l *fakeLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	l.keys = append(l.keys, key)
	return l.allowed, l.err
}

func rateLimitedEngine(l RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", "user-1"); c.Next() })
	r.Use(RateLimit(RateLimitConfig{Enabled: true, Limit: 5, Window: time.Hour, Endpoint: "photoshoots.create"}, l))
	r.POST("/photoshoots", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimit(t *testing.T) {
	deny := &fakeLimiter{allowed: false}
	w := serve(rateLimitedEngine(deny), httptest.NewRequest(http.MethodPost, "/photoshoots", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))
	assert.Equal(t, []string{"ratelimit:user:user-1:photoshoots.create"}, deny.keys)

	broken := &fakeLimiter{err: errors.New("redis down")}
	w = serve(rateLimitedEngine(broken), httptest.NewRequest(http.MethodPost, "/photoshoots", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

type fakeLocker struct {
	held     map[string]bool
	released []string
}

func (l *fakeLocker) Acquire(ctx context.Context, key string) (string, bool, error) {
	if l.held[key] {
		return "", false, nil
	}
	l.held[key] = true
	return "tok", true, nil
}

func (l *fakeLocker) Release(ctx context.Context, key, token string) error {
	delete(l.held, key)
	l.released = append(l.released, key)
	return nil
}

func TestInflight(t *testing.T) {
	locker := &fakeLocker{held: map[string]bool{}}
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", "user-1"); c.Next() })
	r.POST("/photoshoots", Inflight("photoshoots.create", locker), func(c *gin.Context) {
		// 处理中再次请求应冲突
		inner := serve(r, httptest.NewRequest(http.MethodPost, "/photoshoots", nil))
		c.Status(inner.Code)
	})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/photoshoots", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Len(t, locker.released, 1)
	assert.Empty(t, locker.held)
}

func TestRequestIDPropagates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := serve(r, req)
	assert.Equal(t, "req-1", w.Body.String())
	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
	assert.Contains(t, w.Body.String(), "trace_id")
}
