package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/interfaces/http/dto"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/infrastructure/persistence/redis"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/logger"
)

// InflightLocker 每用户单飞锁
type InflightLocker interface {
	Acquire(ctx context.Context, key string) (string, bool, error)
	Release(ctx context.Context, key, token string) error
}

// Inflight 同一用户同一接口同时只允许一个请求，冲突返回 409；锁服务故障时放行
func Inflight(scope string, locker InflightLocker) gin.HandlerFunc {
	if locker == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		userID := GetUserIDFromGin(c)
		if userID == "" {
			c.Next()
			return
		}
		key := redis.BuildInflightKey(userID, scope)

		token, ok, err := locker.Acquire(c.Request.Context(), key)
		if err != nil {
			logger.Warn(c.Request.Context(), "inflight lock unavailable, allowing request", "error", err.Error())
			c.Next()
			return
		}
		if !ok {
			dto.Conflict(c, "another photoshoot is already being created")
			return
		}

		defer func() {
			// 请求可能已取消，释放锁使用独立 ctx
			if err := locker.Release(context.WithoutCancel(c.Request.Context()), key, token); err != nil {
				logger.Warn(c.Request.Context(), "failed to release inflight lock", "error", err.Error())
			}
		}()

		c.Next()
	}
}
