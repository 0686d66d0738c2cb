package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

// releaseScript 仅当值与持有者令牌一致时删除
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// InflightLock 基于 SET NX 的单用户互斥锁
type InflightLock struct {
	client *Client
	ttl    time.Duration
}

// NewInflightLock 创建互斥锁
func NewInflightLock(client *Client, ttl time.Duration) *InflightLock {
	return &InflightLock{client: client, ttl: ttl}
}

// BuildInflightKey 构建用户进行中请求的锁键
func BuildInflightKey(userID, scope string) string {
	return fmt.Sprintf("inflight:%s:%s", scope, userID)
}

// Acquire 尝试加锁，成功时返回释放所需的令牌
func (l *InflightLock) Acquire(ctx context.Context, key string) (string, bool, error) {
	ctx, span := tracer.Start(ctx, "inflight.Acquire")
	span.SetAttributes(attribute.String("inflight.key", key))
	defer span.End()

	token := uuid.NewString()
	ok, err := l.client.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		span.RecordError(err)
		return "", false, err
	}
	span.SetAttributes(attribute.Bool("inflight.acquired", ok))
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release 释放锁，令牌不匹配时不做任何事
func (l *InflightLock) Release(ctx context.Context, key, token string) error {
	ctx, span := tracer.Start(ctx, "inflight.Release")
	span.SetAttributes(attribute.String("inflight.key", key))
	defer span.End()

	if err := releaseScript.Run(ctx, l.client.rdb, []string{key}, token).Err(); err != nil && !IsNil(err) {
		span.RecordError(err)
		return err
	}
	return nil
}
