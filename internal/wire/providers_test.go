package wire

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/application/photoshoot"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/config"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/infrastructure/persistence/postgres"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/infrastructure/persistence/redis"
)

func TestProvideRetryPolicy(t *testing.T) {
	cfg := &config.Config{}
	assert.Equal(t, photoshoot.DefaultRetryPolicy(), ProvideRetryPolicy(cfg))

	cfg.Photoshoot.InterSubmitDelay = 5 * time.Second
	cfg.Photoshoot.MaxAttempts = 4
	p := ProvideRetryPolicy(cfg)
	assert.Equal(t, 5*time.Second, p.InterSubmitDelay)
	assert.Equal(t, 4, p.MaxAttempts)
	assert.Equal(t, 2*time.Second, p.Grace)
}

func TestProvideBatchPublisher(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClientFromRedis(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{}
	assert.Nil(t, ProvideBatchPublisher(client, cfg))

	cfg.Messaging.RedisStream.Enabled = true
	assert.NotNil(t, ProvideBatchPublisher(client, cfg))
}

func TestProvideTrainedModelRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClientFromRedis(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	pg := postgres.NewTrainedModelRepository(nil)

	cfg := &config.Config{}
	assert.Same(t, pg, ProvideTrainedModelRepository(pg, redis.NewCache(client), cfg))

	cfg.Photoshoot.ModelCacheTTL = time.Minute
	cached := ProvideTrainedModelRepository(pg, redis.NewCache(client), cfg)
	_, ok := cached.(*redis.CachedTrainedModelRepository)
	require.True(t, ok)
}
