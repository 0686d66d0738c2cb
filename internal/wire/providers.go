// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/application/photoshoot"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/application/quota"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/config"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/repository"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/infrastructure/llm"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/infrastructure/messaging"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/infrastructure/persistence/postgres"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/infrastructure/persistence/redis"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/infrastructure/rendering"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/interfaces/http/handler"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/interfaces/http/router"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/workflow/chain"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/logger"
)

// BootstrapLayer bootstrap 命令用到的最小数据层
type BootstrapLayer struct {
	PgClient   *postgres.Client
	TxManager  *postgres.TxManager
	ModelRepo  *postgres.TrainedModelRepository
	CreditRepo *postgres.CreditRepository
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { closeAll(context.Background(), "postgres", client.Close) }, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { closeAll(context.Background(), "redis", client.Close) }, nil
}

// ProvideEinoFactory 提供 LLM 工厂，关闭时释放已创建的模型客户端
func ProvideEinoFactory(cfg *config.Config) (*llm.EinoFactory, func()) {
	f := llm.NewEinoFactory(cfg)
	return f, func() { closeAll(context.Background(), "llm", f.Close) }
}

// ProvideBatchPublisher 事件流未启用时返回 nil，记录器跳过发布
func ProvideBatchPublisher(redisClient *redis.Client, cfg *config.Config) photoshoot.BatchPublisher {
	if !cfg.Messaging.RedisStream.Enabled {
		return nil
	}
	maxLen := cfg.Messaging.RedisStream.MaxLen
	if maxLen <= 0 {
		maxLen = 100000
	}
	return messaging.NewProducer(redisClient.Redis(), int64(maxLen))
}

// ProvideTrainedModelRepository 在 PostgreSQL 仓储外包一层 Redis 缓存
func ProvideTrainedModelRepository(repo *postgres.TrainedModelRepository, cache *redis.Cache, cfg *config.Config) repository.TrainedModelRepository {
	if cfg.Photoshoot.ModelCacheTTL <= 0 {
		return repo
	}
	return redis.NewCachedTrainedModelRepository(repo, cache, cfg.Photoshoot.ModelCacheTTL)
}

// ProvideInflightLock 提供单用户并发创建锁
func ProvideInflightLock(client *redis.Client, cfg *config.Config) *redis.InflightLock {
	return redis.NewInflightLock(client, cfg.Photoshoot.InflightTTL)
}

// ProvidePlanner 提供姿势规划器
func ProvidePlanner(c *chain.PhotoshootPlanChain, cfg *config.Config) *photoshoot.VariationPlanner {
	return photoshoot.NewVariationPlanner(c, photoshoot.PlannerOptions{
		Provider: cfg.Photoshoot.PlannerProvider,
	})
}

// ProvideRenderingClient 提供渲染服务客户端
func ProvideRenderingClient(cfg *config.Config) *rendering.Client {
	return rendering.NewClient(&cfg.Rendering)
}

// ProvideRetryPolicy 配置值为零时沿用默认策略
func ProvideRetryPolicy(cfg *config.Config) photoshoot.RetryPolicy {
	p := photoshoot.DefaultRetryPolicy()
	pc := cfg.Photoshoot
	if pc.InterSubmitDelay > 0 {
		p.InterSubmitDelay = pc.InterSubmitDelay
	}
	if pc.MaxAttempts > 0 {
		p.MaxAttempts = pc.MaxAttempts
	}
	if pc.RetryGrace > 0 {
		p.Grace = pc.RetryGrace
	}
	if pc.DefaultRetryAfter > 0 {
		p.DefaultRetryAfter = pc.DefaultRetryAfter
	}
	return p
}

// ProvideJobDispatcher 提供顺序派发器
func ProvideJobDispatcher(submitter photoshoot.RenderSubmitter, policy photoshoot.RetryPolicy, cfg *config.Config) *photoshoot.JobDispatcher {
	return photoshoot.NewJobDispatcher(submitter, policy, photoshoot.RenderDefaults{
		AspectRatio:    cfg.Rendering.AspectRatio,
		StyleLoraURL:   cfg.Rendering.StyleLoraURL,
		StyleLoraScale: cfg.Rendering.StyleLoraScale,
	}, nil)
}

// ProvideCreditAuthorizer 提供积分预检
func ProvideCreditAuthorizer(ledger repository.CreditRepository, cfg *config.Config) *quota.CreditAuthorizer {
	return quota.NewCreditAuthorizer(ledger, cfg.Photoshoot.PerImageCost)
}

// ProvideServiceOptions 业务参数
func ProvideServiceOptions(cfg *config.Config) photoshoot.ServiceOptions {
	return photoshoot.ServiceOptions{DefaultImages: cfg.Photoshoot.DefaultImages}
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, pg *postgres.Client, rc *redis.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(cfg.App.Version, pg, rc)
}

// ProvideGuards 提供限流与并发锁
func ProvideGuards(limiter *redis.RateLimiter, lock *redis.InflightLock) router.Guards {
	return router.Guards{RateLimiter: limiter, Inflight: lock}
}

// closeAll 依次关闭资源，错误合并后记录一次
func closeAll(ctx context.Context, name string, closers ...func() error) {
	var result *multierror.Error
	for _, c := range closers {
		if err := c(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		logger.Error(ctx, "failed to release "+name, err)
	}
}
