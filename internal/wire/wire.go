//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/application/photoshoot"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/config"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/repository"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/infrastructure/llm"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/infrastructure/persistence/postgres"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/infrastructure/persistence/redis"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/infrastructure/rendering"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/interfaces/http/handler"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/interfaces/http/router"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/workflow/chain"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/workflow/port"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/utils"
)

// InitializeBootstrap 仅初始化 PostgreSQL（用于 bootstrap）
func InitializeBootstrap(ctx context.Context, cfg *config.Config) (*BootstrapLayer, func(), error) {
	wire.Build(
		PostgresSet,
		wire.Struct(new(BootstrapLayer), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		WorkflowSet,
		PhotoshootSet,
		RouterSet,
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewTrainedModelRepository,
	postgres.NewCreditRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	postgres.NewPhotoshootBatchRepository,
	ProvideTrainedModelRepository,
	wire.Bind(new(repository.CreditRepository), new(*postgres.CreditRepository)),
	wire.Bind(new(repository.PhotoshootBatchRepository), new(*postgres.PhotoshootBatchRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	ProvideInflightLock,
	ProvideBatchPublisher,
)

// WorkflowSet LLM 规划链
var WorkflowSet = wire.NewSet(
	ProvideEinoFactory,
	wire.Bind(new(port.ChatModelFactory), new(*llm.EinoFactory)),
	chain.NewPhotoshootPlanChain,
)

// PhotoshootSet 批次编排
var PhotoshootSet = wire.NewSet(
	photoshoot.NewSeedAllocator,
	ProvideCreditAuthorizer,
	ProvidePlanner,
	ProvideRenderingClient,
	wire.Bind(new(photoshoot.RenderSubmitter), new(*rendering.Client)),
	ProvideRetryPolicy,
	ProvideJobDispatcher,
	photoshoot.NewBatchRecorder,
	ProvideServiceOptions,
	photoshoot.NewService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	utils.NewValidator,
	wire.Bind(new(handler.PhotoshootService), new(*photoshoot.Service)),
	handler.NewPhotoshootHandler,
	ProvideHealthHandler,
	wire.Struct(new(router.Handlers), "*"),
	ProvideGuards,
	router.New,
)
