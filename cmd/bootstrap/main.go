package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/config"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/entity"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/wire"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	userID := flag.String("user", envOr("BOOTSTRAP_USER_ID", "dev-user"), "user id to seed")
	email := flag.String("email", envOr("BOOTSTRAP_USER_EMAIL", "dev@sselfie.local"), "email embedded in the dev token")
	trigger := flag.String("trigger", envOr("BOOTSTRAP_TRIGGER_WORD", "ssx"), "trigger word of the seeded model")
	version := flag.String("model-version", os.Getenv("BOOTSTRAP_MODEL_VERSION"), "render model version reference")
	credits := flag.Int("credits", 20, "credits to grant")
	flag.Parse()

	fmt.Println("Starting photoshoot bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 初始化数据层（仅 PostgreSQL）
	data, cleanup, err := wire.InitializeBootstrap(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	// 3. 同步表结构
	if err := data.PgClient.AutoMigrate(ctx); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// 4. 模型与积分在同一事务中写入
	err = data.TxManager.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := data.ModelRepo.GetLatestCompleted(ctx, *userID)
		if err != nil {
			return err
		}
		if existing.Usable() {
			fmt.Printf("Trained model %s already exists for %s\n", existing.ID, *userID)
		} else {
			if *version == "" {
				return fmt.Errorf("no usable model for %s; pass -model-version to seed one", *userID)
			}
			now := time.Now()
			m := &entity.TrainedModel{
				UserID:       *userID,
				Status:       entity.TrainingStatusCompleted,
				TriggerWord:  *trigger,
				ModelVersion: *version,
				CompletedAt:  &now,
			}
			if err := data.ModelRepo.Create(ctx, m); err != nil {
				return err
			}
			fmt.Printf("Trained model created with ID: %s\n", m.ID)
		}

		if *credits <= 0 {
			return nil
		}
		balance, err := data.CreditRepo.Grant(ctx, *userID, *credits, "bootstrap grant")
		if err != nil {
			return err
		}
		fmt.Printf("Granted %d credits, balance is now %d\n", *credits, balance)
		return nil
	})
	if err != nil {
		log.Fatalf("failed to seed user data: %v", err)
	}

	// 5. 签发开发用访问令牌
	mgr := utils.NewJWTManager(cfg.Security.JWT.Secret, cfg.Security.JWT.Issuer)
	token, err := mgr.GenerateAccessToken(*userID, *email, cfg.Security.JWT.Expiration)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}
	fmt.Printf("Access token:\n%s\n", token)

	fmt.Println("Bootstrap completed successfully.")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
