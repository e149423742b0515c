package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/blues/launchpad/internal/auth"
	"github.com/blues/launchpad/internal/clock"
	"github.com/blues/launchpad/internal/config"
	"github.com/blues/launchpad/internal/database"
	"github.com/blues/launchpad/internal/event"
	"github.com/blues/launchpad/internal/ledger"
	"github.com/blues/launchpad/internal/logger"
	"github.com/blues/launchpad/internal/logic"
	"github.com/blues/launchpad/internal/model"
	"github.com/blues/launchpad/internal/router"
	"github.com/blues/launchpad/internal/scheduler"
	"github.com/blues/launchpad/internal/storage"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	// 加载配置
	cfg := config.Load()
	if err := logger.Setup(cfg.Log); err != nil {
		logger.Fatal("Failed to setup logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化数据库
	var db *gorm.DB
	if cfg.Database.Enabled || cfg.Storage.Driver == "postgres" {
		var err error
		db, err = database.Init(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to initialize database: %v", err)
		}
	}

	store, err := openStore(cfg, db)
	if err != nil {
		logger.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	var recorder event.Recorder = event.NewMemoryRecorder()
	if db != nil {
		recorder = event.NewGormRecorder(db)
	}

	ledgerClock := clock.NewSystem()
	authorizer := auth.NewSignatureAuthorizer(cfg.Platform.AuthDomain, cfg.Platform.AuthMaxAge, ledgerClock)
	host := ledger.NewHost(store, authorizer, ledgerClock)

	admin, err := adminSigner(cfg.Platform, cfg.Storage.Driver)
	if err != nil {
		logger.Fatal("Failed to load admin key: %v", err)
	}

	projects := logic.NewProjectLogic(host)
	achievements := logic.NewAchievementLogic(host)
	if err := bootstrap(ctx, host, admin, projects, achievements); err != nil {
		logger.Fatal("Failed to bootstrap registries: %v", err)
	}

	opts, err := launchOptions(cfg.Orchestrator)
	if err != nil {
		logger.Fatal("Invalid orchestrator config: %v", err)
	}
	launch := logic.NewLaunchLogic(host, projects, achievements, recorder, admin, opts)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(router.Deps{
		Launch:       launch,
		Projects:     projects,
		Achievements: achievements,
		Recorder:     recorder,
	})

	// 启动定时任务
	if cfg.Task.Enabled {
		job := scheduler.NewPoolSyncJob(launch, projects, time.Duration(cfg.Task.Interval)*time.Second, cfg.Task.Workers)
		manager, err := scheduler.NewManager(job)
		if err != nil {
			logger.Fatal("Failed to create task manager: %v", err)
		}
		if err := manager.Start(); err != nil {
			logger.Fatal("Failed to start task manager: %v", err)
		}
		defer manager.Stop()
	}

	// 启动服务器
	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: r}
	go func() {
		logger.Info("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}

func openStore(cfg *config.Config, db *gorm.DB) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		logger.Warn("Using in-memory storage, state is lost on restart")
		return storage.NewMemoryStore(), nil
	case "postgres":
		return storage.NewGormStore(db), nil
	case "redis":
		client, err := database.InitRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return storage.NewRedisStore(client, cfg.Storage.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// adminSigner 加载管理员密钥。仅内存存储允许使用临时密钥，持久化存储重启后管理员必须保持不变。
func adminSigner(cfg config.PlatformConfig, driver string) (*auth.Signer, error) {
	if cfg.AdminPrivateKey != "" {
		return auth.NewSignerFromHex(cfg.AdminPrivateKey, cfg.AuthDomain)
	}
	if driver != "memory" {
		return nil, fmt.Errorf("platform.admin_private_key is required for storage driver %q", driver)
	}
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	signer := auth.NewSigner(key, cfg.AuthDomain)
	logger.Warn("platform.admin_private_key not set, using ephemeral admin %s", signer.Address().Hex())
	return signer, nil
}

// registry 可由管理员初始化的注册表
type registry interface {
	IsInitialized(ctx context.Context) (bool, error)
	Initialize(ctx context.Context, admin common.Address) error
	Admin(ctx context.Context) (common.Address, error)
}

// bootstrap 首次启动时用管理员身份初始化注册表；已初始化的注册表必须由同一管理员持有
func bootstrap(ctx context.Context, host *ledger.Host, admin *auth.Signer, projects *logic.ProjectLogic, achievements *logic.AchievementLogic) error {
	adminCtx, err := admin.Authorize(ctx, logic.ActionInitialize, host.Now())
	if err != nil {
		return err
	}

	registries := []struct {
		name string
		reg  registry
	}{
		{logic.RegistryNamespace, projects},
		{logic.AchievementNamespace, achievements},
	}
	for _, r := range registries {
		ok, err := r.reg.IsInitialized(ctx)
		if err != nil {
			return err
		}
		if !ok {
			if err := r.reg.Initialize(adminCtx, admin.Address()); err != nil {
				return err
			}
			continue
		}
		current, err := r.reg.Admin(ctx)
		if err != nil {
			return err
		}
		if current != admin.Address() {
			return fmt.Errorf("%s admin is %s, configured key is %s", r.name, current.Hex(), admin.Address().Hex())
		}
	}
	return nil
}

func launchOptions(cfg config.OrchestratorConfig) (logic.LaunchOptions, error) {
	silver, err := model.ParseAmount(cfg.SilverThreshold)
	if err != nil {
		return logic.LaunchOptions{}, fmt.Errorf("silver_threshold: %w", err)
	}
	gold, err := model.ParseAmount(cfg.GoldThreshold)
	if err != nil {
		return logic.LaunchOptions{}, fmt.Errorf("gold_threshold: %w", err)
	}
	return logic.LaunchOptions{
		RelayFunding:    cfg.RelayFunding,
		AwardBadges:     cfg.AwardBadges,
		SilverThreshold: silver,
		GoldThreshold:   gold,
	}, nil
}
