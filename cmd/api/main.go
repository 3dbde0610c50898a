package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meal-planner/internal/api"
	"meal-planner/internal/core/ai/openrouter"
	"meal-planner/internal/core/ai/queue"
	aiService "meal-planner/internal/core/ai/service"
	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/core/pantry"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/infrastructure/cache"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/database"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含選用的 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogFile, cfg.App.Name); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("database_driver", cfg.Database.Driver),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Bool("openrouter_enabled", cfg.OpenRouter.Enabled),
		zap.String("openrouter_api_key", config.MaskSecret(cfg.OpenRouter.APIKey)),
		zap.String("openrouter_model", cfg.OpenRouter.Model),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelStart()

	// 初始化資料庫
	db, err := database.Open(startCtx, cfg.Database)
	if err != nil {
		common.LogFatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	// 初始化快取，停用時為 nil
	store := cache.New(startCtx, cfg)
	if store != nil {
		defer store.Close()
	}

	// AI 服務為選用
	var (
		ai        *aiService.Service
		generator mealplan.Generator
	)
	if cfg.OpenRouter.Enabled {
		client := openrouter.NewClient(cfg.OpenRouter)
		defer client.Close()
		ai = aiService.NewService(client, store, queue.NewManager(cfg.Queue), cfg.Cache.TTL)
		generator = mealplan.NewAIGenerator(ai)
	}

	plans := mealplan.NewCachedRepository(db, store, cfg.Cache.TTL)

	done := make(chan struct{})
	router := api.SetupRouter(cfg, api.Dependencies{
		DB:       db,
		Cache:    store,
		AI:       ai,
		MealPlan: mealplan.NewService(plans, generator),
		Pantry:   pantry.NewService(db, shopping.Categorize),
		Shopping: shopping.NewService(plans, db, db),
		Done:     done,
	})

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")
	close(done)

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}
