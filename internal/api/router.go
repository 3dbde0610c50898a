package api

import (
	"time"

	"meal-planner/internal/api/handlers/health"
	mealplanHandler "meal-planner/internal/api/handlers/mealplan"
	pantryHandler "meal-planner/internal/api/handlers/pantry"
	shoppingHandler "meal-planner/internal/api/handlers/shopping"
	"meal-planner/internal/api/middleware"
	aiService "meal-planner/internal/core/ai/service"
	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/core/pantry"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/infrastructure/cache"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由需要的服務
type Dependencies struct {
	DB       health.Pinger
	Cache    cache.Store        // 可為 nil
	AI       *aiService.Service // 未啟用 OpenRouter 時為 nil
	MealPlan *mealplan.Service
	Pantry   *pantry.Service
	Shopping *shopping.Service
	// Done 關閉時停止背景清理
	Done <-chan struct{}
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件，requestid 需在 Logger 與 Recovery 之前產生 ID
	router.Use(requestid.New())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RequestContext())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制與超時
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 健康檢查路由
	var queue health.QueueReporter
	if deps.AI != nil {
		queue = deps.AI
	}
	healthHandler := health.NewHandler(cfg.App.Version, deps.DB, deps.Cache, queue)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	// 去重在驗證之後執行，指紋包含使用者 ID
	dedup := middleware.NewDeduplicator(cfg.DedupWindow)
	if deps.Done != nil {
		go dedup.Run(deps.Done)
	}

	// API 路由組
	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg.Auth.JWTSecret))
	api.Use(dedup.Middleware())
	{
		mealplanHandler.NewHandler(deps.MealPlan, cfg.App.Debug).Register(api.Group("/meal-plans"))
		pantryHandler.NewHandler(deps.Pantry, cfg.App.Debug).Register(api.Group("/pantry"))
		shoppingHandler.NewHandler(deps.Shopping, cfg.Shopping.SubtractPantryDefault, cfg.App.Debug).
			Register(api.Group("/shopping-lists"))
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("ai_service_initialized", deps.AI != nil),
		zap.Bool("cache_initialized", deps.Cache != nil),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
