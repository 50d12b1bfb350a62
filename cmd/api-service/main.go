package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-advisor/internal/advisor/config"
	delivery "stock-advisor/internal/advisor/delivery/http"
	_ "stock-advisor/internal/advisor/docs"
	"stock-advisor/internal/advisor/repository"
	"stock-advisor/internal/advisor/service"
	"stock-advisor/pkg/cache"
	"stock-advisor/pkg/common"
	"stock-advisor/pkg/logger"
	"stock-advisor/pkg/postgres"
	"stock-advisor/pkg/ratelimit"
	"stock-advisor/pkg/redis"
	"stock-advisor/pkg/telegram"
	"stock-advisor/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the stock advisor API service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting API Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize the recommendation cache backend
	var cacheStore cache.Store
	switch cfg.Cache.Backend {
	case common.CacheBackendRedis:
		redisCfg := redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		}
		redisClient, err := redis.NewClient(redisCfg)
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()
		cacheStore = cache.NewRedisStore(redisClient.Client, cfg.Cache.Prefix)
	default:
		cacheStore = cache.NewMemoryStore(cfg.Cache.CleanupInterval)
	}

	// Initialize repositories
	stocksRepo := repository.NewStocksRepository(db.DB)
	recsRepo := repository.NewRecommendationsRepository(db.DB)
	newsRepo := repository.NewNewsRepository(db.DB)

	// Initialize AI provider
	var aiRepo repository.AIRepository
	switch cfg.AI.Provider {
	case common.AIProviderGemini:
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
		}
		repo, err := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI repository", logger.ErrorField(err))
		}
		aiRepo = repo
	default:
		aiRepo = repository.NewOpenRouterRepository(cfg, appLogger)
	}

	// Telegram notifications are optional; without a bot token they are skipped.
	var notifier telegram.Notifier
	if cfg.Telegram.BotToken != "" {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Warn("Failed to initialize Telegram notifier", logger.ErrorField(err))
			notifier = nil
		}
	}

	maxPerMinute := cfg.AI.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = common.AIRequestsPerMinute
	}
	limiter := ratelimit.NewRequestLimiter(maxPerMinute, time.Minute)

	// Initialize services
	universeService := service.NewUniverseService(appLogger, stocksRepo)
	if err := universeService.Reload(ctx); err != nil {
		appLogger.Warn("Failed to load universe from database, using embedded defaults", logger.ErrorField(err))
	}
	newsService := service.NewNewsService(cfg, appLogger, newsRepo)
	recommendationService := service.NewRecommendationService(cfg, appLogger, universeService, aiRepo, cacheStore, limiter, recsRepo, newsRepo, notifier)
	proxyService := service.NewProxyService(cfg, appLogger)

	// Reload the universe periodically so refreshed quotes reach this process.
	utils.GoSafe(func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := universeService.Reload(ctx); err != nil {
					appLogger.Warn("Periodic universe reload failed", logger.ErrorField(err))
				}
			}
		}
	})

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = delivery.NewHTTPErrorHandler(appLogger)
	e.Use(delivery.CORS(delivery.DefaultCORSConfig()))

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	recommendationHandler := delivery.NewRecommendationHandler(recommendationService, appLogger)
	recommendationsGroup := apiV1.Group("/recommendations")
	recommendationHandler.RegisterRoutes(recommendationsGroup)

	stockHandler := delivery.NewStockHandler(universeService, appLogger)
	stocksGroup := apiV1.Group("/stocks")
	stockHandler.RegisterRoutes(stocksGroup)

	newsHandler := delivery.NewNewsHandler(newsService, appLogger)
	newsGroup := apiV1.Group("/news")
	newsHandler.RegisterRoutes(newsGroup)

	proxyHandler := delivery.NewProxyHandler(proxyService, appLogger)
	proxyGroup := apiV1.Group("/proxy")
	proxyHandler.RegisterRoutes(proxyGroup)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Stock Advisor API
// @version 1.0
// @description Stock recommendation API for Indian equities with AI analysis and market-data proxies.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "api-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}
