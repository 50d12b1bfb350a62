package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-advisor/internal/advisor/config"
	"stock-advisor/internal/advisor/repository"
	"stock-advisor/internal/advisor/service"
	"stock-advisor/pkg/cache"
	"stock-advisor/pkg/common"
	"stock-advisor/pkg/logger"
	"stock-advisor/pkg/postgres"
	"stock-advisor/pkg/ratelimit"
	"stock-advisor/pkg/redis"
	"stock-advisor/pkg/telegram"

	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the stock advisor refresh service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Refresh Service", logger.Field("name", cfg.App.Name))

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

	// Prewarm writes through the shared cache; with the in-memory backend it
	// only warms this process, so redis is the useful pairing here.
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

	stocksRepo := repository.NewStocksRepository(db.DB)
	recsRepo := repository.NewRecommendationsRepository(db.DB)
	newsRepo := repository.NewNewsRepository(db.DB)
	marketDataRepo := repository.NewYahooMarketDataRepository(cfg, appLogger)

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

	universeService := service.NewUniverseService(appLogger, stocksRepo)
	if err := universeService.Reload(ctx); err != nil {
		appLogger.Warn("Failed to load universe from database, using embedded defaults", logger.ErrorField(err))
	}
	newsService := service.NewNewsService(cfg, appLogger, newsRepo)
	recommendationService := service.NewRecommendationService(cfg, appLogger, universeService, aiRepo, cacheStore, limiter, recsRepo, newsRepo, notifier)

	refreshService := service.NewRefreshService(cfg, appLogger, universeService, marketDataRepo, stocksRepo, newsService, recommendationService, notifier)
	if err := refreshService.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start refresh service", logger.ErrorField(err))
	}

	appLogger.Info("Refresh service started. Waiting for scheduled runs...")

	<-ctx.Done()

	appLogger.Info("Shutting down refresh service...")
	refreshService.Stop()
	appLogger.Info("Refresh service stopped.")
}

func main() {
	rootCmd := &cobra.Command{Use: "refresh-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-refresh.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing refresh-service CLI: %s\n", err)
		os.Exit(1)
	}
}
