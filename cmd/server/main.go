package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/xssnick/tonutils-go/tlb"

	_ "raffle-tool-backend/docs"
	"raffle-tool-backend/internal/common/config"
	"raffle-tool-backend/internal/common/logger"
	"raffle-tool-backend/internal/common/middleware"
	rafflehttp "raffle-tool-backend/internal/features/raffle/delivery/http"
	"raffle-tool-backend/internal/features/raffle/models"
	redisrepo "raffle-tool-backend/internal/features/raffle/repository/redis"
	raffleservice "raffle-tool-backend/internal/features/raffle/service"
	"raffle-tool-backend/internal/oracle"
	"raffle-tool-backend/internal/platform/events"
	redisplatform "raffle-tool-backend/internal/platform/redis"
	"raffle-tool-backend/internal/platform/ton"
	"raffle-tool-backend/internal/workers"
)

// @title           Raffle Tool API
// @version         1.0
// @description     API server for a TON raffle driven by an external randomness oracle.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name init_data
// @description Telegram Mini App init_data string for authentication

// @tag.name raffle
// @tag.description Raffle rounds - entries, upkeep and draw results

func main() {
	cfg := config.Load()

	logger.Init("raffle-tool-backend", cfg.Debug)
	logger.Info().
		Bool("debug", cfg.Debug).
		Str("oracle_mode", cfg.Oracle.Mode).
		Msg("Starting Raffle Tool Backend")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := redisplatform.Open(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	logger.Info().Msg("Redis connection established")

	bank := buildBank(ctx, cfg)

	fee, err := tlb.FromTON(cfg.Raffle.EntranceFee)
	if err != nil {
		logger.Fatal().Err(err).Str("fee", cfg.Raffle.EntranceFee).Msg("Invalid entrance fee")
	}

	raffleCfg := models.RaffleConfig{
		EntranceFee:      fee,
		Interval:         cfg.RaffleInterval(),
		KeyHash:          cfg.Oracle.KeyHash,
		SubscriptionID:   cfg.Oracle.SubscriptionID,
		Confirmations:    cfg.Oracle.Confirmations,
		CallbackGasLimit: cfg.Oracle.CallbackGasLimit,
	}

	coordinator := oracle.NewCoordinator(oracle.NewRedisStore(rdb))

	svc := raffleservice.New(
		raffleCfg,
		coordinator,
		bank,
		redisrepo.NewRoundRepository(rdb),
		events.NewPublisher(rdb),
	)
	coordinator.SetConsumer(svc)

	var localSource *oracle.LocalSource
	switch cfg.Oracle.Mode {
	case "stream":
		coordinator.SetSource(oracle.NewStreamSource(rdb))
	default:
		localSource = oracle.NewLocalSource(cfg.OracleBlockTime())
		localSource.SetSink(coordinator)
		coordinator.SetSource(localSource)
	}

	if err := svc.Restore(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to restore round state")
	}

	upkeepWorker := workers.NewUpkeepWorker(svc, cfg.UpkeepPollInterval())
	upkeepWorker.Start()
	defer upkeepWorker.Stop()

	if cfg.Oracle.Mode == "stream" {
		streamWorker := workers.NewOracleStreamWorker(rdb, coordinator)
		go streamWorker.Start(ctx)
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.HandleErrors())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "init_data"}
	router.Use(cors.New(corsConfig))

	balance := ton.NewBalanceChecker(cfg.Ton.TonAPIBaseURL, cfg.Ton.TonAPIToken)
	handler := rafflehttp.NewRaffleHandler(svc, balance, bank)

	v1 := router.Group("/api/v1")
	handler.RegisterRoutes(v1, middleware.TelegramAuth(cfg.Telegram.BotToken))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	registerProbes(router, rdb)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

// buildBank picks the payout backend. Without a wallet seed the raffle
// still runs end to end, winners are only logged instead of paid.
func buildBank(ctx context.Context, cfg *config.Config) ton.PrizeBank {
	if cfg.Ton.WalletSeed == "" {
		logger.Warn().Msg("TON_WALLET_SEED is not set, prize payouts run in dry-run mode")
		return ton.NewDryRunBank()
	}

	bank, err := ton.NewWalletBank(ctx, cfg.Ton.LiteConfigURL, cfg.Ton.WalletSeed)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize prize wallet")
	}

	logger.Info().Str("address", bank.Address()).Msg("Prize wallet initialized")
	return bank
}

func registerProbes(router *gin.Engine, rdb *redisplatform.Client) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "raffle-tool-backend",
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := rdb.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "redis unavailable",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   "raffle-tool-backend",
		})
	})
}
