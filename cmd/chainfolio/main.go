package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chainfolio/internal/app/adapter"
	"chainfolio/internal/app/service"
	"chainfolio/internal/client"
	"chainfolio/internal/config"
	"chainfolio/internal/infrastructure/restapi"
	"chainfolio/internal/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

func main() {
	// .env is optional; environment variables win over the YAML config
	// for provider API keys.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	// Bridge slog into zap for any library logging through slog.
	slog.SetDefault(slog.New(zapslog.NewHandler(zapLogger.Core())))

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath), zap.Int("networks", len(cfg.Networks)))

	metrics.MustRegisterMetrics()

	coinGecko := client.NewCoinGeckoClient(
		cfg.Providers.CoinGecko.BaseURL,
		cfg.Providers.CoinGecko.APIKey,
		time.Duration(cfg.Providers.CoinGecko.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	enricher := service.NewPriceEnricher(coinGecko, cfg, zapLogger)

	registry := adapter.NewRegistry(cfg, zapLogger)
	chainAggregator := service.NewChainAggregator(registry, enricher, zapLogger)
	portfolioSvc := service.NewPortfolioService(chainAggregator, cfg, zapLogger)
	controller := service.NewRefreshController(portfolioSvc, zapLogger)
	defer controller.Stop()

	if cfg.Refresh.AutoRefreshIntervalSeconds > 0 {
		interval := time.Duration(cfg.Refresh.AutoRefreshIntervalSeconds) * time.Second
		zapLogger.Info("Periodic refresh configured", zap.Duration("interval", interval))
		// Each applied snapshot retargets the ticker when the watched
		// wallet changed; an unchanged wallet keeps its schedule.
		updates := controller.Subscribe()
		go func() {
			for range updates {
				controller.EnsureAutoRefresh(interval)
			}
		}()
	}

	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))
	router.Use(gin.Recovery())

	portfolioHandler := restapi.NewPortfolioHandler(portfolioSvc, controller, zapLogger)
	restapi.RegisterRoutes(router, portfolioHandler)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}

func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	logCfg := zap.NewProductionConfig()
	logCfg.Level = zap.NewAtomicLevelAt(parsed)
	return logCfg.Build()
}
