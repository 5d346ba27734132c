package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	apppricing "github.com/retailcore/engine/internal/application/pricing"
	"github.com/retailcore/engine/internal/domain/pricing"
	"github.com/retailcore/engine/internal/domain/shared/valueobject"
	"github.com/retailcore/engine/internal/infrastructure/config"
	"github.com/retailcore/engine/internal/infrastructure/logger"
	"github.com/retailcore/engine/internal/interfaces/http/handler"
	"github.com/retailcore/engine/internal/interfaces/http/middleware"
	"github.com/retailcore/engine/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//	@title			Retail Pricing Engine API
//	@version		1.0
//	@description	Batch-aware pricing, allocation and unit conversion for retail POS

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting pricing engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	resolver := pricing.NewPriceResolverWithDefaultMOQ(decimal.NewFromFloat(cfg.Pricing.DefaultWholesaleMOQ))
	engine := pricing.NewEngineWithWindow(resolver, cfg.Pricing.NearExpiryWindow())
	service := apppricing.NewService(engine, log,
		apppricing.WithCurrency(valueobject.Currency(cfg.Pricing.Currency)))

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	ginEngine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := ginEngine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	ginEngine.Use(middleware.RequestID())
	ginEngine.Use(logger.Recovery(log))
	ginEngine.Use(logger.GinMiddleware(log))
	ginEngine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	ginEngine.Use(middleware.CORSWithConfig(corsConfig))

	r := router.NewRouter(ginEngine, router.WithAPIVersion("v1"))
	r.Register(handler.NewPricingHandler(service))
	r.Register(handler.NewSystemHandler())
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        ginEngine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
