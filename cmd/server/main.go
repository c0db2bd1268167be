package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/torgprom/econdash/internal/config"
	"github.com/torgprom/econdash/internal/generator"
	"github.com/torgprom/econdash/internal/repository/csvstore"
	"github.com/torgprom/econdash/internal/scheduler"
	"github.com/torgprom/econdash/internal/server/handlers"
	"github.com/torgprom/econdash/internal/server/router"
	analyticssvc "github.com/torgprom/econdash/internal/service/analytics"
	datasetsvc "github.com/torgprom/econdash/internal/service/dataset"
	marketsvc "github.com/torgprom/econdash/internal/service/market"
	"github.com/torgprom/econdash/pkg/clients/coingecko"
	"github.com/torgprom/econdash/pkg/clients/worldbank"
	"github.com/torgprom/econdash/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := csvstore.NewStore(cfg.Data.Dir, baseLogger.Named("repo.csv"))
	if err != nil {
		baseLogger.Fatal("failed to init csv store", zap.Error(err))
	}

	analyticsSvc := analyticssvc.NewService(nil, baseLogger.Named("svc.analytics"))
	lifecycle := datasetsvc.NewService(store, analyticsSvc, generator.Params{
		Days:          cfg.Generator.Days,
		RecordsPerDay: cfg.Generator.RecordsPerDay,
		Seed:          cfg.Generator.Seed,
	}, baseLogger.Named("svc.dataset"))

	initCtx, cancelInit := context.WithTimeout(context.Background(), time.Minute)
	if err := lifecycle.Init(initCtx); err != nil {
		cancelInit()
		baseLogger.Fatal("failed to initialize dataset", zap.Error(err))
	}
	cancelInit()

	cryptoClient := coingecko.NewClient(cfg.Clients.CoinGeckoBaseURL, cfg.Clients.Timeout)
	indicatorClient := worldbank.NewClient(cfg.Clients.WorldBankBaseURL, cfg.Clients.Timeout)
	marketSvc := marketsvc.NewService(cryptoClient, indicatorClient, baseLogger.Named("svc.market"))

	engine := router.New(router.Handlers{
		Data:   handlers.NewDataHandler(analyticsSvc, lifecycle, baseLogger.Named("handlers.data")),
		Files:  handlers.NewFilesHandler(store, baseLogger.Named("handlers.files")),
		Market: handlers.NewMarketHandler(marketSvc, baseLogger.Named("handlers.market")),
	}, router.Options{
		StaticDir:      cfg.Data.StaticDir,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
	}, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Scheduler.CronSchedule, lifecycle, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
