package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mfbarbosa/padaria/internal/config"
	"github.com/mfbarbosa/padaria/internal/repository/mongodb"
	"github.com/mfbarbosa/padaria/internal/repository/sheets"
	"github.com/mfbarbosa/padaria/internal/scheduler"
	"github.com/mfbarbosa/padaria/internal/server/handlers"
	"github.com/mfbarbosa/padaria/internal/server/router"
	billingsvc "github.com/mfbarbosa/padaria/internal/service/billing"
	productionsvc "github.com/mfbarbosa/padaria/internal/service/production"
	"github.com/mfbarbosa/padaria/pkg/clients/webhook"
	"github.com/mfbarbosa/padaria/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var exporter sheets.Exporter
	if cfg.Sheets.SpreadsheetID != "" {
		quebraExporter, err := sheets.NewQuebraExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = quebraExporter
		baseLogger.Info("quebra sheet export enabled")
	} else {
		baseLogger.Warn("quebra spreadsheet not configured, export disabled")
	}

	var notifier webhook.Client
	if cfg.Webhook.URL != "" {
		notifier = webhook.NewClient(cfg.Webhook)
		baseLogger.Info("billing webhook enabled")
	} else {
		baseLogger.Warn("billing webhook url missing, notifications disabled")
	}

	loc, err := time.LoadLocation(cfg.Billing.Timezone)
	if err != nil {
		baseLogger.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.Billing.Timezone), zap.Error(err))
		loc = time.Local
	}

	billingSvc := billingsvc.NewService(mongoRepo, mongoRepo, mongoRepo, notifier, loc, baseLogger.Named("svc.billing"))
	productionSvc := productionsvc.NewService(mongoRepo, mongoRepo, baseLogger.Named("svc.production"))

	billingHandler := handlers.NewBillingHandler(billingSvc, baseLogger.Named("handlers.billing"))
	productionHandler := handlers.NewProductionHandler(productionSvc, baseLogger.Named("handlers.production"))
	engine := router.New(billingHandler, productionHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, loc, billingSvc, productionSvc, mongoRepo, exporter, notifier, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
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
