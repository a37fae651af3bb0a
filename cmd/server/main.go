package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/app"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/config"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/scheduler"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/server/handlers"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/server/router"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/service/serials"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level, cfg.Log.Development))
	defer func() { _ = baseLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initCtx, cancelInit := context.WithTimeout(ctx, 30*time.Second)
	application, err := app.New(initCtx, cfg, baseLogger)
	cancelInit()
	if err != nil {
		baseLogger.Fatal("failed to initialize application", zap.Error(err))
	}
	defer func() {
		if err := application.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close backends", zap.Error(err))
		}
	}()

	receiptHandler := handlers.NewReceivingHandler(application.Receiving, logger.Named(baseLogger, "handlers.receiving"))
	toolsHandler := handlers.NewToolsHandler(serials.NewGenerator(), logger.Named(baseLogger, "handlers.tools"))
	engine := router.New(receiptHandler, toolsHandler, logger.Named(baseLogger, "router"))

	sched := scheduler.NewScheduler(cfg.Reporting, application.Reporting, application.Drafts, logger.Named(baseLogger, "scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

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
	sched.Stop(shutdownCtx)
}
