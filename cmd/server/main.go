package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/tasklight/backend/api/handler"
	"github.com/tasklight/backend/internal/config"
	"github.com/tasklight/backend/internal/notify"
	"github.com/tasklight/backend/internal/persist"
	"github.com/tasklight/backend/internal/reminder"
	"github.com/tasklight/backend/internal/router"
	"github.com/tasklight/backend/internal/services/lifecycle"
	"github.com/tasklight/backend/internal/store"
	"github.com/tasklight/backend/internal/view"
	"github.com/tasklight/backend/pkg/httpcontext"
	"github.com/tasklight/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	storage, err := persist.OpenBolt(cfg.Storage.Path)
	if err != nil {
		zapLogger.Fatal("failed to open state storage", zap.Error(err))
	}
	manager.Register("storage", func(ctx context.Context) error {
		return storage.Close()
	})

	gateway := persist.NewGateway(storage, cfg.Persist.Debounce, zapLogger)
	manager.Register("persistence_gateway", func(ctx context.Context) error {
		return gateway.Close()
	})

	taskStore := store.New(zapLogger)
	if snap, ok := gateway.Load(); ok {
		taskStore.Hydrate(snap.Tasks, snap.Categories)
	}

	// The gateway observes every command from here on; the hydrate above
	// happened before subscription so boot does not rewrite what it just read.
	taskStore.Subscribe(gateway.Save)

	toastFeed := notify.NewFeed(cfg.Notify.ToastFeedLimit, zapLogger)
	var desktop notify.DesktopSink
	if cfg.Notify.DesktopEnabled {
		desktop = notify.NewDesktopSink(cfg.AppName)
	}
	notifier := notify.New(toastFeed, desktop, zapLogger)

	scheduler := reminder.New(taskStore, notifier, cfg.Reminder.Interval, zapLogger)
	manager.Register("reminder_scheduler", func(ctx context.Context) error {
		scheduler.Stop(ctx)
		return nil
	})

	// Lazy start: the scheduler comes up on the first real command, not at
	// boot. Registered after hydrate so hydration itself does not count.
	taskStore.Subscribe(func(store.Snapshot) {
		scheduler.Start()
	})

	views := view.NewEngine(taskStore)
	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:     apiHandler.NewTaskHandler(taskStore, views, ctxAdapter, zapLogger),
		Category: apiHandler.NewCategoryHandler(taskStore, views, ctxAdapter, zapLogger),
		Filter:   apiHandler.NewFilterHandler(taskStore, toastFeed, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(cfg.AppName, views, storage, ctxAdapter, zapLogger),
	}

	r := router.New(handlers)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
