package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "pricewidget/docs"
	"pricewidget/internal/config"
	"pricewidget/internal/controller"
	"pricewidget/internal/handler"
	"pricewidget/internal/metrics"
	"pricewidget/internal/repo"
	"pricewidget/internal/service"
	"pricewidget/internal/state"
	webHandler "pricewidget/internal/ui/handler"
	"pricewidget/pkg/database"
	"pricewidget/pkg/integrations/quotes"
	"pricewidget/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Price Widget API
// @version 1.0
// @description Crypto price widget state: asset and currency selection, quotes and snapshot streams

// @host localhost:8080
// @BasePath /

func main() {
	utils.LoadEnv()

	cfg, err := config.Load(utils.GetEnv("CONFIG_PATH", ""))
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store state.SelectionStore
	switch cfg.Store.Type {
	case config.StoreMemory:
		store = repo.NewMemoryStore()
	default:
		db, err := database.New(database.WithLogger(logger), database.WithPath(cfg.Database.Path))
		if err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
		defer db.Close()

		repository, err := repo.New(db.Get())
		if err != nil {
			log.Fatal("Failed to create repository:", err)
		}
		if err := repository.Migrate(); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
		store = repository
	}

	fetcher, err := quotes.NewFromConfig(quotes.Config{
		Provider: cfg.Quotes.Provider,
		BaseURL:  cfg.Quotes.BaseURL,
		APIKey:   cfg.Quotes.APIKey,
		Timeout:  cfg.Quotes.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to create quote fetcher:", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	hub := controller.NewHub(0)
	snapshots, err := hub.Bus(ctx, logger, 0)
	if err != nil {
		log.Fatal("Failed to start snapshot subscriber:", err)
	}

	widget, err := state.New(
		state.WithLogger(logger),
		state.WithQuoteFetcher(fetcher),
		state.WithSelectionStore(store),
		state.WithPublisher(snapshots),
		state.WithMetrics(m),
	)
	if err != nil {
		log.Fatal("Failed to create price state:", err)
	}
	defer widget.Close()

	// A failed first fetch leaves the price empty but the widget usable.
	if err := widget.Initialize(ctx); err != nil {
		logger.Warn("initial quote fetch failed", "error", err)
	}

	var autoRefresh *service.AutoRefreshService
	if cfg.Refresh.Interval > 0 {
		autoRefresh, err = service.NewAutoRefreshService(
			service.WithAutoRefreshContext(ctx),
			service.WithAutoRefreshLogger(logger),
			service.WithAutoRefreshRefresher(widget),
			service.WithAutoRefreshInterval(cfg.Refresh.Interval),
			service.WithAutoRefreshTimeout(cfg.Quotes.Timeout),
		)
		if err != nil {
			log.Fatal("Failed to create auto refresh service:", err)
		}
		if err := autoRefresh.Start(); err != nil {
			log.Fatal("Failed to start auto refresh service:", err)
		}
	}

	r := gin.Default()

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	h, err := handler.New(
		handler.WithEngine(r),
		handler.WithWidget(widget),
		handler.WithHub(hub),
		handler.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		handler.WithLogger(logger),
	)
	if err != nil {
		log.Fatal("Failed to create handler:", err)
	}
	if err := h.Setup(); err != nil {
		log.Fatal("Failed to setup routes:", err)
	}

	webOpts := []webHandler.Option{
		webHandler.WithEngine(r),
		webHandler.WithWidget(widget),
	}
	if cfg.Refresh.Interval > 0 {
		webOpts = append(webOpts, webHandler.WithPollInterval(cfg.Refresh.Interval))
	}
	web, err := webHandler.New(webOpts...)
	if err != nil {
		log.Fatal("Failed to create web handler:", err)
	}
	if err := web.Setup(); err != nil {
		log.Fatal("Failed to setup web routes:", err)
	}

	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     r,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		logger.Info("starting price widget", "port", cfg.Server.Port,
			"provider", cfg.Quotes.Provider, "store", cfg.Store.Type)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	if autoRefresh != nil {
		autoRefresh.Stop()
	}
	// ends open SSE streams so Shutdown does not wait on them
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
}
