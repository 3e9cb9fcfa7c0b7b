package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/catalog"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/config"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/docs"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/handler"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/hateoas"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/logging"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const appVersion = "0.1.0"

func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := openStores(ctx, cfg)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	gin.SetMode(cfg.GinMode)

	e := gin.New()
	e.Use(handler.RequestID(), handler.AccessLog(), gin.Recovery())

	if err := e.SetTrustedProxies([]string{
		"127.0.0.1",
		"::1",
	}); err != nil {
		logger.Warn("failed to set trusted proxies", "error", err)
	}

	if err := docs.Register(""); err != nil {
		logger.Warn("failed to register api docs", "error", err)
	}

	healthHandler := handler.NewHealthHandler(stores.Ping, cfg.StoreDriver, startTime, appVersion)
	healthHandler.RegisterRoutes(e)

	services := catalog.NewServices(stores, catalog.NewSlogAuditor(logger))

	v1 := e.Group(docs.BasePath)
	{
		handler.RegisterCatalogRoutes(v1,
			hateoas.NewAssembler(cfg.BaseURL),
			services.Authors,
			services.Books,
			services.Publishers,
		)
	}

	e.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("catalog api listening", "addr", srv.Addr, "driver", cfg.StoreDriver, "version", appVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
