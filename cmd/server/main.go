package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/batmedia/docpress/internal/config"
	"github.com/batmedia/docpress/internal/export"
	"github.com/batmedia/docpress/internal/qr"
	"github.com/batmedia/docpress/internal/raster"
	"github.com/batmedia/docpress/internal/server"
	"github.com/batmedia/docpress/internal/session"
	"github.com/batmedia/docpress/internal/store"
	"github.com/batmedia/docpress/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.Must(logger.New(cfg.Env))
	defer func() { _ = log.Sync() }()

	st, err := store.Open(cfg.DatabasePath, store.Options{HistoryKey: cfg.HistoryKey, SalesKey: cfg.SalesKey}, logger.Named(log, "store"))
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}
	defer func() { _ = st.Close() }()

	ws := session.New()
	qrgen := qr.NewGenerator(logger.Named(log, "qr"), qr.DefaultSize)
	renderer := raster.NewRenderer(logger.Named(log, "raster"), qrgen)
	exporter := export.New(logger.Named(log, "export"), renderer, cfg.PDFOptions())

	handler := server.New(server.Deps{
		Config:    cfg,
		Workspace: ws,
		Store:     st,
		Exporter:  exporter,
		Log:       logger.Named(log, "http"),
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("error during shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
