package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/api"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/catalog"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/config"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/export"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/logger"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/metrics"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/session"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)
	log := logger.New(cfg.LogLevel)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	m := metrics.New()
	cat, err := catalog.NewService(db, cfg, log)
	must(err)
	sess, err := session.NewService(db, log, m)
	must(err)
	exp, err := export.NewExporter(db, export.PDFRenderer{Bin: cfg.ChromeBin, Landscape: cfg.PDFLandscape}, cfg, log, m)
	must(err)

	srv := api.NewServer(cfg, api.Deps{Catalog: cat, Session: sess, Exporter: exp, History: db, Metrics: m, Log: log})
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		log.Info("scan server listening", "addr", cfg.HTTPAddr, "metrics", cfg.MetricsEnabled)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		must(err)
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	must(httpServer.Shutdown(shutdownCtx))
	log.Info("scan server stopped")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
