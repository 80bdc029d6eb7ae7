package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nekogravitycat/appointment-booking-backend/internal/app"
	"github.com/nekogravitycat/appointment-booking-backend/internal/catalog"
	"github.com/nekogravitycat/appointment-booking-backend/internal/config"
	"github.com/nekogravitycat/appointment-booking-backend/internal/db"
	"github.com/nekogravitycat/appointment-booking-backend/internal/pkg/logger"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.IsProduction)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer lg.Sync()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Pick the catalog source
	var (
		src  catalog.Source
		pool *pgxpool.Pool
	)
	switch {
	case cfg.DBDSN != "":
		pool, err = db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			lg.Fatal("failed to connect to db", zap.Error(err))
		}
		src = catalog.NewPgxSource(pool)
		lg.Info("loading catalog from database")
	case cfg.CatalogFile != "":
		src = catalog.FileSource{Path: cfg.CatalogFile}
		lg.Info("loading catalog from file", zap.String("path", cfg.CatalogFile))
	default:
		src = catalog.DefaultSource()
		lg.Info("using built-in catalog")
	}

	container, err := app.NewContainer(ctx, app.Config{
		IsProduction:  cfg.IsProduction,
		ProdOrigins:   cfg.ProdOrigins,
		CatalogSource: src,
		Location:      cfg.Location,
		Logger:        lg,
	})
	if err != nil {
		lg.Fatal("failed to initialize application", zap.Error(err))
	}

	// The catalog is loaded once; the database is not touched after startup.
	if pool != nil {
		pool.Close()
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		lg.Info("server running", zap.String("addr", cfg.HTTPAddr), zap.String("timezone", cfg.Location.String()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	lg.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		lg.Error("server forced to shutdown", zap.Error(err))
	}

	lg.Info("server exited gracefully")
}
