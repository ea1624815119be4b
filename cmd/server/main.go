package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/filmindex/catalog-api/internal/catalog"
	"github.com/filmindex/catalog-api/internal/config"
	httpserver "github.com/filmindex/catalog-api/internal/http"
	"github.com/filmindex/catalog-api/internal/repository"
	"github.com/filmindex/catalog-api/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.New(os.Stdout, "[catalog-api] ", log.LstdFlags|log.Lshortfile)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	}

	catalogOpts := storeOpts
	catalogOpts.Name = "catalog-store"
	catalogStore, err := store.New(dbCtx, cfg.CatalogDBURL, catalogOpts)
	if err != nil {
		log.Fatalf("connect catalog database: %v", err)
	}
	defer catalogStore.Close()

	ratingsOpts := storeOpts
	ratingsOpts.Name = "ratings-store"
	ratingsStore, err := store.New(dbCtx, cfg.RatingsDBURL, ratingsOpts)
	if err != nil {
		log.Fatalf("connect ratings database: %v", err)
	}
	defer ratingsStore.Close()

	repo := repository.New(catalogStore, ratingsStore)
	svc := catalog.NewFromRepository(repo)
	server := httpserver.New(cfg, catalogStore, ratingsStore, svc, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			log.Printf("server error: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("graceful shutdown error: %v", err)
	}
}
