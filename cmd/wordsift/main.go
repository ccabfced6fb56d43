package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wordsift/wordsift/pkg/config"
	"github.com/wordsift/wordsift/pkg/db"
	"github.com/wordsift/wordsift/pkg/dictapi"
	"github.com/wordsift/wordsift/pkg/enrich"
	"github.com/wordsift/wordsift/pkg/ingest"
	"github.com/wordsift/wordsift/pkg/logger"
	"github.com/wordsift/wordsift/pkg/postgrest"
	"github.com/wordsift/wordsift/pkg/server"
	"github.com/wordsift/wordsift/pkg/words"
)

func main() {
	urlFlag := flag.String("url", "", "ingest the readable text of this page, print a summary, and exit")
	refreshFlag := flag.Bool("refresh", false, "re-fetch details for all stale words and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	zlog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// Graceful shutdown on interrupt.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var store words.Store
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		conn, err := db.Open(cfg.SQLitePath)
		if err != nil {
			zlog.Fatalw("failed to open database", "path", cfg.SQLitePath, "error", err)
		}
		defer conn.Close()
		store = db.NewStore(conn)
		zlog.Infow("using local store", "path", cfg.SQLitePath)
	default:
		store = postgrest.NewClient(cfg.DatabaseURL, cfg.DatabaseAnonKey)
		zlog.Infow("using hosted store", "endpoint", cfg.DatabaseURL)
	}

	dict := dictapi.NewClient(cfg.DictionaryBaseURL, time.Duration(cfg.CacheTTLMinutes)*time.Minute, zlog)

	ingester := ingest.NewIngester(store, zlog)
	ingester.Workers = cfg.Workers

	enricher := enrich.NewEnricher(store, dict, zlog)
	enricher.MaxAgeHours = cfg.StalenessHours

	batchDelay := time.Duration(cfg.BatchDelayMS) * time.Millisecond

	if *urlFlag != "" {
		res, err := ingester.IngestURL(ctx, *urlFlag)
		if err != nil {
			zlog.Fatalw("page ingestion failed", "url", *urlFlag, "error", err)
		}
		fmt.Printf("Ingested %d words (%d failed) from %s\n", len(res.Succeeded), len(res.Failed), *urlFlag)
		for _, w := range res.Failed {
			fmt.Printf("  failed: %s\n", w)
		}
		return
	}

	if *refreshFlag {
		updated, err := enricher.RefreshAll(ctx, batchDelay)
		if err != nil {
			zlog.Fatalw("bulk refresh failed", "error", err)
		}
		fmt.Printf("Refreshed details for %d words\n", updated)
		return
	}

	router := server.NewRouter(server.RouterConfig{
		Store:      store,
		Ingester:   ingester,
		Enricher:   enricher,
		BatchDelay: batchDelay,
		Log:        zlog,
	})

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	go func() {
		zlog.Infow("listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	zlog.Infow("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Warnw("shutdown incomplete", "error", err)
	}
}
