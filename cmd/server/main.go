package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	webAdapter "po-review/internal/adapters/web"
	"po-review/internal/app"
	"po-review/internal/config"
	"po-review/internal/export"
	"po-review/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	logger := log.New(os.Stderr, "", log.LstdFlags)

	// History degrades to in-memory when no database is configured; the
	// health endpoint reports which backend is live.
	var (
		history store.HistoryStore
		backend string
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			log.Fatalf("database ping: %v", err)
		}
		history, backend = store.NewPGHistoryStore(pool), "postgres"
	} else {
		logger.Println("DATABASE_URL not set; review history is in-memory only")
		history, backend = store.NewMemoryHistoryStore(), "memory"
	}

	var docs store.DocumentStore
	if cfg.GCPProjectID != "" {
		fs, err := store.NewFirestoreStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("firestore: %v", err)
		}
		defer fs.Close()
		docs = fs
	}

	settings, err := config.NewSettingsStore(cfg.SettingsPath)
	if err != nil {
		log.Fatalf("settings: %v", err)
	}

	catalog := store.NewCatalog()
	files := export.NewFileStore(cfg.ExportDir)
	svc := app.NewAppService(cfg, catalog, docs, history, backend, settings, files, logger)

	// Initial catalog load. Failure is non-fatal: the admin reload endpoint
	// can retry once the backing data is reachable.
	if res, err := svc.ReloadMasterData(ctx); err != nil {
		logger.Printf("initial master data load failed: %v", err)
	} else {
		logger.Printf("catalog ready: %d products, %d stock records (%s)",
			res.Products, res.Stock, res.Source)
	}

	handler := webAdapter.NewHandler(svc, os.Getenv("ALLOWED_ORIGINS"))
	log.Printf("server starting on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
