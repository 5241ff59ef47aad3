package main

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"taskbook-api/config"
	"taskbook-api/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetLevel(cfg.Level())
	log.Info("storage init starting")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := storage.Open(ctx, storage.Config{DSN: cfg.DatabaseURL, MaxOpenConns: 1})
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer store.Close()

	if err := storage.Migrate(ctx, store.DB()); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	log.Info("storage init complete")
}
