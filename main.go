package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"taskbook-api/api"
	"taskbook-api/config"
	"taskbook-api/domain"
	"taskbook-api/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetLevel(cfg.Level())
	log.SetFormatter(&log.JSONFormatter{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, storage.Config{
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer store.Close()

	rc := storage.NewRedisClient(cfg.RedisURL)
	var deduper api.Deduper
	if rc != nil {
		defer rc.Close()
		deduper = api.NewRedisDeduper(rc, cfg.RedisKeyPrefix, cfg.IdempotencyTTL)
	} else {
		log.Warn("REDIS_URL not set; note cache and idempotency keys disabled")
	}
	cache := storage.NewRedisCache(rc, cfg.RedisKeyPrefix, cfg.NoteCacheTTL)

	logger := log.StandardLogger()

	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = api.SonicSerializer{}
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "Idempotency-Key"},
	}))
	e.Use(api.RequestMetrics(logger))
	e.Use(api.BodyMiddleware(api.DefaultBodyLimit))

	api.Register(e, api.Services{
		Tasks:   domain.NewTaskService(store),
		Notes:   domain.NewNoteService(store, cache),
		Status:  domain.NewStatusService(store, cfg.AppVersion),
		Health:  store,
		Deduper: deduper,
	}, logger)

	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("taskbook api listening")
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
}
