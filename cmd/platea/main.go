package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"platea/internal/auth"
	"platea/internal/catalog"
	"platea/internal/config"
	"platea/internal/db"
	httpx "platea/internal/http"
	"platea/internal/http/handler"
	"platea/internal/mail"
	"platea/internal/realtime"
	"platea/internal/room"
	"platea/internal/upload"

	"go.uber.org/zap"
)

func main() {
	cfg, _ := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	if err := db.AutoMigrate(gdb); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}
	if err := db.Indexes(gdb); err != nil {
		logger.Fatal("index setup failed", zap.Error(err))
	}

	jwtSvc := auth.NewJWT(cfg.JWTSecret)
	hub := realtime.NewHub(logger)
	catalogClient := catalog.NewClient(cfg.MealDBBaseURL, cfg.CocktailDBBaseURL, logger)

	ctx, cancel := context.WithCancel(context.Background())

	var uploads handler.ImageStore
	if cfg.S3Bucket != "" {
		store, err := upload.NewStore(ctx, cfg.S3Bucket, cfg.S3Region)
		if err != nil {
			logger.Fatal("s3 init failed", zap.Error(err))
		}
		uploads = store
	}

	var mailer auth.Mailer
	if cfg.SESSender != "" {
		m, err := mail.NewSES(ctx, cfg.SESSender, cfg.S3Region)
		if err != nil {
			logger.Fatal("ses init failed", zap.Error(err))
		}
		mailer = m
	}

	r := httpx.NewRouter(httpx.Deps{
		Config:  cfg,
		DB:      gdb,
		JWT:     jwtSvc,
		Hub:     hub,
		Catalog: catalogClient,
		Uploads: uploads,
		Mailer:  mailer,
		Log:     logger,
	})

	// invite sweeper
	sweeper := &room.Sweeper{DB: gdb, Log: logger, Interval: time.Hour}
	go sweeper.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
