package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	batchhandler "github.com/dkochetov/imgset/internal/api/handlers/batch"
	"github.com/dkochetov/imgset/internal/api/router"
	"github.com/dkochetov/imgset/internal/api/server"
	"github.com/dkochetov/imgset/internal/batch"
	"github.com/dkochetov/imgset/internal/config"
	"github.com/dkochetov/imgset/internal/infra/kafka/consumer"
	"github.com/dkochetov/imgset/internal/infra/kafka/producer"
	batchmsg "github.com/dkochetov/imgset/internal/kafka/handlers/batch"
	"github.com/dkochetov/imgset/internal/pipeline"
	batchrepo "github.com/dkochetov/imgset/internal/repository/batch"
	batchsvc "github.com/dkochetov/imgset/internal/service/batch"
	"github.com/dkochetov/imgset/internal/storage/object"
)

func main() {
	// Context & signals: used for graceful shutdown on system interrupts.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize logger and load application configuration.
	zlog.Init()
	cfg := config.MustLoad("./config/config.yml")

	// Connect to PostgreSQL (master and slaves).
	opts := &dbpg.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	// Collect slave DSNs for replica connections.
	slaveDSNs := make([]string, 0, len(cfg.Database.Slaves))
	for _, s := range cfg.Database.Slaves {
		slaveDSNs = append(slaveDSNs, s.DSN())
	}

	db, err := dbpg.New(cfg.Database.Master.DSN(), slaveDSNs, opts)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Retry strategy for Kafka operations. Variant processing itself
	// never retries; failed batches stay failed.
	strategy := retry.Strategy{
		Attempts: cfg.Retry.Attempts,
		Delay:    cfg.Retry.Delay,
		Backoff:  cfg.Retry.Backoff,
	}

	// Initialize object storage (MinIO).
	storage, err := object.NewStorage(
		ctx,
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.BucketName,
		cfg.Storage.StaticURLPrefix,
		cfg.Storage.UseSSL,
	)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to storage")
	}

	// Initialize repository, producer, pipeline, orchestrator and service layer.
	repo := batchrepo.NewRepository(db)
	p := producer.New(&cfg.Kafka, strategy)
	pipe := pipeline.New(storage, cfg.Storage.VariantSubdir)
	orch := batch.NewOrchestrator(pipe, batch.Config{ResizeLimit: cfg.Processing.ResizeLimit})
	service := batchsvc.NewService(storage, p, repo, orch, cfg.Storage.SourceSubdir, batchsvc.Defaults{
		NameTemplate:  cfg.Processing.DefaultNameTemplate,
		OmitExtension: cfg.Processing.OmitExtension,
		ColorPad:      cfg.Processing.ColorPad,
	})

	// Kafka message handler for created batches.
	createdHandler := batchmsg.NewCreatedHandler(service)

	// HTTP handler for batch routes.
	h := batchhandler.NewHandler(service)

	// Kafka consumer for processing created batch events.
	c := consumer.New(&cfg.Kafka, strategy, createdHandler)

	// Start Kafka consumer in a separate goroutine.
	var wg sync.WaitGroup
	wg.Add(1)
	go c.Consume(ctx, &wg)

	// Start HTTP server in a separate goroutine.
	r := router.Setup(h)
	s := server.New(cfg.Server.HTTPPort, r)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Block until context is canceled (SIGINT/SIGTERM).
	<-ctx.Done()
	zlog.Logger.Info().Msg("context done")

	// Wait for Kafka consumer goroutine to finish.
	wg.Wait()

	// Graceful shutdown with timeout for HTTP server.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}
	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}

	// Close master and slave databases.
	if err := db.Master.Close(); err != nil {
		zlog.Logger.Printf("failed to close master DB: %v", err)
	}
	for i, slave := range db.Slaves {
		if err := slave.Close(); err != nil {
			zlog.Logger.Printf("failed to close slave DB %d: %v", i, err)
		}
	}

	// Close Kafka producer and consumer clients.
	if err = p.Client.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close kafka producer client")
	}
	if err = c.Client.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close kafka consumer client")
	}
}
