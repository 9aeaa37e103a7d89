package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andreyxaxa/LocalStoreConnect/config"
	kafkactrl "github.com/andreyxaxa/LocalStoreConnect/internal/controller/kafka"
	"github.com/andreyxaxa/LocalStoreConnect/internal/controller/restapi"
	v1 "github.com/andreyxaxa/LocalStoreConnect/internal/controller/restapi/v1"
	"github.com/andreyxaxa/LocalStoreConnect/internal/controller/worker/outbox"
	"github.com/andreyxaxa/LocalStoreConnect/internal/infrastructure/hasher"
	infrakafka "github.com/andreyxaxa/LocalStoreConnect/internal/infrastructure/kafka"
	"github.com/andreyxaxa/LocalStoreConnect/internal/infrastructure/processor"
	"github.com/andreyxaxa/LocalStoreConnect/internal/infrastructure/token"
	"github.com/andreyxaxa/LocalStoreConnect/internal/repo/cache"
	"github.com/andreyxaxa/LocalStoreConnect/internal/repo/persistent"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase/category"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase/credential"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase/objectgateway"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase/objectrelease"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase/post"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase/profile"
	"github.com/andreyxaxa/LocalStoreConnect/migrations"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/httpserver"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/kafka/consumer"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/kafka/producer"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/logger"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/postgres"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/s3client"
)

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Repository

	// s3
	s3Ctx, s3Cancel := context.WithTimeout(ctx, cfg.S3.CfgLoadTimeout)
	defer s3Cancel()
	s3c, err := s3client.New(s3Ctx, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket,
		s3client.Region(cfg.S3.Region),
		s3client.Endpoint(cfg.S3.Endpoint),
		s3client.UsePathStyle(cfg.S3.UsePathStyle),
	)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - s3client.New: %w", err))
	}

	// postgres
	pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
	}
	defer pg.Close()

	if cfg.PG.RunMigrations {
		err = migrations.Up(ctx, pg.StdDB())
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - migrations.Up: %w", err))
		}
	}

	objects := persistent.NewObjectRepo(s3c, cfg.S3.Bucket, cfg.S3.PublicBaseURL, cfg.S3.PublicRead)
	owners := persistent.NewOwnerRepo(pg)

	// auth cache
	ownerCache := cache.NewOwnerCache(cfg.Auth.CacheTTL)
	ownerCache.Start()
	defer ownerCache.Stop()

	// Use-Case

	releaseUseCase := objectrelease.New(persistent.NewReleaseOutboxRepo(pg), objects, l)
	gatewayUseCase := objectgateway.New(objects, releaseUseCase, l)
	profileUseCase := profile.New(owners, gatewayUseCase, releaseUseCase, pg, ownerCache, l)

	useCases := v1.UseCases{
		Credential: credential.New(
			profileUseCase,
			owners,
			ownerCache,
			token.NewIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL),
			hasher.NewBcrypt(cfg.Auth.BcryptCost),
			l,
		),
		Profile:  profileUseCase,
		Post:     post.New(persistent.NewPostRepo(pg), gatewayUseCase, releaseUseCase, pg, l),
		Category: category.New(persistent.NewCategoryRepo(pg), gatewayUseCase, processor.New(), l),
	}

	// Kafka Producer
	kafkaProducer, err := producer.New(ctx, cfg.Kafka.Brokers,
		producer.ConnAttempts(cfg.Kafka.ConnAttempts),
		producer.BatchTimeout(cfg.Kafka.BatchTimeout),
		producer.WriteTimeout(cfg.Kafka.WriteTimeout),
	)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - producer.New: %w", err))
	}

	// Outbox Relay Worker
	outboxRelayWorker := outbox.New(
		releaseUseCase,
		infrakafka.NewReleaseProducer(kafkaProducer, cfg.Kafka.Topic),
		l,
		cfg.OutboxRelay.PollInterval,
		cfg.OutboxRelay.CleanupInterval,
		cfg.OutboxRelay.MarkFailedInterval,
		cfg.OutboxRelay.ProcessBatchTimeout,
		cfg.OutboxRelay.BatchSize,
		cfg.OutboxRelay.MaxRetries,
	)

	// Kafka Consumer
	kafkaConsumer, err := consumer.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic,
		consumer.ConnAttempts(cfg.Kafka.ConnAttempts),
		consumer.MaxWait(cfg.Kafka.FetchMaxWait),
	)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - consumer.New: %w", err))
	}

	// Kafka as Controller
	releaseController := kafkactrl.New(
		releaseUseCase,
		infrakafka.NewReleaseConsumer(kafkaConsumer),
		l,
		cfg.ReleaseController.CommitTimeout,
		cfg.ReleaseController.DeleteTimeout,
		cfg.ReleaseController.Workers,
	)

	// HTTP Server
	httpServer := httpserver.New(l,
		httpserver.Port(cfg.HTTP.Port),
		httpserver.Prefork(cfg.HTTP.UsePreforkMode),
		httpserver.ReadTimeout(cfg.HTTP.ReadTimeout),
		httpserver.WriteTimeout(cfg.HTTP.WriteTimeout),
		httpserver.BodyLimit(int(cfg.Upload.MaxFileSize)+1<<20),
	)
	restapi.NewRouter(httpServer.App, cfg, useCases, l)

	// Start Components
	err = outboxRelayWorker.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - outboxRelayWorker.Start: %w", err))
	}
	err = releaseController.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - releaseController.Start: %w", err))
	}
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}

	orlShutdownCtx, orlShutdownCancel := context.WithTimeout(ctx, cfg.OutboxRelay.ShutdownTimeout)
	defer orlShutdownCancel()
	err = outboxRelayWorker.Shutdown(orlShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - outboxRelayWorker.Shutdown: %w", err))
	}

	rcShutdownCtx, rcShutdownCancel := context.WithTimeout(ctx, cfg.ReleaseController.ShutdownTimeout)
	defer rcShutdownCancel()
	err = releaseController.Shutdown(rcShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - releaseController.Shutdown: %w", err))
	}
}
