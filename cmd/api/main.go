package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/example/inventory-api/internal/api"
	"github.com/example/inventory-api/internal/auth"
	"github.com/example/inventory-api/internal/config"
	"github.com/example/inventory-api/internal/domain/book"
	"github.com/example/inventory-api/internal/domain/inventory"
	"github.com/example/inventory-api/internal/domain/user"
	"github.com/example/inventory-api/internal/event"
	"github.com/example/inventory-api/internal/health"
	"github.com/example/inventory-api/internal/infrastructure/kafka"
	"github.com/example/inventory-api/internal/infrastructure/store"
	"github.com/example/inventory-api/internal/logging"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[API] %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[API] %v\n", err)
		os.Exit(1)
	}
	logger = logger.With("service", "api")

	if err := run(cfg, logger); err != nil {
		logger.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.ValidateSecret(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("close", "error", err)
			}
		}
	}()

	checker := health.NewChecker()

	var publisher event.Publisher = event.NopPublisher{}
	if cfg.KafkaEnabled() {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		closers = append(closers, producer.Close)
		publisher = producer
		logger.Info("publishing events to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	userRepo, err := userRepository(ctx, cfg, checker, &closers, logger)
	if err != nil {
		return err
	}
	bookRepo, err := bookRepository(ctx, cfg, checker, &closers, logger)
	if err != nil {
		return err
	}
	invStore, err := inventoryStore(ctx, cfg, checker, &closers, logger)
	if err != nil {
		return err
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL, nil)

	router := api.NewRouter(api.RouterConfig{
		Users:       user.NewService(userRepo, jwtService, publisher, nil, logger.With("component", "user")),
		Inventory:   inventory.NewService(jwtService, invStore, publisher, nil, logger.With("component", "inventory")),
		Books:       book.NewService(bookRepo),
		Health:      checker,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger.With("component", "http"),
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	if cfg.GRPCAddr != "" {
		grpcServer := health.NewGRPCServer(cfg.GRPCAddr, checker, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := grpcServer.Run(ctx); err != nil {
				errCh <- fmt.Errorf("grpc health server: %w", err)
			}
		}()
	}

	go func() {
		logger.Info("server started", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errCh:
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}

	wg.Wait()
	return runErr
}

func userRepository(ctx context.Context, cfg *config.Config, checker *health.Checker, closers *[]func() error, logger *slog.Logger) (user.Repository, error) {
	if cfg.UsersDatabaseURL == "" {
		logger.Info("users stored in memory")
		return user.NewMemoryRepository(), nil
	}

	db, err := store.ConnectPostgres(ctx, cfg.UsersDatabaseURL)
	if err != nil {
		return nil, err
	}
	*closers = append(*closers, db.Close)

	if err := store.MigratePostgres(ctx, db); err != nil {
		return nil, err
	}
	checker.Add("postgres", db.PingContext)
	logger.Info("users stored in postgres")
	return store.NewPostgresUserRepository(db), nil
}

func bookRepository(ctx context.Context, cfg *config.Config, checker *health.Checker, closers *[]func() error, logger *slog.Logger) (book.Repository, error) {
	if cfg.BooksDatabaseDSN == "" {
		logger.Info("books stored in memory")
		return book.NewMemoryRepository(), nil
	}

	db, err := store.ConnectMySQL(ctx, cfg.BooksDatabaseDSN)
	if err != nil {
		return nil, err
	}
	*closers = append(*closers, db.Close)

	if err := store.MigrateMySQL(ctx, db); err != nil {
		return nil, err
	}
	checker.Add("mysql", db.PingContext)
	logger.Info("books stored in mysql")
	return store.NewMySQLBookRepository(db), nil
}

func inventoryStore(ctx context.Context, cfg *config.Config, checker *health.Checker, closers *[]func() error, logger *slog.Logger) (inventory.Store, error) {
	if cfg.DynamoTable != "" {
		client, err := store.ConnectDynamo(ctx, cfg.AWSRegion, cfg.DynamoEndpoint)
		if err != nil {
			return nil, err
		}
		checker.Add("dynamodb", func(ctx context.Context) error {
			_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(cfg.DynamoTable)})
			return err
		})
		logger.Info("inventories stored in dynamodb", "table", cfg.DynamoTable)
		return store.NewDynamoInventoryStore(client, cfg.DynamoTable), nil
	}

	if cfg.RedisAddr == "" {
		logger.Info("inventories stored in memory")
		return inventory.NewMemoryStore(), nil
	}

	client, err := store.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, err
	}
	*closers = append(*closers, client.Close)

	checker.Add("redis", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	logger.Info("inventories stored in redis", "addr", cfg.RedisAddr)
	return store.NewRedisInventoryStore(client), nil
}
