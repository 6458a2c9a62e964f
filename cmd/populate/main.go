// Command populate loads the sample books, straight into MySQL when
// BOOKS_DATABASE_DSN is set and through the HTTP API otherwise.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/example/inventory-api/internal/client"
	"github.com/example/inventory-api/internal/config"
	"github.com/example/inventory-api/internal/domain/book"
	"github.com/example/inventory-api/internal/infrastructure/store"
	"github.com/example/inventory-api/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[Populate] %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, "text", os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[Populate] %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if cfg.BooksDatabaseDSN != "" {
		err = populateDatabase(ctx, cfg.BooksDatabaseDSN, logger)
	} else {
		err = populateAPI(ctx, cfg.APIBaseURL, logger)
	}
	if err != nil {
		logger.Error("error populating books", "error", err)
		os.Exit(1)
	}
}

func populateDatabase(ctx context.Context, dsn string, logger *slog.Logger) error {
	db, err := store.ConnectMySQL(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.MigrateMySQL(ctx, db); err != nil {
		return err
	}

	created, err := book.NewService(store.NewMySQLBookRepository(db)).Seed(ctx, book.SampleBooks)
	if err != nil {
		return err
	}
	logger.Info("books populated successfully", "created", created, "total", len(book.SampleBooks))
	return nil
}

func populateAPI(ctx context.Context, baseURL string, logger *slog.Logger) error {
	books := client.NewBooks(baseURL, nil)

	created := 0
	for _, in := range book.SampleBooks {
		_, err := books.Create(ctx, in)
		var statusErr *client.StatusError
		if errors.As(err, &statusErr) && statusErr.Code == "duplicate_isbn" {
			continue
		}
		if err != nil {
			return fmt.Errorf("create %q: %w", in.Title, err)
		}
		created++
	}
	logger.Info("books populated successfully", "created", created, "total", len(book.SampleBooks), "api", baseURL)
	return nil
}
