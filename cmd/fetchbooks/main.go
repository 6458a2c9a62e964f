// Command fetchbooks prints the book catalog served at API_BASE_URL.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/example/inventory-api/internal/client"
	"github.com/example/inventory-api/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	books, err := client.NewBooks(cfg.APIBaseURL, nil).List(ctx)
	if err != nil {
		var statusErr *client.StatusError
		if errors.As(err, &statusErr) {
			fmt.Fprintln(os.Stderr, "Failed to fetch books:", statusErr.StatusCode)
		} else {
			fmt.Fprintln(os.Stderr, "Failed to fetch books:", err)
		}
		os.Exit(1)
	}

	fmt.Println("Books List:")
	for _, b := range books {
		fmt.Printf("%d\t%s\t%s\t%d\t%s\t%.2f\n", b.ID, b.Title, b.Author, b.PublicationYear, b.ISBN, b.Price)
	}
}
