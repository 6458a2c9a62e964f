package api

import (
	"log/slog"
	"net/http"

	"github.com/example/inventory-api/internal/api/middleware"
	"github.com/example/inventory-api/internal/domain/book"
	"github.com/example/inventory-api/internal/domain/inventory"
	"github.com/example/inventory-api/internal/domain/user"
	"github.com/example/inventory-api/internal/logging"
)

// RouterConfig holds the services exposed over HTTP.
type RouterConfig struct {
	Users       *user.Service
	Inventory   *inventory.Service
	Books       *book.Service
	Health      http.Handler
	CORSOrigins []string
	Logger      *slog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	authHandlers := NewAuthHandlers(cfg.Users, logger)
	inventoryHandlers := NewInventoryHandlers(cfg.Inventory, logger)
	bookHandlers := NewBookHandlers(cfg.Books, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", welcome)
	if cfg.Health != nil {
		mux.Handle("GET /health", cfg.Health)
	}

	// Auth
	mux.HandleFunc("POST /register", authHandlers.Register)
	mux.HandleFunc("POST /login", authHandlers.Login)

	// Inventory (token required, identity checked by the service)
	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireToken(h)
	}
	mux.Handle("GET /users/{user_id}/inventory", protected(inventoryHandlers.GetInventory))
	mux.Handle("POST /users/{user_id}/inventory/items", protected(inventoryHandlers.AddItem))
	mux.Handle("PUT /users/{user_id}/inventory/items/{item_id}", protected(inventoryHandlers.UpdateItem))
	mux.Handle("DELETE /users/{user_id}/inventory/items/{item_id}", protected(inventoryHandlers.DeleteItem))

	// Books (public). The trailing-slash forms keep older clients working.
	for _, p := range []string{"/books", "/books/{$}"} {
		mux.HandleFunc("GET "+p, bookHandlers.ListBooks)
		mux.HandleFunc("POST "+p, bookHandlers.CreateBook)
	}
	mux.HandleFunc("GET /books/{book_id}", bookHandlers.GetBook)
	mux.HandleFunc("PUT /books/{book_id}", bookHandlers.UpdateBook)
	mux.HandleFunc("DELETE /books/{book_id}", bookHandlers.DeleteBook)

	return middleware.RequestLogger(middleware.CORS(cfg.CORSOrigins, mux), logger)
}
