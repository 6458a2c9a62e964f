package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/inventory-api/internal/auth"
	"github.com/example/inventory-api/internal/domain/book"
	"github.com/example/inventory-api/internal/domain/inventory"
	"github.com/example/inventory-api/internal/domain/user"
)

const (
	codeInvalidRequest     = "invalid_request"
	codeInvalidCredentials = "invalid_credentials"
	codeConflict           = "conflict"
	codeForbidden          = "forbidden"
	codeTokenExpired       = "token_expired"
	codeInvalidToken       = "invalid_token"
	codeInventoryNotFound  = "inventory_not_found"
	codeItemNotFound       = "item_not_found"
	codeDuplicateItem      = "duplicate_item"
	codeBookNotFound       = "book_not_found"
	codeDuplicateISBN      = "duplicate_isbn"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// classify maps a domain error to its HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, user.ErrInvalidInput), errors.Is(err, book.ErrInvalidBook):
		return http.StatusBadRequest, codeInvalidRequest
	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized, codeInvalidCredentials
	case user.IsConflict(err):
		return http.StatusConflict, codeConflict
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusForbidden, codeForbidden
	case errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized, codeTokenExpired
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, codeInvalidToken
	case errors.Is(err, inventory.ErrInventoryNotFound):
		return http.StatusNotFound, codeInventoryNotFound
	case errors.Is(err, inventory.ErrItemNotFound):
		return http.StatusNotFound, codeItemNotFound
	case errors.Is(err, inventory.ErrDuplicateItem):
		return http.StatusConflict, codeDuplicateItem
	case errors.Is(err, book.ErrBookNotFound):
		return http.StatusNotFound, codeBookNotFound
	case errors.Is(err, book.ErrDuplicateISBN):
		return http.StatusBadRequest, codeDuplicateISBN
	}
	return http.StatusInternalServerError, codeInternalError
}

// respondError writes err as a JSON error. Unexpected errors are logged and
// their text is not sent to the client.
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	writeError(w, status, code, msg)
}
