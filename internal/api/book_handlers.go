package api

import (
	"log/slog"
	"net/http"

	"github.com/example/inventory-api/internal/domain/book"
)

type BookHandlers struct {
	books  *book.Service
	logger *slog.Logger
}

func NewBookHandlers(svc *book.Service, logger *slog.Logger) *BookHandlers {
	return &BookHandlers{books: svc, logger: logger}
}

type bookResponse struct {
	Message string     `json:"message"`
	Book    *book.Book `json:"book"`
}

func (h *BookHandlers) CreateBook(w http.ResponseWriter, r *http.Request) {
	var in book.Input
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	b, err := h.books.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, bookResponse{Message: "Book created successfully.", Book: b})
}

func (h *BookHandlers) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, books)
}

func (h *BookHandlers) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "book_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	b, err := h.books.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func (h *BookHandlers) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "book_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	var in book.Input
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	b, err := h.books.Update(r.Context(), id, in)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, bookResponse{Message: "Book updated successfully.", Book: b})
}

func (h *BookHandlers) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "book_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	if err := h.books.Delete(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: "Book deleted successfully."})
}
