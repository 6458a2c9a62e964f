package api

import (
	"net/http"
	"testing"

	"github.com/example/inventory-api/internal/domain/book"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooks_CRUD(t *testing.T) {
	s := newTestServer(t)

	in := book.SampleBooks[0]
	rec := s.do(t, http.MethodPost, "/books/", "", in)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[bookResponse](t, rec)
	assert.Equal(t, "Book created successfully.", created.Message)
	require.NotNil(t, created.Book)
	assert.Equal(t, int64(1), created.Book.ID)

	rec = s.do(t, http.MethodGet, "/books/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]book.Book](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/books/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1984", decode[book.Book](t, rec).Title)

	in.Price = 7.5
	rec = s.do(t, http.MethodPut, "/books/1", "", in)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7.5, decode[bookResponse](t, rec).Book.Price)

	rec = s.do(t, http.MethodDelete, "/books/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Book deleted successfully.", decode[messageResponse](t, rec).Message)

	rec = s.do(t, http.MethodGet, "/books/1", "", nil)
	assertErrorCode(t, rec, http.StatusNotFound, codeBookNotFound)
}

func TestBooks_EmptyListIsArray(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/books", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestBooks_Errors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/books", "", book.SampleBooks[0])
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/books", "", book.SampleBooks[0])
	assertErrorCode(t, rec, http.StatusBadRequest, codeDuplicateISBN)

	rec = s.do(t, http.MethodPost, "/books", "", book.Input{Title: "No author", ISBN: "1"})
	assertErrorCode(t, rec, http.StatusBadRequest, codeInvalidRequest)

	rec = s.do(t, http.MethodPut, "/books/42", "", book.SampleBooks[1])
	assertErrorCode(t, rec, http.StatusNotFound, codeBookNotFound)

	rec = s.do(t, http.MethodDelete, "/books/x", "", nil)
	assertErrorCode(t, rec, http.StatusBadRequest, codeInvalidRequest)
}
