// Package client talks to the book catalog over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/example/inventory-api/internal/domain/book"
)

const defaultTimeout = 10 * time.Second

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

// Books is a client for the /books endpoints.
type Books struct {
	baseURL string
	http    *http.Client
}

// NewBooks returns a client for the API at baseURL. A nil httpClient gets a
// client with a ten second timeout.
func NewBooks(baseURL string, httpClient *http.Client) *Books {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Books{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Books) List(ctx context.Context) ([]book.Book, error) {
	var books []book.Book
	if err := c.do(ctx, http.MethodGet, "/books/", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *Books) Create(ctx context.Context, in book.Input) (*book.Book, error) {
	var resp struct {
		Book *book.Book `json:"book"`
	}
	if err := c.do(ctx, http.MethodPost, "/books/", in, &resp); err != nil {
		return nil, err
	}
	if resp.Book == nil {
		return nil, errors.New("response has no book")
	}
	return resp.Book, nil
}

func (c *Books) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var apiErr struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil {
			statusErr.Code = apiErr.Code
			statusErr.Message = apiErr.Error
		}
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
