package book

import (
	"context"
	"sort"
	"sync"
)

// Repository stores books. Create assigns the id. Create and Update return
// ErrDuplicateISBN when another book already has the ISBN.
type Repository interface {
	Create(ctx context.Context, b *Book) error
	List(ctx context.Context) ([]Book, error)
	Get(ctx context.Context, id int64) (*Book, error)
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id int64) error
}

type MemoryRepository struct {
	mu     sync.RWMutex
	books  map[int64]Book
	nextID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{books: make(map[int64]Book)}
}

func (r *MemoryRepository) isbnTaken(isbn string, except int64) bool {
	for id, b := range r.books {
		if id != except && b.ISBN == isbn {
			return true
		}
	}
	return false
}

func (r *MemoryRepository) Create(_ context.Context, b *Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isbnTaken(b.ISBN, 0) {
		return ErrDuplicateISBN
	}
	r.nextID++
	b.ID = r.nextID
	r.books[b.ID] = *b
	return nil
}

func (r *MemoryRepository) List(_ context.Context) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	books := make([]Book, 0, len(r.books))
	for _, b := range r.books {
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

func (r *MemoryRepository) Get(_ context.Context, id int64) (*Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	return &b, nil
}

func (r *MemoryRepository) Update(_ context.Context, b *Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[b.ID]; !ok {
		return ErrBookNotFound
	}
	if r.isbnTaken(b.ISBN, b.ID) {
		return ErrDuplicateISBN
	}
	r.books[b.ID] = *b
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[id]; !ok {
		return ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}
