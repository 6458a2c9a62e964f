package book

import (
	"context"
	"errors"
)

// Service validates input before it reaches the repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, in Input) (*Book, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	b := in.book(0)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Book, error) {
	return s.repo.Get(ctx, id)
}

// Update replaces every field of the book.
func (s *Service) Update(ctx context.Context, id int64, in Input) (*Book, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	b := in.book(id)
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Seed creates every book in inputs, skipping ISBNs that already exist. It
// returns how many books were created.
func (s *Service) Seed(ctx context.Context, inputs []Input) (int, error) {
	created := 0
	for _, in := range inputs {
		_, err := s.Create(ctx, in)
		if errors.Is(err, ErrDuplicateISBN) {
			continue
		}
		if err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
