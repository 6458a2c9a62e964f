package user

import (
	"context"
	"strings"
	"sync"
)

// Repository persists users. Create must reject a user whose id, username
// or email is already taken and leave the existing record unchanged.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// MemoryRepository is a Repository backed by process memory.
type MemoryRepository struct {
	mu         sync.RWMutex
	byID       map[int64]*User
	byUsername map[string]*User
	byEmail    map[string]*User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[int64]*User),
		byUsername: make(map[string]*User),
		byEmail:    make(map[string]*User),
	}
}

func (r *MemoryRepository) Create(_ context.Context, u *User) error {
	email := strings.ToLower(u.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[u.Username]; ok {
		return ErrUsernameTaken
	}
	if _, ok := r.byID[u.ID]; ok {
		return ErrUserIDTaken
	}
	if _, ok := r.byEmail[email]; ok {
		return ErrEmailTaken
	}

	stored := *u
	r.byID[u.ID] = &stored
	r.byUsername[u.Username] = &stored
	r.byEmail[email] = &stored
	return nil
}

func (r *MemoryRepository) GetByUsername(_ context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byUsername[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	found := *u
	return &found, nil
}
