package inventory

import (
	"context"
	"sync"
)

// Store owns every user's inventory.
type Store interface {
	// Get returns a copy of the user's items in insertion order, or
	// ErrInventoryNotFound if nothing was ever added for the user.
	Get(ctx context.Context, userID int64) ([]Item, error)

	// Add appends item, creating the inventory if needed.
	Add(ctx context.Context, userID int64, item Item) (Item, error)

	// UpdateQuantity sets the quantity of one item and returns the result.
	UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (Item, error)

	// Delete removes one item. An inventory emptied this way still exists.
	Delete(ctx context.Context, userID, itemID int64) error
}

type userInventory struct {
	mu    sync.Mutex
	items []Item
}

// MemoryStore keeps inventories in process memory. The map is guarded by an
// RWMutex and each user's inventory has its own mutex, so operations on
// different users never wait on each other.
type MemoryStore struct {
	mu          sync.RWMutex
	inventories map[int64]*userInventory
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		inventories: make(map[int64]*userInventory),
	}
}

func (s *MemoryStore) lookup(userID int64) (*userInventory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.inventories[userID]
	return inv, ok
}

func (s *MemoryStore) lookupOrCreate(userID int64) *userInventory {
	if inv, ok := s.lookup(userID); ok {
		return inv
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.inventories[userID]
	if !ok {
		inv = &userInventory{items: []Item{}}
		s.inventories[userID] = inv
	}
	return inv
}

func (s *MemoryStore) Get(_ context.Context, userID int64) ([]Item, error) {
	inv, ok := s.lookup(userID)
	if !ok {
		return nil, ErrInventoryNotFound
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	return CloneItems(inv.items), nil
}

func (s *MemoryStore) Add(_ context.Context, userID int64, item Item) (Item, error) {
	inv := s.lookupOrCreate(userID)

	inv.mu.Lock()
	defer inv.mu.Unlock()

	items, err := AppendItem(inv.items, item)
	if err != nil {
		return Item{}, err
	}
	inv.items = items
	return item, nil
}

func (s *MemoryStore) UpdateQuantity(_ context.Context, userID, itemID int64, quantity int) (Item, error) {
	inv, ok := s.lookup(userID)
	if !ok {
		return Item{}, ErrInventoryNotFound
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	return SetQuantity(inv.items, itemID, quantity)
}

func (s *MemoryStore) Delete(_ context.Context, userID, itemID int64) error {
	inv, ok := s.lookup(userID)
	if !ok {
		return ErrInventoryNotFound
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	items, err := RemoveItem(inv.items, itemID)
	if err != nil {
		return err
	}
	inv.items = items
	return nil
}
