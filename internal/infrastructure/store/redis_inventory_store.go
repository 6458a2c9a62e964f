package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/example/inventory-api/internal/domain/inventory"
	"github.com/redis/go-redis/v9"
)

const (
	inventoryKeyPrefix = "inventory:"
	maxTxRetries       = 10
)

// ErrTxConflict is returned when a mutation keeps losing the optimistic
// transaction race.
var ErrTxConflict = errors.New("inventory changed concurrently, retries exhausted")

// RedisInventoryStore keeps each inventory as a JSON array under
// inventory:<user_id>. Mutations run inside WATCH/MULTI so concurrent writers
// to the same user never lose an update.
type RedisInventoryStore struct {
	client *redis.Client
}

func NewRedisInventoryStore(client *redis.Client) *RedisInventoryStore {
	return &RedisInventoryStore{client: client}
}

func inventoryKey(userID int64) string {
	return inventoryKeyPrefix + strconv.FormatInt(userID, 10)
}

func loadItems(ctx context.Context, c redis.Cmdable, key string) ([]inventory.Item, error) {
	data, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, inventory.ErrInventoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	items := []inventory.Item{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return items, nil
}

func (s *RedisInventoryStore) Get(ctx context.Context, userID int64) ([]inventory.Item, error) {
	return loadItems(ctx, s.client, inventoryKey(userID))
}

// mutate applies fn to the stored items and writes the result back in one
// transaction. When create is set a missing inventory starts out empty.
func (s *RedisInventoryStore) mutate(ctx context.Context, userID int64, create bool, fn func([]inventory.Item) ([]inventory.Item, error)) error {
	key := inventoryKey(userID)

	txf := func(tx *redis.Tx) error {
		items, err := loadItems(ctx, tx, key)
		if errors.Is(err, inventory.ErrInventoryNotFound) && create {
			items, err = []inventory.Item{}, nil
		}
		if err != nil {
			return err
		}

		items, err = fn(items)
		if err != nil {
			return err
		}

		data, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrTxConflict
}

func (s *RedisInventoryStore) Add(ctx context.Context, userID int64, item inventory.Item) (inventory.Item, error) {
	err := s.mutate(ctx, userID, true, func(items []inventory.Item) ([]inventory.Item, error) {
		return inventory.AppendItem(items, item)
	})
	if err != nil {
		return inventory.Item{}, err
	}
	return item, nil
}

func (s *RedisInventoryStore) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (inventory.Item, error) {
	var updated inventory.Item
	err := s.mutate(ctx, userID, false, func(items []inventory.Item) ([]inventory.Item, error) {
		var err error
		updated, err = inventory.SetQuantity(items, itemID, quantity)
		return items, err
	})
	if err != nil {
		return inventory.Item{}, err
	}
	return updated, nil
}

func (s *RedisInventoryStore) Delete(ctx context.Context, userID, itemID int64) error {
	return s.mutate(ctx, userID, false, func(items []inventory.Item) ([]inventory.Item, error) {
		return inventory.RemoveItem(items, itemID)
	})
}
