package inventory

import "errors"

var (
	ErrInventoryNotFound = errors.New("inventory not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrDuplicateItem     = errors.New("item with this id already exists in the inventory")
)

// Item is one stock record in a user's inventory. Only Quantity changes after
// the item is created.
type Item struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	Capacity    int     `json:"capacity"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

// The helpers below implement the list semantics shared by every Store:
// insertion order is kept and ids are unique within one inventory.

func indexOf(items []Item, itemID int64) int {
	for i := range items {
		if items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// AppendItem returns items with item added at the end.
func AppendItem(items []Item, item Item) ([]Item, error) {
	if indexOf(items, item.ID) >= 0 {
		return items, ErrDuplicateItem
	}
	return append(items, item), nil
}

// SetQuantity updates the quantity of the item with itemID in place.
func SetQuantity(items []Item, itemID int64, quantity int) (Item, error) {
	i := indexOf(items, itemID)
	if i < 0 {
		return Item{}, ErrItemNotFound
	}
	items[i].Quantity = quantity
	return items[i], nil
}

// RemoveItem returns items without the item with itemID.
func RemoveItem(items []Item, itemID int64) ([]Item, error) {
	i := indexOf(items, itemID)
	if i < 0 {
		return items, ErrItemNotFound
	}
	return append(items[:i], items[i+1:]...), nil
}

// CloneItems copies items into a new non-nil slice.
func CloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
