package event

// UserRegistered is emitted when a new user is registered
type UserRegistered struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserLoggedIn is emitted when a token is issued
type UserLoggedIn struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// ItemAdded is emitted when an item is appended to an inventory
type ItemAdded struct {
	ItemID   int64   `json:"item_id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Capacity int     `json:"capacity"`
	Price    float64 `json:"price"`
}

// ItemQuantityUpdated is emitted when an item's quantity changes
type ItemQuantityUpdated struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// ItemDeleted is emitted when an item is removed from an inventory
type ItemDeleted struct {
	ItemID int64 `json:"item_id"`
}
