package domain

import "time"

// Store is a seller's storefront. A customer owns at most one store.
type Store struct {
	ID          int64     `json:"id"`
	SellerID    int64     `json:"seller_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Like links a customer to a product they liked.
type Like struct {
	CustomerID int64
	ProductID  int64
	CreatedAt  time.Time
}

// Favorite links a customer to a seller they follow.
type Favorite struct {
	CustomerID int64
	SellerID   int64
	CreatedAt  time.Time
}
