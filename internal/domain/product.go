package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `json:"id"`
	SellerID    int64           `json:"seller_id"`
	CategoryID  *int64          `json:"category_id,omitempty"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description,omitempty"`
	Location    string          `json:"location,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ProductFilter narrows product listings. Zero values mean "no constraint".
type ProductFilter struct {
	IDs        []int64
	SellerID   int64
	CategoryID int64
	Location   string
	MinPrice   *decimal.Decimal
	BelowPrice *decimal.Decimal
	Limit      int
}
