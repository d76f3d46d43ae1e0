package order

import (
	"context"

	"marketplace-api/internal/domain"
)

// Tx exposes the order mutations that run inside one customer's transaction.
// Orders returned by Tx carry no line items.
type Tx interface {
	// OpenOrder returns the customer's newest open order or domain.ErrNotFound.
	OpenOrder(ctx context.Context, customerID int64) (*domain.Order, error)
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	// GetByID locks the order row until the transaction ends.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	SetPayment(ctx context.Context, orderID, paymentID int64) error

	AddLineItem(ctx context.Context, li domain.LineItem) (*domain.LineItem, error)
	// FirstLineItem returns the oldest line item for productID in the order.
	FirstLineItem(ctx context.Context, orderID, productID int64) (*domain.LineItem, error)
	DeleteLineItem(ctx context.Context, id int64) error
}

// Repository reads orders and runs serialized per-customer mutations.
// Order headers are returned without line items; LineItems resolves them.
type Repository interface {
	// WithinCustomerTx runs fn in a transaction holding the customer's lock.
	// The transaction commits when fn returns nil.
	WithinCustomerTx(ctx context.Context, customerID int64, fn func(ctx context.Context, tx Tx) error) error

	OpenOrder(ctx context.Context, customerID int64) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error)
	ListByStatus(ctx context.Context, closed bool) ([]domain.Order, error)

	// LineItems returns the line items of every given order keyed by order id,
	// each with its product resolved and in insertion order.
	LineItems(ctx context.Context, orderIDs ...int64) (map[int64][]domain.LineItem, error)
}
