package payment

import (
	"context"

	"marketplace-api/internal/domain"
)

// Lookup controls whether soft-deleted payments are visible.
type Lookup int

const (
	// ActiveOnly hides soft-deleted payments. It is the default for every
	// customer-facing query.
	ActiveOnly Lookup = iota
	// IncludeDeleted also resolves soft-deleted payments, for historical
	// lookups from closed orders.
	IncludeDeleted
)

type Repository interface {
	Create(ctx context.Context, p domain.Payment) (*domain.Payment, error)
	GetByID(ctx context.Context, id int64, lookup Lookup) (*domain.Payment, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Payment, error)
	SoftDelete(ctx context.Context, id int64) error
}
