package customer

import (
	"context"

	"marketplace-api/internal/domain"
)

// Repository persists and fetches customers.
type Repository interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	GetByUsername(ctx context.Context, username string) (*domain.Customer, error)
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	ListByIDs(ctx context.Context, ids []int64) ([]domain.Customer, error)
}
