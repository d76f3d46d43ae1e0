package store

import (
	"context"

	"marketplace-api/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, s domain.Store) (*domain.Store, error)
	GetByID(ctx context.Context, id int64) (*domain.Store, error)
	GetBySeller(ctx context.Context, sellerID int64) (*domain.Store, error)
	List(ctx context.Context) ([]domain.Store, error)
	ListBySellers(ctx context.Context, sellerIDs []int64) ([]domain.Store, error)
	Update(ctx context.Context, s domain.Store) (*domain.Store, error)
}
