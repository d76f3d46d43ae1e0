package category

import (
	"context"

	"marketplace-api/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	Upsert(ctx context.Context, name string) (*domain.Category, error)
}
