package category

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"marketplace-api/internal/domain"
	"marketplace-api/internal/repository/category"
)

const maxNameLen = 55

type Service struct {
	repo category.Repository
}

func New(repo category.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return s.repo.GetByID(ctx, id)
}

// Create returns the category with the given name, creating it if needed.
func (s *Service) Create(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLen {
		return nil, errors.Wrapf(domain.ErrInvalidRequest, "category name must be 1-%d characters", maxNameLen)
	}
	return s.repo.Upsert(ctx, name)
}
