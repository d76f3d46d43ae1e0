package product

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"marketplace-api/internal/domain"
	productrepo "marketplace-api/internal/repository/product"
)

const (
	maxNameLen     = 50
	maxLocationLen = 50
	maxListLimit   = 100
)

// maxPrice is the largest price a NUMERIC(9,2) column holds.
var maxPrice = decimal.RequireFromString("9999999.99")

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Input is the writable part of a product.
type Input struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	CategoryID  *int64          `json:"category_id"`
}

func (s *Service) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	if f.Limit <= 0 || f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Create lists a new product sold by sellerID.
func (s *Service) Create(ctx context.Context, sellerID int64, in Input) (*domain.Product, error) {
	p, err := in.product()
	if err != nil {
		return nil, err
	}
	p.SellerID = sellerID
	return s.repo.Create(ctx, p)
}

// Update replaces the writable fields of a product owned by sellerID.
func (s *Service) Update(ctx context.Context, sellerID, id int64, in Input) (*domain.Product, error) {
	if _, err := s.owned(ctx, sellerID, id); err != nil {
		return nil, err
	}
	p, err := in.product()
	if err != nil {
		return nil, err
	}
	p.ID = id
	p.SellerID = sellerID
	return s.repo.Update(ctx, p)
}

// Delete removes a product owned by sellerID. Products that are part of an
// order cannot be deleted.
func (s *Service) Delete(ctx context.Context, sellerID, id int64) error {
	if _, err := s.owned(ctx, sellerID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) owned(ctx context.Context, sellerID, id int64) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "product %d", id)
	}
	if p.SellerID != sellerID {
		return nil, errors.Wrapf(domain.ErrPermission, "product %d", id)
	}
	return p, nil
}

func (in Input) product() (domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "" || len(name) > maxNameLen:
		return domain.Product{}, errors.Wrapf(domain.ErrInvalidRequest, "name must be 1-%d characters", maxNameLen)
	case in.Price.IsNegative() || in.Price.GreaterThan(maxPrice):
		return domain.Product{}, errors.Wrapf(domain.ErrInvalidRequest, "price must be between 0 and %s", maxPrice)
	case in.Quantity < 0:
		return domain.Product{}, errors.Wrap(domain.ErrInvalidRequest, "quantity must not be negative")
	case len(in.Location) > maxLocationLen:
		return domain.Product{}, errors.Wrapf(domain.ErrInvalidRequest, "location must be at most %d characters", maxLocationLen)
	}
	return domain.Product{
		CategoryID:  in.CategoryID,
		Name:        name,
		Price:       in.Price.Round(2),
		Quantity:    in.Quantity,
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
	}, nil
}
