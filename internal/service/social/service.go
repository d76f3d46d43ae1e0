// Package social handles product likes and customer-to-customer product
// recommendations.
package social

import (
	"context"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"marketplace-api/internal/domain"
	socialrepo "marketplace-api/internal/repository/social"
)

type productRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)
}

type customerRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	ListByIDs(ctx context.Context, ids []int64) ([]domain.Customer, error)
}

type Service struct {
	repo      socialrepo.Repository
	products  productRepo
	customers customerRepo
}

func New(repo socialrepo.Repository, products productRepo, customers customerRepo) *Service {
	return &Service{repo: repo, products: products, customers: customers}
}

// Recommendation is a stored recommendation with its product and both
// customers resolved.
type Recommendation struct {
	ID          int64
	Product     domain.Product
	Customer    domain.Customer
	Recommender domain.Customer
}

// Like records that customerID likes productID. Liking twice is a no-op.
func (s *Service) Like(ctx context.Context, customerID, productID int64) error {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return errors.Wrapf(err, "product %d", productID)
	}
	return s.repo.Like(ctx, customerID, productID)
}

func (s *Service) Unlike(ctx context.Context, customerID, productID int64) error {
	return s.repo.Unlike(ctx, customerID, productID)
}

// Liked returns the products customerID likes.
func (s *Service) Liked(ctx context.Context, customerID int64) ([]domain.Product, error) {
	ids, err := s.repo.LikedProductIDs(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "list likes")
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return s.products.List(ctx, domain.ProductFilter{IDs: ids})
}

// Recommend records recommenderID recommending productID to customerID.
func (s *Service) Recommend(ctx context.Context, recommenderID, productID, customerID int64) (*Recommendation, error) {
	if customerID == recommenderID {
		return nil, errors.Wrap(domain.ErrInvalidRequest, "cannot recommend to yourself")
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, errors.Wrapf(err, "product %d", productID)
	}
	c, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, errors.Wrapf(err, "customer %d", customerID)
	}
	rec, err := s.repo.Recommend(ctx, domain.Recommendation{
		ProductID:     productID,
		CustomerID:    customerID,
		RecommenderID: recommenderID,
	})
	if err != nil {
		return nil, err
	}
	return &Recommendation{ID: rec.ID, Product: *p, Customer: *c, Recommender: domain.Customer{ID: recommenderID}}, nil
}

// Recommendations returns what customerID recommended to others and what
// others recommended to customerID.
func (s *Service) Recommendations(ctx context.Context, customerID int64) (recommends, recommendedBy []Recommendation, err error) {
	var by, to []domain.Recommendation
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		by, err = s.repo.RecommendationsBy(gctx, customerID)
		return err
	})
	g.Go(func() error {
		var err error
		to, err = s.repo.RecommendationsFor(gctx, customerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, errors.Wrap(err, "list recommendations")
	}

	all := append(append([]domain.Recommendation{}, by...), to...)
	products, customers, err := s.resolve(ctx, all)
	if err != nil {
		return nil, nil, err
	}
	build := func(recs []domain.Recommendation) []Recommendation {
		out := make([]Recommendation, 0, len(recs))
		for _, r := range recs {
			out = append(out, Recommendation{
				ID:          r.ID,
				Product:     products[r.ProductID],
				Customer:    customers[r.CustomerID],
				Recommender: customers[r.RecommenderID],
			})
		}
		return out
	}
	return build(by), build(to), nil
}

func (s *Service) resolve(ctx context.Context, recs []domain.Recommendation) (map[int64]domain.Product, map[int64]domain.Customer, error) {
	products := make(map[int64]domain.Product)
	customers := make(map[int64]domain.Customer)
	if len(recs) == 0 {
		return products, customers, nil
	}

	var productIDs, customerIDs []int64
	for _, r := range recs {
		productIDs = append(productIDs, r.ProductID)
		customerIDs = append(customerIDs, r.CustomerID, r.RecommenderID)
	}

	g, gctx := errgroup.WithContext(ctx)
	var (
		plist []domain.Product
		clist []domain.Customer
	)
	g.Go(func() error {
		var err error
		plist, err = s.products.List(gctx, domain.ProductFilter{IDs: productIDs})
		return err
	})
	g.Go(func() error {
		var err error
		clist, err = s.customers.ListByIDs(gctx, customerIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, errors.Wrap(err, "resolve recommendations")
	}
	for _, p := range plist {
		products[p.ID] = p
	}
	for _, c := range clist {
		customers[c.ID] = c
	}
	return products, customers, nil
}
