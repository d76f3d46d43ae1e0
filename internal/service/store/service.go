// Package store manages seller storefronts and the customers following them.
package store

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"marketplace-api/internal/domain"
	storerepo "marketplace-api/internal/repository/store"
)

const maxFieldLen = 155

type productLister interface {
	List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)
}

type favoriteRepo interface {
	Favorite(ctx context.Context, customerID, sellerID int64) error
	Unfavorite(ctx context.Context, customerID, sellerID int64) error
	FavoriteSellerIDs(ctx context.Context, customerID int64) ([]int64, error)
}

type Service struct {
	repo      storerepo.Repository
	products  productLister
	favorites favoriteRepo
}

func New(repo storerepo.Repository, products productLister, favorites favoriteRepo) *Service {
	return &Service{repo: repo, products: products, favorites: favorites}
}

// View is a store as seen by one customer.
type View struct {
	domain.Store
	IsFavorite bool
	Products   []domain.Product
}

// Input is the writable part of a store.
type Input struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (in Input) validate() (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" || len(in.Name) > maxFieldLen {
		return in, errors.Wrapf(domain.ErrInvalidRequest, "name must be 1-%d characters", maxFieldLen)
	}
	if len(in.Description) > maxFieldLen {
		return in, errors.Wrapf(domain.ErrInvalidRequest, "description must be at most %d characters", maxFieldLen)
	}
	return in, nil
}

// Create opens the seller's store. A seller owns at most one store.
func (s *Service) Create(ctx context.Context, sellerID int64, in Input) (*domain.Store, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, domain.Store{SellerID: sellerID, Name: in.Name, Description: in.Description})
}

// Update changes a store; only its seller may do so.
func (s *Service) Update(ctx context.Context, sellerID, id int64, in Input) (*domain.Store, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "store %d", id)
	}
	if st.SellerID != sellerID {
		return nil, errors.Wrapf(domain.ErrPermission, "store %d", id)
	}
	st.Name, st.Description = in.Name, in.Description
	return s.repo.Update(ctx, *st)
}

// Get returns the store with its products and whether viewerID follows it.
func (s *Service) Get(ctx context.Context, viewerID, id int64) (*View, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "store %d", id)
	}
	favs, err := s.favoriteSet(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx, domain.ProductFilter{SellerID: st.SellerID})
	if err != nil {
		return nil, errors.Wrap(err, "list store products")
	}
	return &View{Store: *st, IsFavorite: favs[st.SellerID], Products: products}, nil
}

// List returns every store annotated for viewerID.
func (s *Service) List(ctx context.Context, viewerID int64) ([]View, error) {
	stores, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, viewerID, stores)
}

// Favorites returns the stores of the sellers viewerID follows.
func (s *Service) Favorites(ctx context.Context, viewerID int64) ([]View, error) {
	ids, err := s.favorites.FavoriteSellerIDs(ctx, viewerID)
	if err != nil {
		return nil, errors.Wrap(err, "list favorites")
	}
	stores, err := s.repo.ListBySellers(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, viewerID, stores)
}

// Favorite makes customerID follow the seller of store id.
func (s *Service) Favorite(ctx context.Context, customerID, id int64) error {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "store %d", id)
	}
	if st.SellerID == customerID {
		return errors.Wrap(domain.ErrInvalidRequest, "cannot favorite your own store")
	}
	return s.favorites.Favorite(ctx, customerID, st.SellerID)
}

func (s *Service) Unfavorite(ctx context.Context, customerID, id int64) error {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "store %d", id)
	}
	return s.favorites.Unfavorite(ctx, customerID, st.SellerID)
}

func (s *Service) views(ctx context.Context, viewerID int64, stores []domain.Store) ([]View, error) {
	favs, err := s.favoriteSet(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(stores))
	for _, st := range stores {
		out = append(out, View{Store: st, IsFavorite: favs[st.SellerID]})
	}
	return out, nil
}

func (s *Service) favoriteSet(ctx context.Context, viewerID int64) (map[int64]bool, error) {
	ids, err := s.favorites.FavoriteSellerIDs(ctx, viewerID)
	if err != nil {
		return nil, errors.Wrap(err, "list favorites")
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
