package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-api/internal/domain"
)

type memoryStores struct {
	items []domain.Store
}

func (r *memoryStores) Create(_ context.Context, s domain.Store) (*domain.Store, error) {
	for _, existing := range r.items {
		if existing.SellerID == s.SellerID {
			return nil, domain.ErrAlreadyExists
		}
	}
	s.ID = int64(len(r.items) + 1)
	r.items = append(r.items, s)
	return &s, nil
}

func (r *memoryStores) GetByID(_ context.Context, id int64) (*domain.Store, error) {
	for _, s := range r.items {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryStores) GetBySeller(_ context.Context, sellerID int64) (*domain.Store, error) {
	for _, s := range r.items {
		if s.SellerID == sellerID {
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryStores) List(context.Context) ([]domain.Store, error) {
	return r.items, nil
}

func (r *memoryStores) ListBySellers(_ context.Context, sellerIDs []int64) ([]domain.Store, error) {
	var out []domain.Store
	for _, s := range r.items {
		for _, id := range sellerIDs {
			if s.SellerID == id {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

func (r *memoryStores) Update(_ context.Context, s domain.Store) (*domain.Store, error) {
	for i := range r.items {
		if r.items[i].ID == s.ID {
			r.items[i] = s
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubProducts []domain.Product

func (p stubProducts) List(_ context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	for _, prod := range p {
		if prod.SellerID == f.SellerID {
			out = append(out, prod)
		}
	}
	return out, nil
}

type memoryFavorites map[int64]map[int64]bool

func (m memoryFavorites) Favorite(_ context.Context, customerID, sellerID int64) error {
	if m[customerID] == nil {
		m[customerID] = map[int64]bool{}
	}
	m[customerID][sellerID] = true
	return nil
}

func (m memoryFavorites) Unfavorite(_ context.Context, customerID, sellerID int64) error {
	if !m[customerID][sellerID] {
		return domain.ErrNotFound
	}
	delete(m[customerID], sellerID)
	return nil
}

func (m memoryFavorites) FavoriteSellerIDs(_ context.Context, customerID int64) ([]int64, error) {
	var out []int64
	for id := range m[customerID] {
		out = append(out, id)
	}
	return out, nil
}

func newService() *Service {
	products := stubProducts{
		{ID: 1, SellerID: 10, Name: "Hammer"},
		{ID: 2, SellerID: 11, Name: "Socks"},
	}
	return New(&memoryStores{}, products, memoryFavorites{})
}

func TestCreate_OneStorePerSeller(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	st, err := svc.Create(ctx, 10, Input{Name: " Papa's General Store ", Description: "tools and socks"})
	require.NoError(t, err)
	assert.Equal(t, "Papa's General Store", st.Name)

	_, err = svc.Create(ctx, 10, Input{Name: "Second"})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = svc.Create(ctx, 11, Input{})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestUpdate_SellerOnly(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	st, err := svc.Create(ctx, 10, Input{Name: "Papa's"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, 11, st.ID, Input{Name: "Mine now"})
	require.ErrorIs(t, err, domain.ErrPermission)

	updated, err := svc.Update(ctx, 10, st.ID, Input{Name: "Papa's", Description: "tools"})
	require.NoError(t, err)
	assert.Equal(t, "tools", updated.Description)
}

func TestFavorites_AnnotateViewsPerViewer(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	papa, err := svc.Create(ctx, 10, Input{Name: "Papa's"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 11, Input{Name: "Sock Shack"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Favorite(ctx, 10, papa.ID), domain.ErrInvalidRequest)
	require.NoError(t, svc.Favorite(ctx, 12, papa.ID))

	view, err := svc.Get(ctx, 12, papa.ID)
	require.NoError(t, err)
	assert.True(t, view.IsFavorite)
	require.Len(t, view.Products, 1)
	assert.Equal(t, "Hammer", view.Products[0].Name)

	other, err := svc.Get(ctx, 13, papa.ID)
	require.NoError(t, err)
	assert.False(t, other.IsFavorite)

	favs, err := svc.Favorites(ctx, 12)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, papa.ID, favs[0].ID)

	all, err := svc.List(ctx, 12)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].IsFavorite)
	assert.False(t, all[1].IsFavorite)

	require.NoError(t, svc.Unfavorite(ctx, 12, papa.ID))
	require.ErrorIs(t, svc.Unfavorite(ctx, 12, papa.ID), domain.ErrNotFound)
}
