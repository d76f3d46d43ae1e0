package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-api/internal/domain"
	paymentrepo "marketplace-api/internal/repository/payment"
)

type memoryRepo struct {
	items  map[int64]domain.Payment
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[int64]domain.Payment)}
}

func (r *memoryRepo) Create(_ context.Context, p domain.Payment) (*domain.Payment, error) {
	r.nextID++
	p.ID = r.nextID
	r.items[p.ID] = p
	return &p, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int64, lookup paymentrepo.Lookup) (*domain.Payment, error) {
	p, ok := r.items[id]
	if !ok || (lookup == paymentrepo.ActiveOnly && p.Deleted()) {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *memoryRepo) ListByCustomer(_ context.Context, customerID int64) ([]domain.Payment, error) {
	var out []domain.Payment
	for id := int64(1); id <= r.nextID; id++ {
		if p, ok := r.items[id]; ok && p.CustomerID == customerID && !p.Deleted() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryRepo) SoftDelete(_ context.Context, id int64) error {
	p, ok := r.items[id]
	if !ok || p.Deleted() {
		return domain.ErrNotFound
	}
	now := time.Now()
	p.DeletedAt = &now
	r.items[id] = p
	return nil
}

func TestCreate(t *testing.T) {
	svc := New(newMemoryRepo())

	p, err := svc.Create(context.Background(), 1, Input{
		MerchantName:   "MYMEX",
		AccountNumber:  "222222222",
		ExpirationDate: "2030-01-31",
	})
	require.NoError(t, err)
	assert.Equal(t, "******222", p.ObscuredNumber())
	require.NotNil(t, p.ExpirationDate)
	assert.Equal(t, time.January, p.ExpirationDate.Month())

	_, err = svc.Create(context.Background(), 1, Input{MerchantName: "MYMEX", AccountNumber: "1", ExpirationDate: "01/30"})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
	_, err = svc.Create(context.Background(), 1, Input{AccountNumber: "1"})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestDelete_SoftDeletesOwnPaymentOnly(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := New(repo)
	p, err := svc.Create(ctx, 1, Input{MerchantName: "MYMEX", AccountNumber: "222222222"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, 2, p.ID), domain.ErrPermission)
	require.NoError(t, svc.Delete(ctx, 1, p.ID))

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Get(ctx, 1, p.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	kept, err := repo.GetByID(ctx, p.ID, paymentrepo.IncludeDeleted)
	require.NoError(t, err)
	assert.True(t, kept.Deleted())
}
