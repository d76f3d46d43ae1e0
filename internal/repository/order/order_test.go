//go:build integration

package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-api/internal/domain"
	"marketplace-api/internal/repository/repotest"
)

func TestPostgres_CartLifecycle(t *testing.T) {
	ctx := context.Background()
	pool := repotest.Pool(t)
	buyer := repotest.Customer(t, pool, "buyer")
	seller := repotest.Customer(t, pool, "seller")
	kite := repotest.Product(t, pool, seller, "Kite", "14.99")
	payment := repotest.Payment(t, pool, buyer, "222222222")
	repo := NewPostgres(pool, nil)

	var orderID int64
	err := repo.WithinCustomerTx(ctx, buyer, func(ctx context.Context, tx Tx) error {
		_, err := tx.OpenOrder(ctx, buyer)
		require.ErrorIs(t, err, domain.ErrNotFound)

		o, err := tx.Create(ctx, domain.NewOrder(buyer, time.Now()))
		if err != nil {
			return err
		}
		orderID = o.ID
		for i := 0; i < 2; i++ {
			if _, err := tx.AddLineItem(ctx, domain.LineItem{OrderID: o.ID, ProductID: kite, CreatedAt: time.Now()}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	open, err := repo.OpenOrder(ctx, buyer)
	require.NoError(t, err)
	assert.Equal(t, orderID, open.ID)

	items, err := repo.LineItems(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, items[orderID], 2)
	assert.Equal(t, "Kite", items[orderID][0].Product.Name)
	assert.Less(t, items[orderID][0].ID, items[orderID][1].ID)

	err = repo.WithinCustomerTx(ctx, buyer, func(ctx context.Context, tx Tx) error {
		li, err := tx.FirstLineItem(ctx, orderID, kite)
		if err != nil {
			return err
		}
		assert.Equal(t, items[orderID][0].ID, li.ID)
		if err := tx.DeleteLineItem(ctx, li.ID); err != nil {
			return err
		}
		return tx.SetPayment(ctx, orderID, payment)
	})
	require.NoError(t, err)

	_, err = repo.OpenOrder(ctx, buyer)
	require.ErrorIs(t, err, domain.ErrNotFound)

	closed, err := repo.ListByStatus(ctx, true)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	require.NotNil(t, closed[0].PaymentID)
	assert.Equal(t, payment, *closed[0].PaymentID)

	history, err := repo.ListByCustomer(ctx, buyer)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestPostgres_OneOpenOrderPerCustomer(t *testing.T) {
	ctx := context.Background()
	pool := repotest.Pool(t)
	buyer := repotest.Customer(t, pool, "buyer")
	repo := NewPostgres(pool, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.WithinCustomerTx(ctx, buyer, func(ctx context.Context, tx Tx) error {
				if _, err := tx.OpenOrder(ctx, buyer); err == nil {
					return nil
				}
				_, err := tx.Create(ctx, domain.NewOrder(buyer, time.Now()))
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	open, err := repo.ListByStatus(ctx, false)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}
