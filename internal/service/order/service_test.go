package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-api/internal/domain"
	"marketplace-api/internal/repository/order/ordertest"
)

const (
	alice int64 = 1
	bob   int64 = 2

	kite  int64 = 10
	yoyo  int64 = 11
	piano int64 = 12
)

var mymex = domain.Payment{ID: 1, CustomerID: alice, MerchantName: "MYMEX", AccountNumber: "222222222"}

type fixture struct {
	svc      *Service
	orders   *ordertest.Repo
	products *ordertest.Products
	payments *ordertest.Payments
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	products := ordertest.NewProducts(
		domain.Product{ID: kite, SellerID: bob, Name: "Kite", Price: decimal.RequireFromString("14.99")},
		domain.Product{ID: yoyo, SellerID: bob, Name: "Yoyo", Price: decimal.RequireFromString("2.50")},
		domain.Product{ID: piano, SellerID: bob, Name: "Piano", Price: decimal.RequireFromString("1000.00")},
	)
	deleted := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	payments := ordertest.NewPayments(
		mymex,
		domain.Payment{ID: 2, CustomerID: bob, MerchantName: "Visa", AccountNumber: "4111111111111111"},
		domain.Payment{ID: 3, CustomerID: alice, MerchantName: "Amex", AccountNumber: "378282246310005", DeletedAt: &deleted},
	)
	orders := ordertest.NewRepo(products)
	svc := New(orders, products, payments, nil)
	return fixture{svc: svc, orders: orders, products: products, payments: payments}
}

func TestAddToCart_OpensOrderOnFirstAdd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cart, err := f.svc.Cart(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, cart.ID)
	assert.Zero(t, cart.Size())

	require.NoError(t, f.svc.AddToCart(ctx, alice, kite))

	cart, err = f.svc.Cart(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cart.ID)
	assert.True(t, cart.Open())
	require.Equal(t, 1, cart.Size())
	assert.Equal(t, "Kite", cart.LineItems[0].Product.Name)
}

func TestAddToCart_SameProductTwiceYieldsTwoLineItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.svc.AddToCart(ctx, alice, kite))
	require.NoError(t, f.svc.AddToCart(ctx, alice, kite))
	require.NoError(t, f.svc.AddToCart(ctx, alice, yoyo))

	cart, err := f.svc.Cart(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Size())
	assert.Equal(t, "32.48", cart.TotalPrice().StringFixed(2))
	assert.Equal(t, 1, f.orders.OpenCount(alice))
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	f := newFixture(t)

	err := f.svc.AddToCart(context.Background(), alice, 999)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, f.orders.OpenCount(alice))
}

func TestAddToCart_ConcurrentAddsShareOneOpenOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.svc.AddToCart(ctx, alice, kite))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.orders.OpenCount(alice))
	cart, err := f.svc.Cart(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, n, cart.Size())
}

func TestAddToCart_CustomersHaveSeparateCarts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.svc.AddToCart(ctx, alice, kite))
	require.NoError(t, f.svc.AddToCart(ctx, bob, yoyo))

	aliceCart, err := f.svc.Cart(ctx, alice)
	require.NoError(t, err)
	bobCart, err := f.svc.Cart(ctx, bob)
	require.NoError(t, err)
	assert.NotEqual(t, aliceCart.ID, bobCart.ID)
	assert.Equal(t, 1, aliceCart.Size())
	assert.Equal(t, 1, bobCart.Size())
}

func TestRemoveFromCart_RemovesOldestSingleUnit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.svc.AddToCart(ctx, alice, kite))
	require.NoError(t, f.svc.AddToCart(ctx, alice, yoyo))
	require.NoError(t, f.svc.AddToCart(ctx, alice, kite))

	before, err := f.svc.Cart(ctx, alice)
	require.NoError(t, err)
	firstKite := before.LineItems[0].ID
	secondKite := before.LineItems[2].ID

	require.NoError(t, f.svc.RemoveFromCart(ctx, alice, kite))

	after, err := f.svc.Cart(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, 2, after.Size())
	assert.Equal(t, yoyo, after.LineItems[0].ProductID)
	assert.Equal(t, secondKite, after.LineItems[1].ID)
	assert.NotEqual(t, firstKite, after.LineItems[1].ID)
}

func TestRemoveFromCart_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.svc.RemoveFromCart(ctx, alice, kite)
	require.ErrorIs(t, err, domain.ErrNotFound, "no open order")

	require.NoError(t, f.svc.AddToCart(ctx, alice, yoyo))
	err = f.svc.RemoveFromCart(ctx, alice, kite)
	require.ErrorIs(t, err, domain.ErrNotFound, "product not in cart")

	cart, err := f.svc.Cart(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Size())
}

func TestRemoveFromCart_LastItemKeepsOrderOpen(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.svc.AddToCart(ctx, alice, kite))
	require.NoError(t, f.svc.RemoveFromCart(ctx, alice, kite))

	cart, err := f.svc.Cart(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cart.ID)
	assert.Zero(t, cart.Size())
	assert.True(t, cart.TotalPrice().IsZero())
}

func TestAttachPayment_ClosesOrderAndNextAddOpensNewOne(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.svc.AddToCart(ctx, alice, kite))
	require.NoError(t, f.svc.AttachPayment(ctx, alice, 1, 1))

	cart, err := f.svc.Cart(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, cart.ID, "closed order is no longer the cart")

	require.NoError(t, f.svc.AddToCart(ctx, alice, yoyo))
	cart, err = f.svc.Cart(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cart.ID)
	assert.Equal(t, 1, cart.Size())

	closed, err := f.svc.Order(ctx, alice, 1)
	require.NoError(t, err)
	assert.False(t, closed.Order.Open())
	assert.Equal(t, 1, closed.Order.Size())
}

func TestAttachPayment_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.svc.AddToCart(ctx, alice, kite))

	tests := []struct {
		name      string
		customer  int64
		order     int64
		payment   int64
		wantError error
	}{
		{name: "missing order", customer: alice, order: 42, payment: 1, wantError: domain.ErrNotFound},
		{name: "order of another customer", customer: bob, order: 1, payment: 2, wantError: domain.ErrPermission},
		{name: "missing payment", customer: alice, order: 1, payment: 42, wantError: domain.ErrNotFound},
		{name: "soft-deleted payment", customer: alice, order: 1, payment: 3, wantError: domain.ErrNotFound},
		{name: "payment of another customer", customer: alice, order: 1, payment: 2, wantError: domain.ErrPermission},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.AttachPayment(ctx, tt.customer, tt.order, tt.payment)
			require.ErrorIs(t, err, tt.wantError)
		})
	}

	o, err := f.orders.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, o.Open(), "failed attempts leave the order open")
}

func TestAttachPayment_ClosedOrderCannotBeReopenedOrRepaid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.svc.AddToCart(ctx, alice, kite))
	require.NoError(t, f.svc.AttachPayment(ctx, alice, 1, 1))

	err := f.svc.AttachPayment(ctx, alice, 1, 1)
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestOrder_DetailResolvesSoftDeletedPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.svc.AddToCart(ctx, alice, piano))
	require.NoError(t, f.svc.AttachPayment(ctx, alice, 1, 1))

	pay := mymex
	now := time.Now()
	pay.DeletedAt = &now
	f.payments.Put(pay)

	detail, err := f.svc.Order(ctx, alice, 1)
	require.NoError(t, err)
	require.NotNil(t, detail.Payment)
	assert.Equal(t, "******222", detail.Payment.ObscuredNumber())
	assert.Equal(t, "1000.00", detail.Order.TotalPrice().StringFixed(2))
}

func TestOrder_OpenOrderHasNoPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.svc.AddToCart(ctx, alice, kite))

	detail, err := f.svc.Order(ctx, alice, 1)
	require.NoError(t, err)
	assert.Nil(t, detail.Payment)
	assert.True(t, detail.Order.Open())
}

func TestOrder_HiddenFromOtherCustomers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.svc.AddToCart(ctx, alice, kite))

	_, err := f.svc.Order(ctx, bob, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.Order(ctx, alice, 99)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTotalPrice_FollowsCurrentProductPrice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.svc.AddToCart(ctx, alice, kite))
	require.NoError(t, f.svc.AttachPayment(ctx, alice, 1, 1))

	p, err := f.products.GetByID(ctx, kite)
	require.NoError(t, err)
	p.Price = decimal.RequireFromString("20.00")
	f.products.Put(*p)

	detail, err := f.svc.Order(ctx, alice, 1)
	require.NoError(t, err)
	assert.Equal(t, "20.00", detail.Order.TotalPrice().StringFixed(2))
}

func TestOrders_History(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.svc.AddToCart(ctx, alice, kite))
	require.NoError(t, f.svc.AttachPayment(ctx, alice, 1, 1))
	require.NoError(t, f.svc.AddToCart(ctx, alice, yoyo))
	require.NoError(t, f.svc.AddToCart(ctx, alice, yoyo))
	require.NoError(t, f.svc.AddToCart(ctx, bob, kite))

	orders, err := f.svc.Orders(ctx, alice)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.False(t, orders[0].Open())
	assert.True(t, orders[1].Open())
	assert.Equal(t, 2, orders[1].Size())
}
