// Package order implements the cart and order lifecycle: one open order per
// customer, line items added and removed one unit at a time, and closing an
// order by attaching a payment.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"marketplace-api/internal/domain"
	"marketplace-api/internal/logger"
	orderrepo "marketplace-api/internal/repository/order"
	paymentrepo "marketplace-api/internal/repository/payment"
)

type productRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

type paymentRepo interface {
	GetByID(ctx context.Context, id int64, lookup paymentrepo.Lookup) (*domain.Payment, error)
}

// Service owns every order mutation. Mutations for one customer are
// serialized through the repository's customer transaction.
type Service struct {
	orders   orderrepo.Repository
	products productRepo
	payments paymentRepo
	now      func() time.Time
	logger   *zap.Logger
}

func New(orders orderrepo.Repository, products productRepo, payments paymentRepo, lg *zap.Logger) *Service {
	return &Service{
		orders:   orders,
		products: products,
		payments: payments,
		now:      time.Now,
		logger:   logger.OrNop(lg).Named("order_service"),
	}
}

// Detail is a single order with its line items and the payment that closed
// it, if any. Payment is resolved even when it was soft-deleted afterwards.
type Detail struct {
	Order   domain.Order
	Payment *domain.Payment
}

// AddToCart appends one unit of productID to the customer's open order,
// opening a new order when none exists.
func (s *Service) AddToCart(ctx context.Context, customerID, productID int64) error {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return errors.Wrapf(err, "product %d", productID)
	}

	err := s.orders.WithinCustomerTx(ctx, customerID, func(ctx context.Context, tx orderrepo.Tx) error {
		open, err := tx.OpenOrder(ctx, customerID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			open, err = tx.Create(ctx, domain.NewOrder(customerID, s.now()))
			if err != nil {
				return errors.Wrap(err, "open order")
			}
			s.logger.Info("order opened", zap.Int64("order_id", open.ID), zap.Int64("customer_id", customerID))
		case err != nil:
			return errors.Wrap(err, "find open order")
		}

		if _, err := tx.AddLineItem(ctx, domain.LineItem{
			OrderID:   open.ID,
			ProductID: productID,
			CreatedAt: s.now().UTC(),
		}); err != nil {
			return errors.Wrap(err, "add line item")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Debug("added to cart", zap.Int64("customer_id", customerID), zap.Int64("product_id", productID))
	return nil
}

// RemoveFromCart deletes the oldest line item for productID from the
// customer's open order. Other units of the same product stay in the cart.
func (s *Service) RemoveFromCart(ctx context.Context, customerID, productID int64) error {
	return s.orders.WithinCustomerTx(ctx, customerID, func(ctx context.Context, tx orderrepo.Tx) error {
		open, err := tx.OpenOrder(ctx, customerID)
		if err != nil {
			return errors.Wrap(err, "find open order")
		}
		li, err := tx.FirstLineItem(ctx, open.ID, productID)
		if err != nil {
			return errors.Wrapf(err, "product %d not in cart", productID)
		}
		if err := tx.DeleteLineItem(ctx, li.ID); err != nil {
			return errors.Wrap(err, "delete line item")
		}
		return nil
	})
}

// Cart returns the customer's open order with resolved line items. When the
// customer has no open order an empty order with zero ID is returned; no
// order is created.
func (s *Service) Cart(ctx context.Context, customerID int64) (*domain.Order, error) {
	open, err := s.orders.OpenOrder(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.Order{CustomerID: customerID}, nil
		}
		return nil, errors.Wrap(err, "find open order")
	}
	items, err := s.orders.LineItems(ctx, open.ID)
	if err != nil {
		return nil, err
	}
	open.LineItems = items[open.ID]
	return open, nil
}

// AttachPayment closes the order by binding it to one of the customer's
// active payments.
func (s *Service) AttachPayment(ctx context.Context, customerID, orderID, paymentID int64) error {
	err := s.orders.WithinCustomerTx(ctx, customerID, func(ctx context.Context, tx orderrepo.Tx) error {
		o, err := tx.GetByID(ctx, orderID)
		if err != nil {
			return errors.Wrapf(err, "order %d", orderID)
		}
		if o.CustomerID != customerID {
			return errors.Wrapf(domain.ErrPermission, "order %d", orderID)
		}
		if !o.Open() {
			return errors.Wrapf(domain.ErrInvalidRequest, "order %d is already closed", orderID)
		}

		p, err := s.payments.GetByID(ctx, paymentID, paymentrepo.ActiveOnly)
		if err != nil {
			return errors.Wrapf(err, "payment %d", paymentID)
		}
		if p.CustomerID != customerID {
			return errors.Wrapf(domain.ErrPermission, "payment %d", paymentID)
		}
		if err := tx.SetPayment(ctx, orderID, paymentID); err != nil {
			return errors.Wrap(err, "set payment")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("order closed",
		zap.Int64("order_id", orderID),
		zap.Int64("customer_id", customerID),
		zap.Int64("payment_id", paymentID),
	)
	return nil
}

// Order returns one of the customer's orders. Orders of other customers are
// reported as not found.
func (s *Service) Order(ctx context.Context, customerID, orderID int64) (*Detail, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrapf(err, "order %d", orderID)
	}
	if o.CustomerID != customerID {
		return nil, errors.Wrapf(domain.ErrNotFound, "order %d", orderID)
	}

	detail := Detail{Order: *o}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.orders.LineItems(gctx, o.ID)
		if err != nil {
			return err
		}
		detail.Order.LineItems = items[o.ID]
		return nil
	})
	if o.PaymentID != nil {
		g.Go(func() error {
			p, err := s.payments.GetByID(gctx, *o.PaymentID, paymentrepo.IncludeDeleted)
			if err != nil {
				return errors.Wrapf(err, "payment %d", *o.PaymentID)
			}
			detail.Payment = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Orders lists every order of the customer, oldest first, with line items.
func (s *Service) Orders(ctx context.Context, customerID int64) ([]domain.Order, error) {
	orders, err := s.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	if err := WithLineItems(ctx, s.orders, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

type lineItemLoader interface {
	LineItems(ctx context.Context, orderIDs ...int64) (map[int64][]domain.LineItem, error)
}

// WithLineItems resolves the line items of every order in place.
func WithLineItems(ctx context.Context, repo lineItemLoader, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	items, err := repo.LineItems(ctx, ids...)
	if err != nil {
		return errors.Wrap(err, "load line items")
	}
	for i := range orders {
		orders[i].LineItems = items[orders[i].ID]
	}
	return nil
}
