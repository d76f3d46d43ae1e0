// Package report builds read-only reports over orders and products.
package report

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"marketplace-api/internal/domain"
	ordersvc "marketplace-api/internal/service/order"
)

// Order status selectors.
const (
	StatusComplete   = "complete"
	StatusIncomplete = "incomplete"
)

// Product price band selectors.
const (
	BandExpensive   = "expensive"
	BandInexpensive = "inexpensive"
)

// Report is a titled, display-agnostic result set.
type Report[T any] struct {
	Title   string
	Heading string
	Content []T
}

type orderRepo interface {
	ListByStatus(ctx context.Context, closed bool) ([]domain.Order, error)
	LineItems(ctx context.Context, orderIDs ...int64) (map[int64][]domain.LineItem, error)
}

type productRepo interface {
	List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)
}

type Service struct {
	orders    orderRepo
	products  productRepo
	threshold decimal.Decimal
}

// New returns a report service. threshold splits products into the
// expensive (price >= threshold) and inexpensive bands.
func New(orders orderRepo, products productRepo, threshold decimal.Decimal) *Service {
	return &Service{orders: orders, products: products, threshold: threshold}
}

// CompletedOrders lists orders that have a payment attached.
func (s *Service) CompletedOrders(ctx context.Context) (*Report[domain.Order], error) {
	orders, err := s.ordersByStatus(ctx, true)
	if err != nil {
		return nil, err
	}
	return &Report[domain.Order]{
		Title:   "Completed Orders",
		Heading: "Orders that include a payment type",
		Content: orders,
	}, nil
}

// IncompleteOrders lists open orders.
func (s *Service) IncompleteOrders(ctx context.Context) (*Report[domain.Order], error) {
	orders, err := s.ordersByStatus(ctx, false)
	if err != nil {
		return nil, err
	}
	return &Report[domain.Order]{
		Title:   "Incomplete Orders",
		Heading: "Orders without a payment type",
		Content: orders,
	}, nil
}

// OrdersByStatus dispatches on the "complete" / "incomplete" selector.
func (s *Service) OrdersByStatus(ctx context.Context, status string) (*Report[domain.Order], error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusComplete:
		return s.CompletedOrders(ctx)
	case StatusIncomplete:
		return s.IncompleteOrders(ctx)
	default:
		return nil, errors.Wrapf(domain.ErrInvalidRequest, "unknown order status %q", status)
	}
}

// ProductsAtOrAbove lists products priced at threshold or more.
func (s *Service) ProductsAtOrAbove(ctx context.Context, threshold decimal.Decimal) (*Report[domain.Product], error) {
	products, err := s.products.List(ctx, domain.ProductFilter{MinPrice: &threshold})
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return &Report[domain.Product]{
		Title:   "Expensive Products",
		Heading: "Products priced at " + threshold.StringFixed(2) + " or more",
		Content: products,
	}, nil
}

// ProductsBelow lists products priced strictly below threshold.
func (s *Service) ProductsBelow(ctx context.Context, threshold decimal.Decimal) (*Report[domain.Product], error) {
	products, err := s.products.List(ctx, domain.ProductFilter{BelowPrice: &threshold})
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return &Report[domain.Product]{
		Title:   "Inexpensive Products",
		Heading: "Products priced below " + threshold.StringFixed(2),
		Content: products,
	}, nil
}

// ProductsByBand dispatches on the "expensive" / "inexpensive" selector using
// the configured threshold.
func (s *Service) ProductsByBand(ctx context.Context, band string) (*Report[domain.Product], error) {
	switch strings.ToLower(strings.TrimSpace(band)) {
	case BandExpensive:
		return s.ProductsAtOrAbove(ctx, s.threshold)
	case BandInexpensive:
		return s.ProductsBelow(ctx, s.threshold)
	default:
		return nil, errors.Wrapf(domain.ErrInvalidRequest, "unknown price band %q", band)
	}
}

func (s *Service) ordersByStatus(ctx context.Context, closed bool) ([]domain.Order, error) {
	orders, err := s.orders.ListByStatus(ctx, closed)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	if err := ordersvc.WithLineItems(ctx, s.orders, orders); err != nil {
		return nil, err
	}
	return orders, nil
}
