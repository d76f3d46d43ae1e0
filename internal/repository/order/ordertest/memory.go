// Package ordertest provides in-memory order, product and payment
// repositories for tests.
package ordertest

import (
	"context"
	"sort"
	"sync"

	"marketplace-api/internal/domain"
	orderrepo "marketplace-api/internal/repository/order"
	paymentrepo "marketplace-api/internal/repository/payment"
)

// Repo is an in-memory order repository. Customer transactions are
// serialized with one mutex per customer; writes are not rolled back on error.
type Repo struct {
	mu        sync.Mutex
	locks     map[int64]*sync.Mutex
	orders    map[int64]domain.Order
	lineItems map[int64]domain.LineItem
	products  *Products
	nextOrder int64
	nextItem  int64
}

func NewRepo(products *Products) *Repo {
	return &Repo{
		locks:     make(map[int64]*sync.Mutex),
		orders:    make(map[int64]domain.Order),
		lineItems: make(map[int64]domain.LineItem),
		products:  products,
	}
}

func (r *Repo) customerLock(id int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	return l
}

var _ orderrepo.Repository = (*Repo)(nil)

func (r *Repo) WithinCustomerTx(ctx context.Context, customerID int64, fn func(ctx context.Context, tx orderrepo.Tx) error) error {
	l := r.customerLock(customerID)
	l.Lock()
	defer l.Unlock()
	return fn(ctx, memTx{r})
}

func (r *Repo) OpenOrder(_ context.Context, customerID int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.openLocked(customerID)
}

func (r *Repo) openLocked(customerID int64) (*domain.Order, error) {
	var found *domain.Order
	for _, o := range r.orders {
		if o.CustomerID != customerID || !o.Open() {
			continue
		}
		if found == nil || o.CreatedAt.After(found.CreatedAt) || (o.CreatedAt.Equal(found.CreatedAt) && o.ID > found.ID) {
			clone := o
			found = &clone
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	return found, nil
}

func (r *Repo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (r *Repo) ListByCustomer(_ context.Context, customerID int64) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool { return o.CustomerID == customerID }), nil
}

func (r *Repo) ListByStatus(_ context.Context, closed bool) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool { return o.Open() != closed }), nil
}

func (r *Repo) filter(keep func(domain.Order) bool) []domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Repo) LineItems(ctx context.Context, orderIDs ...int64) (map[int64][]domain.LineItem, error) {
	r.mu.Lock()
	wanted := make(map[int64]bool, len(orderIDs))
	for _, id := range orderIDs {
		wanted[id] = true
	}
	var items []domain.LineItem
	for _, li := range r.lineItems {
		if wanted[li.OrderID] {
			items = append(items, li)
		}
	}
	r.mu.Unlock()

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	out := make(map[int64][]domain.LineItem, len(orderIDs))
	for _, li := range items {
		p, err := r.products.GetByID(ctx, li.ProductID)
		if err != nil {
			return nil, err
		}
		li.Product = *p
		out[li.OrderID] = append(out[li.OrderID], li)
	}
	return out, nil
}

// OpenCount is the number of open orders of the customer.
func (r *Repo) OpenCount(customerID int64) int {
	n := 0
	for _, o := range r.filter(func(o domain.Order) bool { return o.CustomerID == customerID }) {
		if o.Open() {
			n++
		}
	}
	return n
}

type memTx struct {
	r *Repo
}

func (t memTx) OpenOrder(ctx context.Context, customerID int64) (*domain.Order, error) {
	return t.r.OpenOrder(ctx, customerID)
}

func (t memTx) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	t.r.mu.Lock()
	defer t.r.mu.Unlock()
	if o.PaymentID == nil {
		if _, err := t.r.openLocked(o.CustomerID); err == nil {
			return nil, domain.ErrConflict
		}
	}
	t.r.nextOrder++
	o.ID = t.r.nextOrder
	o.LineItems = nil
	t.r.orders[o.ID] = o
	return &o, nil
}

func (t memTx) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return t.r.GetByID(ctx, id)
}

func (t memTx) SetPayment(_ context.Context, orderID, paymentID int64) error {
	t.r.mu.Lock()
	defer t.r.mu.Unlock()
	o, ok := t.r.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	o.PaymentID = &paymentID
	t.r.orders[orderID] = o
	return nil
}

func (t memTx) AddLineItem(_ context.Context, li domain.LineItem) (*domain.LineItem, error) {
	t.r.mu.Lock()
	defer t.r.mu.Unlock()
	if _, ok := t.r.orders[li.OrderID]; !ok {
		return nil, domain.ErrNotFound
	}
	t.r.nextItem++
	li.ID = t.r.nextItem
	t.r.lineItems[li.ID] = li
	return &li, nil
}

func (t memTx) FirstLineItem(_ context.Context, orderID, productID int64) (*domain.LineItem, error) {
	t.r.mu.Lock()
	defer t.r.mu.Unlock()
	var found *domain.LineItem
	for _, li := range t.r.lineItems {
		if li.OrderID == orderID && li.ProductID == productID && (found == nil || li.ID < found.ID) {
			clone := li
			found = &clone
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	return found, nil
}

func (t memTx) DeleteLineItem(_ context.Context, id int64) error {
	t.r.mu.Lock()
	defer t.r.mu.Unlock()
	if _, ok := t.r.lineItems[id]; !ok {
		return domain.ErrNotFound
	}
	delete(t.r.lineItems, id)
	return nil
}

// Products is an in-memory product lookup.
type Products struct {
	mu    sync.Mutex
	items map[int64]domain.Product
}

func NewProducts(products ...domain.Product) *Products {
	p := &Products{items: make(map[int64]domain.Product)}
	for _, prod := range products {
		p.items[prod.ID] = prod
	}
	return p
}

func (p *Products) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prod, ok := p.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &prod, nil
}

// Put inserts or replaces a product.
func (p *Products) Put(prod domain.Product) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items[prod.ID] = prod
}

// Payments is an in-memory payment lookup.
type Payments struct {
	mu    sync.Mutex
	items map[int64]domain.Payment
}

func NewPayments(payments ...domain.Payment) *Payments {
	p := &Payments{items: make(map[int64]domain.Payment)}
	for _, pay := range payments {
		p.items[pay.ID] = pay
	}
	return p
}

// Put inserts or replaces a payment.
func (p *Payments) Put(pay domain.Payment) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items[pay.ID] = pay
}

func (p *Payments) GetByID(_ context.Context, id int64, lookup paymentrepo.Lookup) (*domain.Payment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pay, ok := p.items[id]
	if !ok || (lookup == paymentrepo.ActiveOnly && pay.Deleted()) {
		return nil, domain.ErrNotFound
	}
	return &pay, nil
}
