package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is either the customer's open cart (PaymentID == nil) or a closed
// purchase. The transition is one-way: attaching a payment closes the order.
type Order struct {
	ID         int64
	CustomerID int64
	PaymentID  *int64
	CreatedAt  time.Time
	LineItems  []LineItem
}

// NewOrder builds an open order for the customer created at now.
func NewOrder(customerID int64, now time.Time) Order {
	return Order{
		CustomerID: customerID,
		CreatedAt:  now.UTC(),
	}
}

// Open reports whether the order is still a cart.
func (o Order) Open() bool {
	return o.PaymentID == nil
}

// Size is the number of line items.
func (o Order) Size() int {
	return len(o.LineItems)
}

// TotalPrice sums the current price of every line item's product. It is
// recomputed on every call, so product price edits are reflected in closed
// orders as well.
func (o Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, li := range o.LineItems {
		total = total.Add(li.Product.Price)
	}
	return total
}

// LineItem is one unit of a product inside an order. Adding the same product
// twice yields two line items.
type LineItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Product   Product
	CreatedAt time.Time
}
