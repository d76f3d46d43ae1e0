package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-api/internal/domain"
)

type addToCartRequest struct {
	ProductID *int64 `json:"product_id"`
	// ID is accepted as an alias of ProductID.
	ID *int64 `json:"id"`
}

type completeOrderRequest struct {
	PaymentType *int64 `json:"payment_type"`
}

type orderResponse struct {
	ID          *int64             `json:"id"`
	CreatedDate string             `json:"created_date,omitempty"`
	Size        int                `json:"size"`
	TotalPrice  *string            `json:"total_price,omitempty"`
	PaymentType *paymentResponse   `json:"payment_type"`
	LineItems   []lineItemResponse `json:"lineitems"`
}

type lineItemResponse struct {
	ID      int64           `json:"id"`
	OrderID int64           `json:"order_id"`
	Product productResponse `json:"product"`
}

func toOrderResponse(o domain.Order, p *domain.Payment) orderResponse {
	items := make([]lineItemResponse, 0, len(o.LineItems))
	for _, li := range o.LineItems {
		items = append(items, lineItemResponse{ID: li.ID, OrderID: li.OrderID, Product: toProductResponse(li.Product)})
	}
	if o.ID == 0 {
		return orderResponse{LineItems: items}
	}

	id := o.ID
	total := o.TotalPrice().StringFixed(2)
	out := orderResponse{
		ID:          &id,
		CreatedDate: o.CreatedAt.Format(dateLayout),
		Size:        o.Size(),
		TotalPrice:  &total,
		LineItems:   items,
	}
	switch {
	case p != nil:
		pay := toPaymentResponse(*p)
		out.PaymentType = &pay
	case o.PaymentID != nil:
		out.PaymentType = &paymentResponse{ID: *o.PaymentID}
	}
	return out
}

func (h *handler) getCart(c *gin.Context) {
	cart, err := h.OrderSvc.Cart(c.Request.Context(), currentCustomer(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*cart, nil))
}

func (h *handler) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	productID := req.ProductID
	if productID == nil {
		productID = req.ID
	}
	if productID == nil || *productID <= 0 {
		badRequest(c, "product_id is required")
		return
	}
	if err := h.OrderSvc.AddToCart(c.Request.Context(), currentCustomer(c).ID, *productID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) removeFromCart(c *gin.Context) {
	productID, ok := idParam(c, "product_id")
	if !ok {
		return
	}
	if err := h.OrderSvc.RemoveFromCart(c.Request.Context(), currentCustomer(c).ID, productID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) listOrders(c *gin.Context) {
	orders, err := h.OrderSvc.Orders(c.Request.Context(), currentCustomer(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o, nil))
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) getOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.OrderSvc.Order(c.Request.Context(), currentCustomer(c).ID, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(detail.Order, detail.Payment))
}

func (h *handler) completeOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req completeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PaymentType == nil || *req.PaymentType <= 0 {
		badRequest(c, "payment_type is required")
		return
	}
	if err := h.OrderSvc.AttachPayment(c.Request.Context(), currentCustomer(c).ID, id, *req.PaymentType); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
