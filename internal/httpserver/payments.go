package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-api/internal/domain"
	paymentsvc "marketplace-api/internal/service/payment"
)

const dateLayout = "2006-01-02"

// paymentResponse never carries the full account number.
type paymentResponse struct {
	ID             int64  `json:"id"`
	MerchantName   string `json:"merchant_name,omitempty"`
	ObscuredNumber string `json:"obscured_num,omitempty"`
	ExpirationDate string `json:"expiration_date,omitempty"`
	CreateDate     string `json:"create_date,omitempty"`
	CustomerID     int64  `json:"customer_id,omitempty"`
}

func toPaymentResponse(p domain.Payment) paymentResponse {
	out := paymentResponse{
		ID:             p.ID,
		MerchantName:   p.MerchantName,
		ObscuredNumber: p.ObscuredNumber(),
		CreateDate:     p.CreatedAt.Format(dateLayout),
		CustomerID:     p.CustomerID,
	}
	if p.ExpirationDate != nil {
		out.ExpirationDate = p.ExpirationDate.Format(dateLayout)
	}
	return out
}

func (h *handler) listPayments(c *gin.Context) {
	payments, err := h.PaymentSvc.List(c.Request.Context(), currentCustomer(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) createPayment(c *gin.Context) {
	var req paymentsvc.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	p, err := h.PaymentSvc.Create(c.Request.Context(), currentCustomer(c).ID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPaymentResponse(*p))
}

func (h *handler) getPayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.PaymentSvc.Get(c.Request.Context(), currentCustomer(c).ID, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(*p))
}

func (h *handler) deletePayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.PaymentSvc.Delete(c.Request.Context(), currentCustomer(c).ID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
