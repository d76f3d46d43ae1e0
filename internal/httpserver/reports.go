package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-api/internal/domain"
)

type reportResponse[T any] struct {
	Title   string `json:"title"`
	Heading string `json:"heading"`
	Content []T    `json:"content"`
}

type orderReportRow struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customer_id"`
	PaymentID  *int64 `json:"payment_type"`
	Size       int    `json:"size"`
	TotalPrice string `json:"total_price"`
}

func (h *handler) ordersReport(c *gin.Context) {
	r, err := h.ReportSvc.OrdersByStatus(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.fail(c, err)
		return
	}
	rows := make([]orderReportRow, 0, len(r.Content))
	for _, o := range r.Content {
		rows = append(rows, toOrderReportRow(o))
	}
	c.JSON(http.StatusOK, reportResponse[orderReportRow]{Title: r.Title, Heading: r.Heading, Content: rows})
}

func toOrderReportRow(o domain.Order) orderReportRow {
	return orderReportRow{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		PaymentID:  o.PaymentID,
		Size:       o.Size(),
		TotalPrice: o.TotalPrice().StringFixed(2),
	}
}

func (h *handler) productsReport(c *gin.Context) {
	r, err := h.ReportSvc.ProductsByBand(c.Request.Context(), c.Query("band"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reportResponse[productResponse]{
		Title:   r.Title,
		Heading: r.Heading,
		Content: toProductResponses(r.Content),
	})
}
