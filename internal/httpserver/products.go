package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketplace-api/internal/domain"
	productsvc "marketplace-api/internal/service/product"
)

type productResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       string          `json:"price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	CategoryID  *int64          `json:"category_id"`
	SellerID    int64           `json:"customer_id"`
	CreatedDate string          `json:"created_date"`
}

type recommendRequest struct {
	CustomerID int64 `json:"customer_id" binding:"required"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.StringFixed(2),
		Quantity:    p.Quantity,
		Description: p.Description,
		Location:    p.Location,
		CategoryID:  p.CategoryID,
		SellerID:    p.SellerID,
		CreatedDate: p.CreatedAt.Format(dateLayout),
	}
}

func toProductResponses(products []domain.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

// productFilter reads ?category=, ?seller=, ?location= and ?quantity= (a
// result limit).
func productFilter(c *gin.Context) (domain.ProductFilter, bool) {
	var f domain.ProductFilter
	for _, q := range []struct {
		name string
		dst  *int64
	}{
		{"category", &f.CategoryID},
		{"seller", &f.SellerID},
	} {
		if v := c.Query(q.name); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n <= 0 {
				badRequest(c, q.name+" must be a positive integer")
				return f, false
			}
			*q.dst = n
		}
	}
	if v := c.Query("quantity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			badRequest(c, "quantity must be a positive integer")
			return f, false
		}
		f.Limit = n
	}
	f.Location = c.Query("location")
	return f, true
}

func (h *handler) listProducts(c *gin.Context) {
	f, ok := productFilter(c)
	if !ok {
		return
	}
	products, err := h.ProductSvc.List(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}

func (h *handler) getProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.ProductSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*p))
}

func (h *handler) createProduct(c *gin.Context) {
	var req productsvc.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	p, err := h.ProductSvc.Create(c.Request.Context(), currentCustomer(c).ID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(*p))
}

func (h *handler) updateProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req productsvc.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	if _, err := h.ProductSvc.Update(c.Request.Context(), currentCustomer(c).ID, id, req); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) deleteProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductSvc.Delete(c.Request.Context(), currentCustomer(c).ID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) likeProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.SocialSvc.Like(c.Request.Context(), currentCustomer(c).ID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *handler) unlikeProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.SocialSvc.Unlike(c.Request.Context(), currentCustomer(c).ID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) likedProducts(c *gin.Context) {
	products, err := h.SocialSvc.Liked(c.Request.Context(), currentCustomer(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}

func (h *handler) recommendProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "customer_id is required")
		return
	}
	rec, err := h.SocialSvc.Recommend(c.Request.Context(), currentCustomer(c).ID, id, req.CustomerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	who := toCustomerResponse(rec.Customer, false)
	c.JSON(http.StatusCreated, recommendationResponse{ID: rec.ID, Product: toProductResponse(rec.Product), Customer: &who})
}
