package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-api/internal/domain"
	storesvc "marketplace-api/internal/service/store"
)

type storeResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	SellerID    int64             `json:"seller_id"`
	CreatedDate string            `json:"created_date"`
	IsFavorite  *bool             `json:"is_favorite,omitempty"`
	Products    []productResponse `json:"products,omitempty"`
}

func toStoreResponse(s domain.Store) storeResponse {
	return storeResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		SellerID:    s.SellerID,
		CreatedDate: s.CreatedAt.Format(dateLayout),
	}
}

func toStoreView(v storesvc.View) storeResponse {
	out := toStoreResponse(v.Store)
	fav := v.IsFavorite
	out.IsFavorite = &fav
	if v.Products != nil {
		out.Products = toProductResponses(v.Products)
	}
	return out
}

func toStoreViews(views []storesvc.View) []storeResponse {
	out := make([]storeResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toStoreView(v))
	}
	return out
}

func (h *handler) listStores(c *gin.Context) {
	views, err := h.StoreSvc.List(c.Request.Context(), currentCustomer(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toStoreViews(views))
}

func (h *handler) favoriteStores(c *gin.Context) {
	views, err := h.StoreSvc.Favorites(c.Request.Context(), currentCustomer(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toStoreViews(views))
}

func (h *handler) getStore(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	view, err := h.StoreSvc.Get(c.Request.Context(), currentCustomer(c).ID, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toStoreView(*view))
}

func (h *handler) createStore(c *gin.Context) {
	var req storesvc.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	st, err := h.StoreSvc.Create(c.Request.Context(), currentCustomer(c).ID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toStoreResponse(*st))
}

func (h *handler) updateStore(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req storesvc.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	if _, err := h.StoreSvc.Update(c.Request.Context(), currentCustomer(c).ID, id, req); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) favoriteStore(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.StoreSvc.Favorite(c.Request.Context(), currentCustomer(c).ID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *handler) unfavoriteStore(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.StoreSvc.Unfavorite(c.Request.Context(), currentCustomer(c).ID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
