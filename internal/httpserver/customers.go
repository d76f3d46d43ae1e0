package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-api/internal/domain"
	customersvc "marketplace-api/internal/service/customer"
	socialsvc "marketplace-api/internal/service/social"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
	ID    int64  `json:"id"`
}

type customerResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
}

type profileResponse struct {
	customerResponse
	Recommends    []recommendationResponse `json:"recommends"`
	RecommendedBy []recommendationResponse `json:"recommended_by"`
}

type recommendationResponse struct {
	ID          int64             `json:"id"`
	Product     productResponse   `json:"product"`
	Customer    *customerResponse `json:"customer,omitempty"`
	Recommender *customerResponse `json:"recommender,omitempty"`
}

// toCustomerResponse renders a customer. Contact details are only included
// when private is set.
func toCustomerResponse(c domain.Customer, private bool) customerResponse {
	out := customerResponse{
		ID:        c.ID,
		Username:  c.Username,
		FirstName: c.FirstName,
		LastName:  c.LastName,
	}
	if private {
		out.Email = c.Email
		out.PhoneNumber = c.PhoneNumber
		out.Address = c.Address
	}
	return out
}

func (h *handler) register(c *gin.Context) {
	var req customersvc.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	cust, token, err := h.CustomerSvc.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, tokenResponse{Token: token, ID: cust.ID})
}

func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}
	cust, token, err := h.CustomerSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: token, ID: cust.ID})
}

func (h *handler) logout(c *gin.Context) {
	token, _ := c.Request.Context().Value(tokenCtxKey).(string)
	if err := h.CustomerSvc.Logout(c.Request.Context(), token); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) profile(c *gin.Context) {
	cust := currentCustomer(c)
	recommends, recommendedBy, err := h.SocialSvc.Recommendations(c.Request.Context(), cust.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{
		customerResponse: toCustomerResponse(*cust, true),
		Recommends:       toRecommendations(recommends, false),
		RecommendedBy:    toRecommendations(recommendedBy, true),
	})
}

// toRecommendations renders recs, naming the recommender when incoming is
// set and the recipient otherwise.
func toRecommendations(recs []socialsvc.Recommendation, incoming bool) []recommendationResponse {
	out := make([]recommendationResponse, 0, len(recs))
	for _, r := range recs {
		resp := recommendationResponse{ID: r.ID, Product: toProductResponse(r.Product)}
		if incoming {
			who := toCustomerResponse(r.Recommender, false)
			resp.Recommender = &who
		} else {
			who := toCustomerResponse(r.Customer, false)
			resp.Customer = &who
		}
		out = append(out, resp)
	}
	return out
}
