package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-storefront/internal/domain"
	customersvc "bookstore-storefront/internal/service/customer"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresIn   int              `json:"expires_in"`
	Customer    *domain.Customer `json:"customer"`
}

func (h *handlers) signup(c *gin.Context) {
	var req customersvc.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	customer, err := h.deps.CustomerSvc.Signup(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"customer": customer})
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password required")
		return
	}
	customer, token, err := h.deps.CustomerSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   h.deps.CustomerSvc.AccessTTLSeconds(),
		Customer:    customer,
	})
}

// signout revokes the token and runs the session cleanup.
func (h *handlers) signout(c *gin.Context) {
	customer, _ := currentCustomer(c)
	token := c.GetString(tokenCtxKey)
	ctx := c.Request.Context()

	if err := h.deps.CustomerSvc.SignOut(ctx, token); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.deps.Sessions.End(ctx, customer.ID); err != nil {
		h.logger.WithError(err).WithField("customer_id", customer.ID).Warn("session cleanup failed")
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) getMe(c *gin.Context) {
	customer, _ := currentCustomer(c)
	resp := gin.H{"customer": customer}
	page, ok, err := h.deps.Sessions.Get(customer.ID).LastVisitedPage(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Warn("read last visited page failed")
	}
	if ok {
		resp["lastVisitedPage"] = page
	}
	c.JSON(http.StatusOK, resp)
}
