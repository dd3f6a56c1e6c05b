package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookstore-storefront/internal/session"
)

type searchRequest struct {
	Query string `json:"query"`
}

type addCartItemRequest struct {
	BookID   string `json:"bookId" binding:"required"`
	Quantity int    `json:"quantity"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *handlers) customerSession(c *gin.Context) *session.Session {
	customer, _ := currentCustomer(c)
	return h.deps.Sessions.Get(customer.ID)
}

func (h *handlers) getSearch(c *gin.Context) {
	c.JSON(http.StatusOK, searchRequest{Query: h.customerSession(c).Search.Query()})
}

func (h *handlers) putSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	s := h.customerSession(c).Search
	s.SetQuery(req.Query)
	c.JSON(http.StatusOK, searchRequest{Query: s.Query()})
}

func (h *handlers) deleteSearch(c *gin.Context) {
	h.customerSession(c).Search.Clear()
	c.Status(http.StatusNoContent)
}

func (h *handlers) searchResults(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	query := h.customerSession(c).Search.Query()
	books, err := h.deps.BookSvc.Search(c.Request.Context(), query, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "results": books, "count": len(books)})
}

func (h *handlers) getCart(c *gin.Context) {
	st, err := h.customerSession(c).Cart.InitializeCart(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "bookId required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	st, err := h.customerSession(c).Cart.AddItem(c.Request.Context(), req.BookID, req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *handlers) updateCartItem(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "quantity required")
		return
	}
	st, err := h.customerSession(c).Cart.UpdateQuantity(c.Request.Context(), c.Param("bookId"), *req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	st, err := h.customerSession(c).Cart.RemoveItem(c.Request.Context(), c.Param("bookId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
