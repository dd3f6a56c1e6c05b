package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-storefront/internal/domain"
	"bookstore-storefront/internal/store/pointofsale"
)

type transactionItemRequest struct {
	BookID   string `json:"bookId" binding:"required"`
	Quantity int    `json:"quantity"`
}

// existingRegister finds the register store without creating one. Only
// initializeTransaction brings a register into existence.
func (h *handlers) existingRegister(c *gin.Context) (*pointofsale.Store, bool) {
	s, ok := h.deps.Registers.Lookup(c.Param("registerId"))
	if !ok {
		h.writeError(c, pointofsale.ErrNoActiveTransaction)
		return nil, false
	}
	return s, true
}

func (h *handlers) initializeTransaction(c *gin.Context) {
	s := h.deps.Registers.Store(c.Param("registerId"))
	if _, err := s.InitializeTransaction(); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.Snapshot())
}

func (h *handlers) getTransaction(c *gin.Context) {
	s, ok := h.existingRegister(c)
	if !ok {
		return
	}
	if _, ok := s.CurrentTransactionID(); !ok {
		h.writeError(c, pointofsale.ErrNoActiveTransaction)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

func (h *handlers) clearTransaction(c *gin.Context) {
	s, ok := h.deps.Registers.Lookup(c.Param("registerId"))
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	if err := s.ClearTransaction(); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// addTransactionItem prices the line from the catalogue, never from the request.
func (h *handlers) addTransactionItem(c *gin.Context) {
	var req transactionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "bookId required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	s, ok := h.existingRegister(c)
	if !ok {
		return
	}
	if _, ok := s.CurrentTransactionID(); !ok {
		h.writeError(c, pointofsale.ErrNoActiveTransaction)
		return
	}
	book, err := h.deps.Books.Get(c.Request.Context(), req.BookID).Get()
	if err != nil {
		h.writeError(c, err)
		return
	}
	err = s.AddItem(domain.LineItem{
		BookID:               book.ID,
		Title:                book.Title,
		UnitPriceCents:       book.PriceCents,
		DiscountedPriceCents: book.DiscountedPriceCents,
		DiscountPercentage:   book.DiscountPercentage,
		Quantity:             req.Quantity,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

func (h *handlers) updateTransactionItem(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "quantity required")
		return
	}
	s, ok := h.existingRegister(c)
	if !ok {
		return
	}
	if err := s.UpdateQuantity(c.Param("itemId"), *req.Quantity); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

func (h *handlers) removeTransactionItem(c *gin.Context) {
	s, ok := h.existingRegister(c)
	if !ok {
		return
	}
	if err := s.RemoveItem(c.Param("itemId")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

func (h *handlers) updateTransactionDetails(c *gin.Context) {
	var patch pointofsale.DetailsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid json")
		return
	}
	s, ok := h.existingRegister(c)
	if !ok {
		return
	}
	if err := s.UpdateOrderDetails(patch); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

func (h *handlers) completeTransaction(c *gin.Context) {
	s, ok := h.existingRegister(c)
	if !ok {
		return
	}
	order, err := s.CompleteTransaction(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}
