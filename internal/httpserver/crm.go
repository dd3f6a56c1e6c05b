package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) crmCustomers(c *gin.Context) {
	rows, err := h.deps.Customers.FetchAll(c.Request.Context()).Get()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": rows, "count": len(rows)})
}

func (h *handlers) crmSales(c *gin.Context) {
	rows, err := h.deps.Sales.Fetch(c.Request.Context(), c.Query("start"), c.Query("end")).Get()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": rows, "count": len(rows)})
}

func (h *handlers) crmRecommendations(c *gin.Context) {
	recs, err := h.deps.Recommendations.ForCustomer(c.Request.Context(), c.Param("customerId")).Get()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": recs, "count": len(recs)})
}
