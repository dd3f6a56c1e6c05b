package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"bookstore-storefront/internal/domain"
)

const (
	customerCtxKey = "customer"
	tokenCtxKey    = "accessToken"
)

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

func bearerToken(c *gin.Context) string {
	authz := c.GetHeader("Authorization")
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// identifyCustomer attaches the customer behind a valid bearer token, if any.
func (h *handlers) identifyCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		customer, err := h.deps.CustomerSvc.LookupByToken(c.Request.Context(), token)
		if err == nil {
			c.Set(customerCtxKey, customer)
			c.Set(tokenCtxKey, token)
		}
		c.Next()
	}
}

func (h *handlers) requireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		customer, err := h.deps.CustomerSvc.LookupByToken(c.Request.Context(), token)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.Set(customerCtxKey, customer)
		c.Set(tokenCtxKey, token)
		c.Next()
	}
}

// recordVisit stores the path of successful GET requests as the signed-in
// customer's last visited page.
func (h *handlers) recordVisit() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != http.MethodGet || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		customer, ok := currentCustomer(c)
		if !ok {
			return
		}
		sess := h.deps.Sessions.Get(customer.ID)
		if err := sess.RecordVisit(c.Request.Context(), c.Request.URL.Path); err != nil {
			h.logger.WithError(err).WithField("customer_id", customer.ID).Warn("record last visited page failed")
		}
	}
}

func currentCustomer(c *gin.Context) (*domain.Customer, bool) {
	v, ok := c.Get(customerCtxKey)
	if !ok {
		return nil, false
	}
	customer, ok := v.(*domain.Customer)
	return customer, ok && customer != nil
}
