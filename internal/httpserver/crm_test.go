package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"bookstore-storefront/internal/remote"
)

func TestCRMCustomers(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/crm/customers", "", true)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"email":"a@example.com"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCRMSalesValidation(t *testing.T) {
	env := newTestEnv(t)

	expectStatus(t, env.do(http.MethodGet, "/crm/sales?start=2024-01-01&end=2024-01-31", "", true), http.StatusOK)
	expectStatus(t, env.do(http.MethodGet, "/crm/sales?start=2024-02-01&end=2024-01-31", "", true), http.StatusBadRequest)
}

func TestCRMRecommendations(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/crm/customers/c9/recommendations", "", true)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"recommendation_reason":"for c9"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestStatusFor_RemoteFailureIsBadGateway(t *testing.T) {
	err := remote.Wrap("customers.fetchAll", errors.New("permission denied"))
	if got := statusFor(err); got != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", got)
	}
}
