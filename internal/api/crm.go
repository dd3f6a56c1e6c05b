package api

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"bookstore-storefront/internal/domain"
	"bookstore-storefront/internal/remote"
)

const (
	OpCustomersFetchAll       = "customers.fetchAll"
	OpSalesFetch              = "sales.fetch"
	OpRecommendationsCustomer = "recommendations.forCustomer"
)

// isoDate is the only date layout accepted by the sales procedure.
const isoDate = "2006-01-02"

type customerFetcher interface {
	FetchAll(ctx context.Context) ([]domain.CustomerRecord, error)
}

type salesFetcher interface {
	Fetch(ctx context.Context, startDate, endDate string) ([]domain.SalesRecord, error)
}

type recommendationLister interface {
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Recommendation, error)
}

type Customers struct {
	repo   customerFetcher
	logger *logrus.Logger
}

func NewCustomers(repo customerFetcher, logger *logrus.Logger) *Customers {
	return &Customers{repo: repo, logger: orDiscard(logger)}
}

// FetchAll returns every customer record visible to the CRM panel.
func (c *Customers) FetchAll(ctx context.Context) remote.Result[[]domain.CustomerRecord] {
	rows, err := c.repo.FetchAll(ctx)
	return finish(c.logger, OpCustomersFetchAll, rows, err, nil)
}

type Sales struct {
	repo   salesFetcher
	logger *logrus.Logger
}

func NewSales(repo salesFetcher, logger *logrus.Logger) *Sales {
	return &Sales{repo: repo, logger: orDiscard(logger)}
}

// Fetch returns sales rows between start and end inclusive. Both dates must be
// YYYY-MM-DD and start must not be after end; bad input fails without a call.
func (s *Sales) Fetch(ctx context.Context, start, end string) remote.Result[[]domain.SalesRecord] {
	fields := logrus.Fields{"start": start, "end": end}
	if err := validateRange(start, end); err != nil {
		return finish[[]domain.SalesRecord](s.logger, OpSalesFetch, nil, err, fields)
	}
	rows, err := s.repo.Fetch(ctx, start, end)
	return finish(s.logger, OpSalesFetch, rows, err, fields)
}

func validateRange(start, end string) error {
	from, err := time.Parse(isoDate, start)
	if err != nil {
		return fmt.Errorf("%w: start date %q is not YYYY-MM-DD", domain.ErrValidation, start)
	}
	to, err := time.Parse(isoDate, end)
	if err != nil {
		return fmt.Errorf("%w: end date %q is not YYYY-MM-DD", domain.ErrValidation, end)
	}
	if from.After(to) {
		return fmt.Errorf("%w: start date %s is after end date %s", domain.ErrValidation, start, end)
	}
	return nil
}

type Recommendations struct {
	repo   recommendationLister
	logger *logrus.Logger
}

func NewRecommendations(repo recommendationLister, logger *logrus.Logger) *Recommendations {
	return &Recommendations{repo: repo, logger: orDiscard(logger)}
}

// ForCustomer lists recommendations stored for the given customer.
func (r *Recommendations) ForCustomer(ctx context.Context, customerID string) remote.Result[[]domain.Recommendation] {
	recs, err := r.repo.ListByCustomer(ctx, customerID)
	return finish(r.logger, OpRecommendationsCustomer, recs, err, logrus.Fields{"customer_id": customerID})
}
