package domain

import "time"

// LineItem is one book on an in-register transaction. Its ID is the book id.
type LineItem struct {
	BookID               string   `json:"bookId"`
	Title                string   `json:"title,omitempty"`
	UnitPriceCents       int64    `json:"unitPriceCents"`
	DiscountedPriceCents *int64   `json:"discountedPriceCents,omitempty"`
	DiscountPercentage   *float64 `json:"discountPercentage,omitempty"`
	Quantity             int      `json:"quantity"`
}

// FinalUnitPriceCents is the discounted price when present, else the unit price.
func (l LineItem) FinalUnitPriceCents() int64 {
	if l.DiscountedPriceCents != nil {
		return *l.DiscountedPriceCents
	}
	return l.UnitPriceCents
}

func (l LineItem) TotalCents() int64 {
	return l.FinalUnitPriceCents() * int64(l.Quantity)
}

// OrderDetails are the non-item fields attached to a transaction before completion.
type OrderDetails struct {
	CustomerID      *string          `json:"customerId,omitempty"`
	ShippingAddress *ShippingAddress `json:"shippingAddress,omitempty"`
	PaymentMethodID *string          `json:"paymentMethodId,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// Transaction is the in-progress sale at a register terminal.
type Transaction struct {
	ID        string       `json:"id"`
	Items     []LineItem   `json:"items"`
	Details   OrderDetails `json:"details"`
	Currency  string       `json:"currency"`
	StartedAt time.Time    `json:"startedAt"`
}

func (t Transaction) ItemCount() int {
	n := 0
	for _, it := range t.Items {
		n += it.Quantity
	}
	return n
}

func (t Transaction) TotalCents() int64 {
	var total int64
	for _, it := range t.Items {
		total += it.TotalCents()
	}
	return total
}
