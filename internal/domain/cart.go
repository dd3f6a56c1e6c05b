package domain

import "time"

type Cart struct {
	ID         string     `json:"id"`
	CustomerID string     `json:"customerId"`
	Currency   string     `json:"currency"`
	State      string     `json:"state"`
	Items      []CartItem `json:"items"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type CartItem struct {
	ID                   string    `json:"id"`
	CartID               string    `json:"cartId"`
	BookID               string    `json:"bookId"`
	Title                string    `json:"title,omitempty"`
	UnitPriceCents       int64     `json:"unitPriceCents"`
	DiscountedPriceCents *int64    `json:"discountedPriceCents,omitempty"`
	DiscountPercentage   *float64  `json:"discountPercentage,omitempty"`
	IsOnPromotion        bool      `json:"isOnPromotion"`
	Quantity             int       `json:"quantity"`
	CreatedAt            time.Time `json:"createdAt"`
}

// TotalCents is the effective unit price times quantity.
func (i CartItem) TotalCents() int64 {
	price := i.UnitPriceCents
	if i.DiscountedPriceCents != nil {
		price = *i.DiscountedPriceCents
	}
	return price * int64(i.Quantity)
}

// TotalCents sums every item of the cart.
func (c Cart) TotalCents() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.TotalCents()
	}
	return total
}
